package ws

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBroadcastDeliversToRegisteredUser(t *testing.T) {
	h := NewHub()
	c := &Client{UserID: 3, Send: make(chan []byte, 4)}
	h.Register(c)

	h.BroadcastToUser(3, map[string]int{"n": 1})
	select {
	case msg := <-c.Send:
		require.Contains(t, string(msg), `"n":1`)
	default:
		t.Fatal("no frame delivered")
	}

	h.BroadcastToUser(99, map[string]int{"n": 2})
	require.Zero(t, len(c.Send), "frame for another user must not arrive")
}

func TestBroadcastRacingCloseDoesNotPanic(t *testing.T) {
	h := NewHub()
	for i := 0; i < 500; i++ {
		c := &Client{UserID: 7, Send: make(chan []byte, 1)}
		h.Register(c)
		done := make(chan struct{})
		go func() {
			for j := 0; j < 20; j++ {
				h.BroadcastToUser(7, map[string]string{"state": "POLLING"})
			}
			close(done)
		}()
		c.Close()
		<-done
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	h := NewHub()
	c := &Client{UserID: 1, Send: make(chan []byte, 1)}
	h.Register(c)
	c.Close()
	c.Close()
	h.BroadcastToUser(1, "late")
}
