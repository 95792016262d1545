package payment

import (
	"errors"
	"sync"

	"chopwell/pkg/momo"
)

var ErrSessionExists = errors.New("payment session already active for order")

// Manager owns the live orchestrators, one per order reference. A session
// is removed when the flow completes and hands off to order tracking, or
// when the user abandons it.
type Manager struct {
	mu       sync.Mutex
	gateway  momo.Gateway
	hooks    Hooks
	sink     Sink
	timings  Timings
	sessions map[string]*Orchestrator
}

func NewManager(gateway momo.Gateway, hooks Hooks, sink Sink, timings Timings) *Manager {
	return &Manager{
		gateway:  gateway,
		hooks:    hooks,
		sink:     sink,
		timings:  timings,
		sessions: make(map[string]*Orchestrator),
	}
}

// Create registers a new session for the order. At most one live session
// per order reference.
func (m *Manager) Create(sess *Session) (*Orchestrator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sess.OrderRef]; ok {
		return nil, ErrSessionExists
	}
	o := NewOrchestrator(sess, m.gateway, m.hooks, m.sink, m.timings)
	m.sessions[sess.OrderRef] = o
	return o, nil
}

func (m *Manager) Get(orderRef string) (*Orchestrator, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.sessions[orderRef]
	return o, ok
}

// Remove discards the session for the order.
func (m *Manager) Remove(orderRef string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, orderRef)
}
