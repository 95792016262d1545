package momo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildCollectRequest(t *testing.T) {
	req := BuildCollectRequest("cw-42", "670000000", ProviderMTN, 5000, 150, "Ama Njoya", "ama@example.com")

	require.Equal(t, "cw-42", req.OrderRef)
	require.Equal(t, int64(5150), req.AmountXAF, "service fee folded into total")
	require.Equal(t, ProviderMTN, req.Provider)
	require.Equal(t, "237670000000", req.Phone)
	require.Equal(t, "Ama Njoya", req.PayerName)
	require.Contains(t, req.Description, "cw-42")
}

func TestBuildCollectRequestDeterministic(t *testing.T) {
	a := BuildCollectRequest("cw-7", "237690000000", ProviderOrange, 2500, 0, "B", "b@x.cm")
	b := BuildCollectRequest("cw-7", "690000000", ProviderOrange, 2500, 0, "B", "b@x.cm")
	require.Equal(t, a, b, "country prefix normalizes away")
}
