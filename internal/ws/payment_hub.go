package ws

import "chopwell/internal/payment"

// PaymentHub pushes payment state snapshots to the paying user's devices.
// It is the orchestrator's presentation sink.
type PaymentHub struct {
	*Hub
}

func NewPaymentHub() *PaymentHub {
	return &PaymentHub{Hub: NewHub()}
}

func (h *PaymentHub) Publish(userID uint, snap payment.Snapshot) {
	h.BroadcastToUser(userID, map[string]interface{}{
		"type":    "payment_state",
		"payment": snap,
	})
}
