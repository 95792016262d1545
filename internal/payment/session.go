package payment

import (
	"time"

	"chopwell/pkg/momo"
)

// State of a payment attempt. Advances monotonically except for Retry,
// which starts a fresh attempt back at MethodSelection.
type State string

const (
	StateMethodSelection State = "METHOD_SELECTION"
	StateInitiating      State = "INITIATING"
	StateAwaitingUssdAck State = "AWAITING_USSD_ACK"
	StateDisplayingUssd  State = "DISPLAYING_USSD"
	StatePolling         State = "POLLING"
	StateVerifying       State = "VERIFYING"
	StateSucceeded       State = "SUCCEEDED"
	StateFailed          State = "FAILED"
)

// Terminal reports whether no further automatic transition can occur.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// FailureReason distinguishes why an attempt ended in StateFailed, or why
// method selection was rejected.
type FailureReason string

const (
	ReasonNone           FailureReason = ""
	ReasonValidation     FailureReason = "VALIDATION_ERROR"
	ReasonNetwork        FailureReason = "NETWORK_ERROR"
	ReasonGatewayFailed  FailureReason = "GATEWAY_FAILED"
	ReasonGatewayExpired FailureReason = "GATEWAY_EXPIRED"
	ReasonTimeout        FailureReason = "TIMEOUT"
)

// Session is the single mutable record of one payment flow. It is owned by
// exactly one Orchestrator and only ever mutated under its lock.
type Session struct {
	OrderRef      string
	UserID        uint
	AmountXAF     int64
	ServiceFeeXAF int64

	Provider   momo.Provider
	Phone      string
	PayerName  string
	PayerEmail string

	Reference string // gateway transaction reference; set once per attempt
	UssdCode  string

	State        State
	Reason       FailureReason
	StartedAt    time.Time
	DeadlineAt   time.Time
	AttemptCount int
}

func NewSession(orderRef string, userID uint, amountXAF, serviceFeeXAF int64) *Session {
	return &Session{
		OrderRef:      orderRef,
		UserID:        userID,
		AmountXAF:     amountXAF,
		ServiceFeeXAF: serviceFeeXAF,
		State:         StateMethodSelection,
		AttemptCount:  1,
	}
}

// Snapshot is the read-only view pushed to the presentation layer on every
// transition.
type Snapshot struct {
	OrderRef         string        `json:"order_ref"`
	State            State         `json:"state"`
	UssdCode         string        `json:"ussd_code,omitempty"`
	RemainingSeconds int           `json:"remaining_seconds"`
	Reason           FailureReason `json:"reason,omitempty"`
	AttemptCount     int           `json:"attempt_count"`
}

func (s *Session) snapshot(now time.Time) Snapshot {
	remaining := 0
	if !s.DeadlineAt.IsZero() && !s.State.Terminal() {
		if d := s.DeadlineAt.Sub(now); d > 0 {
			remaining = int(d / time.Second)
		}
	}
	return Snapshot{
		OrderRef:         s.OrderRef,
		State:            s.State,
		UssdCode:         s.UssdCode,
		RemainingSeconds: remaining,
		Reason:           s.Reason,
		AttemptCount:     s.AttemptCount,
	}
}
