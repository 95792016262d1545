package momo

import "strings"

// Status is the closed set of transaction states the orchestrator accepts.
// Gateway responses are mapped here at the boundary so the state machine
// never sees a raw string.
type Status int

const (
	StatusUnknown Status = iota
	StatusPending
	StatusCompleted
	StatusFailed
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusExpired:
		return "expired"
	}
	return "unknown"
}

// ParseStatus maps a gateway status string to a Status. CamPay reports
// SUCCESSFUL for a completed collection; older responses use COMPLETED.
// Anything unrecognized maps to StatusUnknown and is treated as a
// transient answer by the caller.
func ParseStatus(raw string) Status {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PENDING", "IN_PROGRESS":
		return StatusPending
	case "SUCCESSFUL", "SUCCESS", "COMPLETED":
		return StatusCompleted
	case "FAILED":
		return StatusFailed
	case "EXPIRED":
		return StatusExpired
	}
	return StatusUnknown
}
