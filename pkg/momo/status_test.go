package momo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
	}{
		{"PENDING", StatusPending},
		{"pending", StatusPending},
		{"IN_PROGRESS", StatusPending},
		{"SUCCESSFUL", StatusCompleted},
		{"completed", StatusCompleted},
		{"SUCCESS", StatusCompleted},
		{"FAILED", StatusFailed},
		{"failed", StatusFailed},
		{"EXPIRED", StatusExpired},
		{" expired ", StatusExpired},
		{"REVERSED", StatusUnknown},
		{"", StatusUnknown},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ParseStatus(tt.raw), "raw=%q", tt.raw)
	}
}
