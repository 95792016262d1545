package momo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidPhone(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		provider Provider
		want     bool
	}{
		{"mtn 67x", "670000000", ProviderMTN, true},
		{"mtn 650", "650123456", ProviderMTN, true},
		{"mtn 654", "654999999", ProviderMTN, true},
		{"mtn 680", "680123456", ProviderMTN, true},
		{"mtn with country code", "237670000000", ProviderMTN, true},
		{"mtn with plus", "+237670000000", ProviderMTN, true},
		{"mtn with spaces", "670 00 00 00", ProviderMTN, true},
		{"mtn spaced short", "670 00 00 0", ProviderMTN, false}, // 8 digits after strip
		{"mtn spaced full", "6 70 00 00 00", ProviderMTN, true},
		{"orange 69x", "690000000", ProviderOrange, true},
		{"orange 655", "655123456", ProviderOrange, true},
		{"orange 659", "659999999", ProviderOrange, true},
		{"orange 685", "685123456", ProviderOrange, true},
		{"orange number on mtn", "690000000", ProviderMTN, false},
		{"mtn number on orange", "670000000", ProviderOrange, false},
		{"mtn 655 is orange", "655123456", ProviderMTN, false},
		{"too short", "12345", ProviderMTN, false},
		{"too short orange", "12345", ProviderOrange, false},
		{"too long", "6700000000", ProviderMTN, false},
		{"not starting with 6", "770000000", ProviderMTN, false},
		{"letters", "67000000a", ProviderMTN, false},
		{"empty", "", ProviderOrange, false},
		{"unknown provider", "670000000", Provider("camtel"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ValidPhone(tt.phone, tt.provider))
		})
	}
}

func TestValidProvider(t *testing.T) {
	require.True(t, ValidProvider("mtn"))
	require.True(t, ValidProvider("MTN"))
	require.True(t, ValidProvider("orange"))
	require.False(t, ValidProvider("camtel"))
	require.False(t, ValidProvider(""))
}
