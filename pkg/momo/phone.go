package momo

import "strings"

// Provider is a mobile-money rail reachable through the gateway.
type Provider string

const (
	ProviderMTN    Provider = "mtn"
	ProviderOrange Provider = "orange"
)

// Cameroonian numbering plans. Subscriber numbers are 9 digits starting
// with 6; the second and third digits identify the operator.
// MTN: 650-654, 67x, 680-684. Orange: 655-659, 69x, 685-689.
func ValidPhone(phone string, provider Provider) bool {
	digits := normalizePhone(phone)
	if len(digits) != 9 || digits[0] != '6' {
		return false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
	}
	p2 := digits[1]
	p3 := digits[2]
	switch provider {
	case ProviderMTN:
		return p2 == '7' || (p2 == '5' && p3 >= '0' && p3 <= '4') || (p2 == '8' && p3 >= '0' && p3 <= '4')
	case ProviderOrange:
		return p2 == '9' || (p2 == '5' && p3 >= '5' && p3 <= '9') || (p2 == '8' && p3 >= '5' && p3 <= '9')
	}
	return false
}

// ValidProvider reports whether the tag names a supported rail.
func ValidProvider(p string) bool {
	switch Provider(strings.ToLower(p)) {
	case ProviderMTN, ProviderOrange:
		return true
	}
	return false
}

// normalizePhone strips spaces, dashes and an optional 237 country prefix.
func normalizePhone(phone string) string {
	s := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, phone)
	s = strings.TrimPrefix(s, "+")
	if len(s) == 12 && strings.HasPrefix(s, "237") {
		s = s[3:]
	}
	return s
}
