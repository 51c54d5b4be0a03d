package sms

import (
	"fmt"
	"strings"
)

// NormalizePhone converts a raw phone number to the E.164 format the
// provider requires. Ten-digit numbers are assumed US/Canada.
func NormalizePhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	switch {
	case len(d) == 10:
		return "+1" + d, nil
	case len(d) == 11 && strings.HasPrefix(d, "1"):
		return "+" + d, nil
	case len(d) >= 11 && len(d) <= 15:
		return "+" + d, nil
	default:
		return "", fmt.Errorf("phone number %q has %d digits, cannot normalize", raw, len(d))
	}
}
