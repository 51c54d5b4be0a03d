package sms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := map[string]struct {
		raw  string
		want string
	}{
		"BareTenDigits":       {"5551234567", "+15551234567"},
		"Formatted":           {"(555) 123-4567", "+15551234567"},
		"Dashed":              {"555-123-4567", "+15551234567"},
		"WithCountryCode":     {"15551234567", "+15551234567"},
		"AlreadyE164":         {"+15551234567", "+15551234567"},
		"International":       {"+44 20 7946 0958", "+442079460958"},
		"SpacesAndDots":       {"1 555.123.4567", "+15551234567"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := NormalizePhone(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizePhoneRejectsBadInput(t *testing.T) {
	for _, raw := range []string{"", "555-1234", "123", "not a number", "12345678901234567890"} {
		t.Run(raw, func(t *testing.T) {
			_, err := NormalizePhone(raw)
			assert.Error(t, err)
		})
	}
}
