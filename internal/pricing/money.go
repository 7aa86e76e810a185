package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses operator input. Empty or non-numeric input reports false so the
// caller can treat the field as unset.
func ParseAmount(raw string) (Money, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Format renders an amount the way it appears in order messages: no trailing zeros,
// at most two decimal places.
func Format(m Money) string {
	return m.Round(2).String()
}
