package payment

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Provider-accepted payment range in whole rupiah. Fixed, not tunable.
const (
	MinAmount int64 = 1_000
	MaxAmount int64 = 10_000_000
)

// CoerceAmount turns a decoded JSON value (number, numeric string) into a
// whole-rupiah amount without applying the range policy.
func CoerceAmount(raw any) (int64, error) {
	switch v := raw.(type) {
	case float64:
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, ErrNotANumber
		}
		return n, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, ErrNotANumber
		}
		return n, nil
	default:
		return 0, ErrNotANumber
	}
}

// ParseAmount coerces and validates against the accepted range.
func ParseAmount(raw any) (int64, error) {
	amount, err := CoerceAmount(raw)
	if err != nil {
		return 0, err
	}
	if err := ValidateAmount(amount); err != nil {
		return 0, err
	}
	return amount, nil
}

// ValidateAmount checks the provider bounds. Pure, no clamping.
func ValidateAmount(amount int64) error {
	if amount < MinAmount {
		return ErrBelowMinimum
	}
	if amount > MaxAmount {
		return ErrAboveMaximum
	}
	return nil
}

// FormatRupiah renders an amount as "Rp15.000" for display messages.
func FormatRupiah(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := "Rp" + b.String()
	if neg {
		out = "-" + out
	}
	return out
}
