package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a nullable money value backed by a NUMERIC column.
//
// It decodes from JSON numbers and from loosely formatted strings such as
// "1,200" or "Rs. 50". Input that cannot be read as a number decodes as null
// instead of failing, so historical rows with junk amounts still load.
type Amount struct {
	decimal.NullDecimal
}

// NewAmount returns a non-null amount.
func NewAmount(v float64) Amount {
	return Amount{decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}}
}

var currencyMarks = strings.NewReplacer(
	",", "",
	"₹", "",
	"INR", "", "inr", "",
	"Rs.", "", "rs.", "", "RS.", "",
	"Rs", "", "rs", "", "RS", "",
)

// ParseAmount reads a user-formatted amount string. Blank or malformed input
// yields a null amount.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(currencyMarks.Replace(s))
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == ' ':
		default:
			return Amount{}
		}
	}
	clean := b.String()
	if clean == "" || strings.Count(clean, ".") > 1 {
		return Amount{}
	}
	if neg {
		clean = "-" + clean
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return Amount{}
	}
	return Amount{decimal.NullDecimal{Decimal: d, Valid: true}}
}

// OrZero returns the value, or zero for a null amount.
func (a Amount) OrZero() decimal.Decimal {
	if !a.Valid {
		return decimal.Zero
	}
	return a.Decimal
}

// Blank reports whether the amount is null or zero.
func (a Amount) Blank() bool {
	return !a.Valid || a.Decimal.IsZero()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return []byte(a.Decimal.String()), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "" || raw == "null":
		*a = Amount{}
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*a = Amount{}
			return nil
		}
		*a = ParseAmount(s)
	default:
		d, err := decimal.NewFromString(raw)
		if err != nil {
			*a = Amount{}
			return nil
		}
		*a = Amount{decimal.NullDecimal{Decimal: d, Valid: true}}
	}
	return nil
}
