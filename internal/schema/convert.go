package schema

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DecimalValue encodes a decimal for storage. The byte form keeps BLOB
// affinity in SQLite, so NUMERIC columns never coerce the value through
// a float64 on the way in or out.
func DecimalValue(d decimal.Decimal) []byte {
	return []byte(d.String())
}

// ParseDecimal decodes a stored decimal value.
func ParseDecimal(b []byte) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid stored decimal %q: %w", b, err)
	}
	return d, nil
}

// DateValue encodes a calendar date as its ISO-8601 day string.
func DateValue(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDate decodes a stored ISO-8601 day string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored date %q: %w", s, err)
	}
	return t, nil
}
