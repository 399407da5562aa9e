package schema

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Type is the SQL type of a column. It renders the DDL fragment and
// converts Go values into their driver representation, so every write
// goes through one canonical encoding per type.
type Type interface {
	SQL() string
	// Bind converts a Go value to the value handed to the driver.
	Bind(v any) (any, error)
}

// BigInt is a 64-bit integer column type.
func BigInt() Type { return bigIntType{} }

// Numeric is a fixed-point column type with the given precision and scale.
// Values are stored as canonical decimal strings (BLOB affinity) so SQLite
// never routes them through floating point.
func Numeric(precision, scale int) Type { return numericType{precision, scale} }

// Bool is a boolean column type.
func Bool() Type { return boolType{} }

// Date is a calendar-date column type, stored as an ISO-8601 day string.
func Date() Type { return dateType{} }

// Text is a string column type.
func Text() Type { return textType{} }

type bigIntType struct{}

func (bigIntType) SQL() string { return "BIGINT" }

func (bigIntType) Bind(v any) (any, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	}
	return nil, fmt.Errorf("expected integer, got %T", v)
}

type numericType struct {
	precision int
	scale     int
}

func (t numericType) SQL() string { return fmt.Sprintf("NUMERIC(%d, %d)", t.precision, t.scale) }

func (numericType) Bind(v any) (any, error) {
	switch d := v.(type) {
	case decimal.Decimal:
		return DecimalValue(d), nil
	case string:
		parsed, err := decimal.NewFromString(d)
		if err != nil {
			return nil, fmt.Errorf("invalid decimal %q: %w", d, err)
		}
		return DecimalValue(parsed), nil
	}
	return nil, fmt.Errorf("expected decimal, got %T", v)
}

type boolType struct{}

func (boolType) SQL() string { return "BOOLEAN" }

func (boolType) Bind(v any) (any, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return nil, fmt.Errorf("expected bool, got %T", v)
}

type dateType struct{}

func (dateType) SQL() string { return "DATE" }

func (dateType) Bind(v any) (any, error) {
	switch d := v.(type) {
	case time.Time:
		return DateValue(d), nil
	case string:
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", d, err)
		}
		return d, nil
	}
	return nil, fmt.Errorf("expected date, got %T", v)
}

type textType struct{}

func (textType) SQL() string { return "TEXT" }

func (textType) Bind(v any) (any, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return nil, fmt.Errorf("expected string, got %T", v)
}
