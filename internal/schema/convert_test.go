package schema

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestDecimalValueRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "-0.0001", "19999999999999.9999", "42.5"} {
		d := mustDecimal(t, s)
		got, err := ParseDecimal(DecimalValue(d))
		require.NoError(t, err)
		assert.True(t, d.Equal(got), "round trip of %s gave %s", d, got)
	}
}

func TestParseDecimal_Invalid(t *testing.T) {
	_, err := ParseDecimal([]byte("not a number"))
	require.Error(t, err)
}

func TestDateValueRoundTrip(t *testing.T) {
	day := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	s := DateValue(day)
	assert.Equal(t, "2024-05-01", s)

	got, err := ParseDate(s)
	require.NoError(t, err)
	assert.True(t, day.Equal(got))
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("01/05/2024")
	require.Error(t, err)
}
