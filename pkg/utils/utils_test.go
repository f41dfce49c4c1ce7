package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRateFactor(t *testing.T) {
	tests := []struct {
		name       string
		percentual decimal.Decimal
		expected   decimal.Decimal
	}{
		{
			name:       "ten percent",
			percentual: decimal.NewFromInt(10),
			expected:   decimal.RequireFromString("1.1"),
		},
		{
			name:       "zero rate",
			percentual: decimal.Zero,
			expected:   decimal.NewFromInt(1),
		},
		{
			name:       "fractional rate",
			percentual: decimal.RequireFromString("2.5"),
			expected:   decimal.RequireFromString("1.025"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RateFactor(tt.percentual)
			assert.True(t, result.Equal(tt.expected),
				"Expected %v, but got %v", tt.expected, result)
		})
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "R$ 220.00", FormatMoney(decimal.NewFromInt(220)))
	assert.Equal(t, "R$ 33.33", FormatMoney(RoundMoney(decimal.NewFromInt(100).Div(decimal.NewFromInt(3)))))
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	ts := time.Date(2025, 3, 10, 22, 45, 0, 0, loc)

	result := StartOfDay(ts)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, loc), result)
}

func TestSameDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	a := time.Date(2025, 3, 10, 8, 0, 0, 0, loc)

	assert.True(t, SameDay(a, time.Date(2025, 3, 10, 23, 59, 0, 0, loc)))
	assert.False(t, SameDay(a, time.Date(2025, 3, 11, 0, 0, 0, 0, loc)))
	// 01:00 UTC on the 11th is still the 10th in BRT
	assert.True(t, SameDay(a, time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC)))
}

func TestAddDays(t *testing.T) {
	base := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), AddDays(base, 30))
}
