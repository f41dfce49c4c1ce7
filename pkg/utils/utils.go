package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// Hundred is used to turn a percentage into a rate
var Hundred = decimal.NewFromInt(100)

// RateFactor returns 1 + percentual/100
func RateFactor(percentual decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(percentual.Div(Hundred))
}

// RoundMoney rounds to 2 decimal places for storage and display
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatMoney renders an amount the way printed contracts show it
func FormatMoney(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

// StartOfDay truncates t to midnight in its own location.
// time.Truncate works on absolute time and would cut at UTC midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays moves a calendar date by n days, keeping the wall clock
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// SameDay reports whether a and b fall on the same calendar day in a's location
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
