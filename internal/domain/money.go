package domain

import "github.com/shopspring/decimal"

// RoundMoney applies the single rounding rule used everywhere a monetary
// value crosses a persistence or display boundary: half away from zero,
// two decimal places.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Money parses a literal like "6.95". It panics on malformed input and is
// meant for constants and tests, not user data.
func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
