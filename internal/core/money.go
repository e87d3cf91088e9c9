// Package core provides the budgeting domain types and money helpers.
//
// Amounts are float64 end to end, as they are stored. Rounding goes through
// decimal arithmetic on the shortest decimal representation of the float and
// rounds half away from zero, so 2.675 rounds to 2.68 and 0.125 to 0.13.
package core

import "github.com/shopspring/decimal"

// Round rounds x to the given number of decimal places, half away from zero.
func Round(x float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(x).Round(places).Float64()
	return f
}

// RoundCents rounds x to two decimal places.
func RoundCents(x float64) float64 {
	return Round(x, 2)
}

// FormatAmount renders x with exactly two decimals using the same rounding as Round.
//
// Examples:
//
//	FormatAmount(25.5)   -> "25.50"
//	FormatAmount(-3.125) -> "-3.13"
func FormatAmount(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(2)
}

// FormatPercentage renders a percentage with one decimal, e.g. "85.0".
func FormatPercentage(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(1)
}
