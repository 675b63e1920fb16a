// Package money provides deterministic rounding for monetary amounts.
//
// Every monetary value the engine emits passes through RoundCents exactly
// once at the point of computation. Callers must not round again; doing so
// compounds rounding error across derived values.
package money

import "github.com/shopspring/decimal"

// RoundCents rounds an amount to two decimal places using half-up rounding.
func RoundCents(amount float64) float64 {
	rounded, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return rounded
}

// PercentOf returns the given percentage of an amount, rounded to cents.
func PercentOf(amount float64, percentage float64) float64 {
	value := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(percentage)).
		Div(decimal.NewFromInt(100))
	result, _ := value.Round(2).Float64()
	return result
}
