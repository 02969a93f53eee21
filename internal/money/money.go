// Package money centralises fixed-point arithmetic for ledger amounts.
// Journal amounts are SAR with two decimal places; quantities and unit
// costs keep their full precision until a final rounding step.
package money

import "github.com/shopspring/decimal"

// Currency is the ledger currency code.
const Currency = "SAR"

// Precision is the number of decimal places carried by journal amounts.
const Precision = 2

// Round normalises an amount to currency precision. Decimal.Round rounds
// half away from zero, which is half-up for the non-negative amounts the
// engine accepts.
func Round(v decimal.Decimal) decimal.Decimal {
	return v.Round(Precision)
}

// IsPositive reports whether v is strictly greater than zero.
func IsPositive(v decimal.Decimal) bool {
	return v.Sign() > 0
}

// Breakdown is the monetary split of a voucher amount.
type Breakdown struct {
	Base  decimal.Decimal
	Tax   decimal.Decimal
	Total decimal.Decimal
}

// Split computes the tax breakdown for a base amount at the given rate.
// The base is normalised first, the tax rounds exactly once, and the
// total is base plus tax; no intermediate value is left unrounded.
func Split(base, rate decimal.Decimal) Breakdown {
	b := Round(base)
	tax := Round(b.Mul(rate))
	return Breakdown{Base: b, Tax: tax, Total: b.Add(tax)}
}
