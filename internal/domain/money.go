package domain

import "github.com/shopspring/decimal"

// Decimal scales used across the engine. Ledger-currency amounts (COP) are
// kept at scale 2; exchange rates may carry up to 8 fractional digits.
const (
	MoneyScale = 2
	RateScale  = 8
)

// RoundMoney normalizes an amount to the ledger money scale.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// RoundRate normalizes an exchange rate to the rate scale.
func RoundRate(d decimal.Decimal) decimal.Decimal {
	return d.Round(RateScale)
}

// SafeDiv divides a by b, returning zero when b is zero. Used for derived
// unit costs and exchange rates where a zero denominator means "no position".
func SafeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}
