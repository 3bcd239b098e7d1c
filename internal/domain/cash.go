package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashAccountID is the fixed key of the single system-wide cash account.
// Singleton-ness is a schema fact (one row, one known primary key), not
// "whichever row comes back first".
const CashAccountID = "global"

// CashAccount holds the shared operative float, the equity figure and the
// running realized profit. Created once on first use, mutated by nearly every
// event processor, never deleted.
type CashAccount struct {
	ID                string
	OperativeCash     decimal.Decimal
	TotalCapital      decimal.Decimal
	AccumulatedProfit decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewCashAccount returns the zero-valued singleton account.
func NewCashAccount(now time.Time) *CashAccount {
	return &CashAccount{
		ID:                CashAccountID,
		OperativeCash:     decimal.Zero,
		TotalCapital:      decimal.Zero,
		AccumulatedProfit: decimal.Zero,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Credit adds amount to the operative float.
func (c *CashAccount) Credit(amount decimal.Decimal) {
	c.OperativeCash = c.OperativeCash.Add(amount)
}

// Debit removes amount from the operative float. Under a blocking policy the
// debit fails with ErrInsufficientFunds instead of going negative.
func (c *CashAccount) Debit(amount decimal.Decimal, policy Policy) error {
	if policy.Blocks() && c.OperativeCash.LessThan(amount) {
		return ErrInsufficientFunds
	}

	c.OperativeCash = c.OperativeCash.Sub(amount)

	return nil
}

// RecordProfit adjusts accumulated profit; delta may be negative on a
// loss-making sale or an expense.
func (c *CashAccount) RecordProfit(delta decimal.Decimal) {
	c.AccumulatedProfit = c.AccumulatedProfit.Add(delta)
}

// InjectCapital is an equity movement: cash and capital rise together,
// profit is untouched.
func (c *CashAccount) InjectCapital(amount decimal.Decimal) {
	c.OperativeCash = c.OperativeCash.Add(amount)
	c.TotalCapital = c.TotalCapital.Add(amount)
}

// WithdrawCapital removes amount from both cash and capital. Both balances
// must cover the amount.
func (c *CashAccount) WithdrawCapital(amount decimal.Decimal) error {
	if c.OperativeCash.LessThan(amount) {
		return ErrInsufficientFunds
	}
	if c.TotalCapital.LessThan(amount) {
		return ErrInsufficientCapital
	}

	c.OperativeCash = c.OperativeCash.Sub(amount)
	c.TotalCapital = c.TotalCapital.Sub(amount)

	return nil
}

// WithdrawProfit removes amount from both cash and accumulated profit.
func (c *CashAccount) WithdrawProfit(amount decimal.Decimal) error {
	if c.OperativeCash.LessThan(amount) {
		return ErrInsufficientFunds
	}
	if c.AccumulatedProfit.LessThan(amount) {
		return ErrInsufficientProfit
	}

	c.OperativeCash = c.OperativeCash.Sub(amount)
	c.AccumulatedProfit = c.AccumulatedProfit.Sub(amount)

	return nil
}

// ApplyReversal undoes the cash-side deltas a committed event applied. The
// deltas arrive sign-inverted already; a blocking policy refuses to drive the
// operative float negative (e.g. reversing a sale whose proceeds were spent).
func (c *CashAccount) ApplyReversal(cashDelta, capitalDelta, profitDelta decimal.Decimal, policy Policy) error {
	newCash := c.OperativeCash.Add(cashDelta)
	if policy.Blocks() && newCash.IsNegative() {
		return ErrInsufficientFunds
	}

	c.OperativeCash = newCash
	c.TotalCapital = c.TotalCapital.Add(capitalDelta)
	c.AccumulatedProfit = c.AccumulatedProfit.Add(profitDelta)

	return nil
}
