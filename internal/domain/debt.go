package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt is a legacy receivable: money lent before the ledger existed.
// Creating one records the claim only; cash moves when payments arrive.
type Debt struct {
	ID             string
	DebtorName     string
	Description    string
	TotalAmount    decimal.Decimal
	PaidAmount     decimal.Decimal
	PendingBalance decimal.Decimal
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewDebt records a receivable with nothing collected yet.
func NewDebt(id, debtorName, description string, total decimal.Decimal, now time.Time) *Debt {
	return &Debt{
		ID:             id,
		DebtorName:     debtorName,
		Description:    description,
		TotalAmount:    total,
		PaidAmount:     decimal.Zero,
		PendingBalance: total,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ApplyPayment collects amount against the outstanding balance and closes
// the debt when it reaches zero.
func (d *Debt) ApplyPayment(amount decimal.Decimal, now time.Time) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(d.PendingBalance) {
		return ErrExceedsPendingBalance
	}

	d.PaidAmount = d.PaidAmount.Add(amount)
	d.PendingBalance = d.PendingBalance.Sub(amount)
	if d.PendingBalance.IsZero() {
		d.Active = false
	}
	d.UpdatedAt = now

	return nil
}

// ApplyPaymentReversal reopens the portion a reversed payment had settled.
func (d *Debt) ApplyPaymentReversal(amount decimal.Decimal, now time.Time) {
	d.PaidAmount = d.PaidAmount.Sub(amount)
	d.PendingBalance = d.PendingBalance.Add(amount)
	d.Active = true
	d.UpdatedAt = now
}
