package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceKind separates payables (purchases) from receivables (sales).
type InvoiceKind string

const (
	InvoicePurchase InvoiceKind = "purchase"
	InvoiceSale     InvoiceKind = "sale"
)

// InvoiceStatus values. Completed means fully settled; reversed invoices are
// closed and can no longer accept payments.
type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "pending"
	InvoiceCompleted InvoiceStatus = "completed"
	InvoiceReversed  InvoiceStatus = "reversed"
)

// Invoice is the settlement aggregate behind a purchase or sale event.
// pendingBalance never goes negative; status is completed iff it is zero.
type Invoice struct {
	ID             string
	Kind           InvoiceKind
	EventID        string
	AssetID        string
	CounterpartyID string
	TotalAmount    decimal.Decimal
	PaidAmount     decimal.Decimal
	PendingBalance decimal.Decimal
	Status         InvoiceStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewInvoice builds the invoice for a freshly committed trade event.
func NewInvoice(id string, kind InvoiceKind, eventID, assetID, counterpartyID string, total, paid decimal.Decimal, now time.Time) *Invoice {
	pending := total.Sub(paid)
	if pending.IsNegative() {
		pending = decimal.Zero
	}

	status := InvoicePending
	if pending.IsZero() {
		status = InvoiceCompleted
	}

	return &Invoice{
		ID:             id,
		Kind:           kind,
		EventID:        eventID,
		AssetID:        assetID,
		CounterpartyID: counterpartyID,
		TotalAmount:    total,
		PaidAmount:     paid,
		PendingBalance: pending,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ApplyPayment settles amount against the pending balance. Payments never
// touch cost basis; they only move paid/pending/status.
func (i *Invoice) ApplyPayment(amount decimal.Decimal, now time.Time) error {
	if i.Status == InvoiceReversed {
		return ErrInvoiceReversed
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(i.PendingBalance) {
		return ErrExceedsPendingBalance
	}

	i.PaidAmount = i.PaidAmount.Add(amount)
	i.PendingBalance = i.PendingBalance.Sub(amount)
	if i.PendingBalance.IsZero() {
		i.Status = InvoiceCompleted
	}
	i.UpdatedAt = now

	return nil
}

// ApplyPaymentReversal restores a previously settled amount.
func (i *Invoice) ApplyPaymentReversal(amount decimal.Decimal, now time.Time) {
	i.PaidAmount = i.PaidAmount.Sub(amount)
	i.PendingBalance = i.PendingBalance.Add(amount)
	if i.PendingBalance.IsPositive() && i.Status == InvoiceCompleted {
		i.Status = InvoicePending
	}
	i.UpdatedAt = now
}
