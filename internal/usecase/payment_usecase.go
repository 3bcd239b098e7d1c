package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mercaldo/ledger/internal/domain"
)

// PaymentUseCase settles outstanding invoice balances. Paying a purchase
// invoice sends cash out (accounts payable); collecting on a sale invoice
// brings cash in (accounts receivable). Payments never touch cost basis.
type PaymentUseCase struct {
	scope       scopeOpener
	eventRepo   EventRepository
	invoiceRepo InvoiceRepository
	idGen       IDGenerator
}

// NewPaymentUseCase creates a new PaymentUseCase.
func NewPaymentUseCase(
	txManager TransactionManager,
	cashRepo CashRepository,
	assetRepo AssetRepository,
	eventRepo EventRepository,
	invoiceRepo InvoiceRepository,
	idGen IDGenerator,
) *PaymentUseCase {
	return &PaymentUseCase{
		scope:       scopeOpener{txManager: txManager, cashRepo: cashRepo, assetRepo: assetRepo},
		eventRepo:   eventRepo,
		invoiceRepo: invoiceRepo,
		idGen:       idGen,
	}
}

// PaymentInput represents a settlement against an invoice.
type PaymentInput struct {
	ActorID   string
	InvoiceID string
	Amount    decimal.Decimal
}

// RegisterPayment applies a payment to an invoice and moves cash in the
// direction the invoice kind dictates. Outgoing payments require the cash to
// exist; you cannot pay a provider with money that is not in the box.
func (uc *PaymentUseCase) RegisterPayment(ctx context.Context, input PaymentInput) (*domain.LedgerEvent, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	scope, err := uc.scope.open(txCtx, true)
	if err != nil {
		return nil, err
	}
	defer func() { _ = scope.tx.Rollback(txCtx) }()

	invoice, err := uc.invoiceRepo.GetByIDForUpdate(txCtx, scope.tx, input.InvoiceID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := invoice.ApplyPayment(input.Amount, now); err != nil {
		return nil, err
	}

	var cashDelta decimal.Decimal
	switch invoice.Kind {
	case domain.InvoicePurchase:
		if err := scope.cash.Debit(input.Amount, domain.PolicyBlock); err != nil {
			return nil, err
		}
		cashDelta = input.Amount.Neg()
	case domain.InvoiceSale:
		scope.cash.Credit(input.Amount)
		cashDelta = input.Amount
	default:
		return nil, domain.ErrInvariantViolation
	}

	event := &domain.LedgerEvent{
		ID:          uc.idGen.Generate(),
		Kind:        domain.EventPayment,
		SubType:     string(invoice.Kind),
		ActorID:     input.ActorID,
		ReferenceID: invoice.ID,
		AssetID:     invoice.AssetID,
		TotalAmount: input.Amount,
		PaidAmount:  input.Amount,
		CashDelta:   cashDelta,
		CreatedAt:   now,
	}

	if err := uc.eventRepo.Create(txCtx, scope.tx, event); err != nil {
		return nil, err
	}
	if err := uc.invoiceRepo.Update(txCtx, scope.tx, invoice); err != nil {
		return nil, err
	}
	if err := uc.scope.cashRepo.Update(txCtx, scope.tx, scope.cash); err != nil {
		return nil, err
	}
	if err := scope.tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return event, nil
}

// GetInvoice retrieves an invoice by ID.
func (uc *PaymentUseCase) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	return uc.invoiceRepo.GetByID(ctx, id)
}

// ListInvoices lists invoices of one kind with pagination.
func (uc *PaymentUseCase) ListInvoices(ctx context.Context, kind domain.InvoiceKind, limit, offset int) ([]*domain.Invoice, error) {
	return uc.invoiceRepo.List(ctx, kind, clampLimit(limit), offset)
}
