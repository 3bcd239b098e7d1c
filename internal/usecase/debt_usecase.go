package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mercaldo/ledger/internal/domain"
)

// DebtUseCase processes legacy-debt collection: receivables that predate the
// ledger and the payments that settle them.
type DebtUseCase struct {
	scope     scopeOpener
	eventRepo EventRepository
	debtRepo  DebtRepository
	idGen     IDGenerator
}

// NewDebtUseCase creates a new DebtUseCase.
func NewDebtUseCase(
	txManager TransactionManager,
	cashRepo CashRepository,
	assetRepo AssetRepository,
	eventRepo EventRepository,
	debtRepo DebtRepository,
	idGen IDGenerator,
) *DebtUseCase {
	return &DebtUseCase{
		scope:     scopeOpener{txManager: txManager, cashRepo: cashRepo, assetRepo: assetRepo},
		eventRepo: eventRepo,
		debtRepo:  debtRepo,
		idGen:     idGen,
	}
}

// CreateDebtInput records an old receivable.
type CreateDebtInput struct {
	ActorID     string
	DebtorName  string
	Description string
	TotalAmount decimal.Decimal
}

// CreateDebt records the claim only. The money left the box long before the
// ledger existed, so creation moves no cash.
func (uc *DebtUseCase) CreateDebt(ctx context.Context, input CreateDebtInput) (*domain.Debt, error) {
	if input.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	debt := domain.NewDebt(
		uc.idGen.Generate(),
		input.DebtorName,
		input.Description,
		domain.RoundMoney(input.TotalAmount),
		time.Now().UTC(),
	)

	if err := uc.debtRepo.Create(ctx, debt); err != nil {
		return nil, err
	}

	return debt, nil
}

// DebtPaymentInput represents a collection against an old debt.
type DebtPaymentInput struct {
	ActorID string
	DebtID  string
	Amount  decimal.Decimal
}

// RegisterPayment credits the operative float by the collected amount and
// reduces the debt's pending balance. Collections are cash flow, not profit;
// any interest earned is not tracked separately.
func (uc *DebtUseCase) RegisterPayment(ctx context.Context, input DebtPaymentInput) (*domain.LedgerEvent, error) {
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

	debt, err := uc.debtRepo.GetByIDForUpdate(txCtx, scope.tx, input.DebtID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := debt.ApplyPayment(input.Amount, now); err != nil {
		return nil, err
	}

	scope.cash.Credit(input.Amount)

	event := &domain.LedgerEvent{
		ID:          uc.idGen.Generate(),
		Kind:        domain.EventDebtPayment,
		ActorID:     input.ActorID,
		ReferenceID: debt.ID,
		TotalAmount: input.Amount,
		PaidAmount:  input.Amount,
		CashDelta:   input.Amount,
		Description: debt.DebtorName,
		CreatedAt:   now,
	}

	if err := uc.eventRepo.Create(txCtx, scope.tx, event); err != nil {
		return nil, err
	}
	if err := uc.debtRepo.Update(txCtx, scope.tx, debt); err != nil {
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

// GetDebt retrieves a debt by ID.
func (uc *DebtUseCase) GetDebt(ctx context.Context, id string) (*domain.Debt, error) {
	return uc.debtRepo.GetByID(ctx, id)
}

// ListDebts lists debts with pagination.
func (uc *DebtUseCase) ListDebts(ctx context.Context, limit, offset int) ([]*domain.Debt, error) {
	return uc.debtRepo.List(ctx, clampLimit(limit), offset)
}
