package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mercaldo/ledger/internal/domain"
)

// CashUseCase processes the events that only move the cash account:
// expenses and capital movements.
type CashUseCase struct {
	scope     scopeOpener
	eventRepo EventRepository
	idGen     IDGenerator
	policies  domain.PolicySet
}

// NewCashUseCase creates a new CashUseCase.
func NewCashUseCase(
	txManager TransactionManager,
	cashRepo CashRepository,
	assetRepo AssetRepository,
	eventRepo EventRepository,
	idGen IDGenerator,
	policies domain.PolicySet,
) *CashUseCase {
	return &CashUseCase{
		scope:     scopeOpener{txManager: txManager, cashRepo: cashRepo, assetRepo: assetRepo},
		eventRepo: eventRepo,
		idGen:     idGen,
		policies:  policies,
	}
}

// ExpenseInput represents an operating expense.
type ExpenseInput struct {
	ActorID string
	Amount  decimal.Decimal
	Concept string
}

// Expense debits the operative float and books the amount as negative
// profit. Whether an expense may push cash below zero is a policy choice;
// the business currently allows it so unrecorded physical cash can be
// corrected after the fact.
func (uc *CashUseCase) Expense(ctx context.Context, input ExpenseInput) (*domain.LedgerEvent, error) {
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

	if err := scope.cash.Debit(input.Amount, uc.policies.ExpenseCash); err != nil {
		return nil, err
	}
	scope.cash.RecordProfit(input.Amount.Neg())

	event := &domain.LedgerEvent{
		ID:          uc.idGen.Generate(),
		Kind:        domain.EventExpense,
		ActorID:     input.ActorID,
		TotalAmount: input.Amount,
		CashDelta:   input.Amount.Neg(),
		ProfitDelta: input.Amount.Neg(),
		Description: input.Concept,
		CreatedAt:   time.Now().UTC(),
	}

	if err := uc.commitCashEvent(txCtx, scope, event); err != nil {
		return nil, err
	}

	return event, nil
}

// CapitalMovementInput represents an equity or profit movement.
type CapitalMovementInput struct {
	ActorID     string
	Type        string
	Amount      decimal.Decimal
	Description string
}

// CapitalMovement applies one of the three movement kinds: INJECTION raises
// cash and capital together, WITHDRAWAL_CAPITAL lowers both, and
// WITHDRAWAL_PROFIT takes realized profit out as cash. Withdrawals always
// validate funds; there is no allow-negative mode for equity.
func (uc *CashUseCase) CapitalMovement(ctx context.Context, input CapitalMovementInput) (*domain.LedgerEvent, error) {
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

	var cashDelta, capitalDelta, profitDelta decimal.Decimal

	switch input.Type {
	case domain.CapitalInjection:
		scope.cash.InjectCapital(input.Amount)
		cashDelta = input.Amount
		capitalDelta = input.Amount
	case domain.CapitalWithdrawalCapital:
		if err := scope.cash.WithdrawCapital(input.Amount); err != nil {
			return nil, err
		}
		cashDelta = input.Amount.Neg()
		capitalDelta = input.Amount.Neg()
	case domain.CapitalWithdrawalProfit:
		if err := scope.cash.WithdrawProfit(input.Amount); err != nil {
			return nil, err
		}
		cashDelta = input.Amount.Neg()
		profitDelta = input.Amount.Neg()
	default:
		return nil, domain.ErrUnsupported
	}

	event := &domain.LedgerEvent{
		ID:           uc.idGen.Generate(),
		Kind:         domain.EventCapitalMovement,
		SubType:      input.Type,
		ActorID:      input.ActorID,
		TotalAmount:  input.Amount,
		CashDelta:    cashDelta,
		CapitalDelta: capitalDelta,
		ProfitDelta:  profitDelta,
		Description:  input.Description,
		CreatedAt:    time.Now().UTC(),
	}

	if err := uc.commitCashEvent(txCtx, scope, event); err != nil {
		return nil, err
	}

	return event, nil
}

func (uc *CashUseCase) commitCashEvent(ctx context.Context, scope *ledgerScope, event *domain.LedgerEvent) error {
	if err := uc.eventRepo.Create(ctx, scope.tx, event); err != nil {
		return err
	}
	if err := uc.scope.cashRepo.Update(ctx, scope.tx, scope.cash); err != nil {
		return err
	}

	return scope.tx.Commit(ctx)
}
