package usecase

import (
	"context"
	"time"

	"github.com/mercaldo/ledger/internal/domain"
)

// ReversalUseCase applies the exact algebraic inverse of a committed event.
// Every inverse is computed from the deltas and cost basis persisted at
// commit time, never from a freshly recomputed average: once later events
// have moved the averages, recomputation would not restore the original
// state.
type ReversalUseCase struct {
	scope          scopeOpener
	eventRepo      EventRepository
	invoiceRepo    InvoiceRepository
	debtRepo       DebtRepository
	investmentRepo InvestmentRepository
	policies       domain.PolicySet
}

// NewReversalUseCase creates a new ReversalUseCase.
func NewReversalUseCase(
	txManager TransactionManager,
	cashRepo CashRepository,
	assetRepo AssetRepository,
	eventRepo EventRepository,
	invoiceRepo InvoiceRepository,
	debtRepo DebtRepository,
	investmentRepo InvestmentRepository,
	policies domain.PolicySet,
) *ReversalUseCase {
	return &ReversalUseCase{
		scope:          scopeOpener{txManager: txManager, cashRepo: cashRepo, assetRepo: assetRepo},
		eventRepo:      eventRepo,
		invoiceRepo:    invoiceRepo,
		debtRepo:       debtRepo,
		investmentRepo: investmentRepo,
		policies:       policies,
	}
}

// ReverseEventInput identifies the event to reverse and the audit trail.
type ReverseEventInput struct {
	EventID string
	ActorID string
	Reason  string
}

// ReverseEvent undoes a committed, non-reversed event. The pre-read outside
// the transaction only plans which rows to lock; the authoritative copy is
// re-read under the lock before any arithmetic.
func (uc *ReversalUseCase) ReverseEvent(ctx context.Context, input ReverseEventInput) (*domain.LedgerEvent, error) {
	planned, err := uc.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, err
	}
	if planned.Reversed {
		return nil, domain.ErrAlreadyReversed
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	lockCash := !planned.CashDelta.IsZero() || !planned.CapitalDelta.IsZero() || !planned.ProfitDelta.IsZero()

	var lockAssets []string
	if uc.touchesAssetLedger(planned) {
		lockAssets = append(lockAssets, planned.AssetID)
		if planned.TargetAssetID != "" {
			lockAssets = append(lockAssets, planned.TargetAssetID)
		}
	}

	scope, err := uc.scope.open(txCtx, lockCash, lockAssets...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = scope.tx.Rollback(txCtx) }()

	event, err := uc.eventRepo.GetByIDForUpdate(txCtx, scope.tx, input.EventID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := event.MarkReversed(now, input.ActorID, input.Reason); err != nil {
		return nil, err
	}

	if scope.cash != nil {
		err := scope.cash.ApplyReversal(
			event.CashDelta.Neg(),
			event.CapitalDelta.Neg(),
			event.ProfitDelta.Neg(),
			uc.policies.Reversal,
		)
		if err != nil {
			return nil, err
		}
	}

	if err := uc.reverseSideEffects(txCtx, scope, event, now); err != nil {
		return nil, err
	}

	if err := uc.eventRepo.MarkReversed(txCtx, scope.tx, event); err != nil {
		return nil, err
	}
	if scope.cash != nil {
		if err := uc.scope.cashRepo.Update(txCtx, scope.tx, scope.cash); err != nil {
			return nil, err
		}
	}
	if err := scope.tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return event, nil
}

// reverseSideEffects undoes the per-kind mutations beyond the cash account:
// asset ledgers, invoices, debts and investment products.
func (uc *ReversalUseCase) reverseSideEffects(ctx context.Context, scope *ledgerScope, event *domain.LedgerEvent, now time.Time) error {
	switch event.Kind {
	case domain.EventPurchase:
		ledger, err := scope.asset(event.AssetID)
		if err != nil {
			return err
		}
		if err := ledger.ApplyReversalOut(event.Quantity, event.CostBasis, uc.policies.Reversal); err != nil {
			return err
		}
		if err := uc.scope.assetRepo.Update(ctx, scope.tx, ledger); err != nil {
			return err
		}

		return uc.closeInvoice(ctx, scope, event.ReferenceID, now)

	case domain.EventSale:
		if event.SubType == domain.SaleModeStock {
			ledger, err := scope.asset(event.AssetID)
			if err != nil {
				return err
			}
			ledger.ApplyReversalIn(event.Quantity, event.CostBasis)
			if err := uc.scope.assetRepo.Update(ctx, scope.tx, ledger); err != nil {
				return err
			}
		}

		return uc.closeInvoice(ctx, scope, event.ReferenceID, now)

	case domain.EventExchange:
		source, err := scope.asset(event.AssetID)
		if err != nil {
			return err
		}
		target, err := scope.asset(event.TargetAssetID)
		if err != nil {
			return err
		}
		if err := target.ApplyReversalOut(event.TargetQuantity, event.CostBasis, uc.policies.Reversal); err != nil {
			return err
		}
		source.ApplyReversalIn(event.Quantity, event.CostBasis)
		if err := uc.scope.assetRepo.Update(ctx, scope.tx, target); err != nil {
			return err
		}

		return uc.scope.assetRepo.Update(ctx, scope.tx, source)

	case domain.EventExpense, domain.EventCapitalMovement:
		// Cash-only events; the cash inverse already ran.
		return nil

	case domain.EventInvestmentTrade:
		return uc.reverseInvestment(ctx, scope, event, now)

	case domain.EventDebtPayment:
		debt, err := uc.debtRepo.GetByIDForUpdate(ctx, scope.tx, event.ReferenceID)
		if err != nil {
			return err
		}
		debt.ApplyPaymentReversal(event.PaidAmount, now)

		return uc.debtRepo.Update(ctx, scope.tx, debt)

	case domain.EventPayment:
		invoice, err := uc.invoiceRepo.GetByIDForUpdate(ctx, scope.tx, event.ReferenceID)
		if err != nil {
			return err
		}
		invoice.ApplyPaymentReversal(event.PaidAmount, now)

		return uc.invoiceRepo.Update(ctx, scope.tx, invoice)

	default:
		return domain.ErrUnsupported
	}
}

func (uc *ReversalUseCase) reverseInvestment(ctx context.Context, scope *ledgerScope, event *domain.LedgerEvent, now time.Time) error {
	product, err := uc.investmentRepo.GetByIDForUpdate(ctx, scope.tx, event.ReferenceID)
	if err != nil {
		return err
	}

	switch event.SubType {
	case domain.InvestmentCreate, domain.InvestmentRestock:
		if err := product.RemoveStock(event.Quantity, event.CostBasis, now); err != nil {
			return err
		}
	case domain.InvestmentSale:
		product.RestoreSale(event.Quantity, event.CostBasis, now)
	default:
		return domain.ErrUnsupported
	}

	return uc.investmentRepo.Update(ctx, scope.tx, product)
}

// closeInvoice marks the invoice behind a reversed purchase/sale so it can
// no longer accept payments.
func (uc *ReversalUseCase) closeInvoice(ctx context.Context, scope *ledgerScope, invoiceID string, now time.Time) error {
	invoice, err := uc.invoiceRepo.GetByIDForUpdate(ctx, scope.tx, invoiceID)
	if err != nil {
		return err
	}

	invoice.Status = domain.InvoiceReversed
	invoice.UpdatedAt = now

	return uc.invoiceRepo.Update(ctx, scope.tx, invoice)
}

func (uc *ReversalUseCase) touchesAssetLedger(event *domain.LedgerEvent) bool {
	switch event.Kind {
	case domain.EventPurchase, domain.EventExchange:
		return true
	case domain.EventSale:
		return event.SubType == domain.SaleModeStock
	default:
		return false
	}
}
