package usecase

import (
	"context"
	"time"

	"github.com/mercaldo/ledger/internal/domain"
	"github.com/mercaldo/ledger/internal/infrastructure/metrics"
)

// EventInput is the closed set of event payloads the engine accepts. Each
// kind carries its own fields and is processed by a dedicated usecase; the
// type switch in ProcessEvent is the single dispatch point.
type EventInput interface {
	eventKind() domain.EventKind
}

func (PurchaseInput) eventKind() domain.EventKind        { return domain.EventPurchase }
func (SaleInput) eventKind() domain.EventKind            { return domain.EventSale }
func (ExchangeInput) eventKind() domain.EventKind        { return domain.EventExchange }
func (ExpenseInput) eventKind() domain.EventKind         { return domain.EventExpense }
func (CapitalMovementInput) eventKind() domain.EventKind { return domain.EventCapitalMovement }
func (CreateInvestmentInput) eventKind() domain.EventKind {
	return domain.EventInvestmentTrade
}
func (InvestmentSaleInput) eventKind() domain.EventKind { return domain.EventInvestmentTrade }
func (RestockInput) eventKind() domain.EventKind        { return domain.EventInvestmentTrade }
func (DebtPaymentInput) eventKind() domain.EventKind    { return domain.EventDebtPayment }
func (PaymentInput) eventKind() domain.EventKind        { return domain.EventPayment }

// Engine is the single entry point request handlers talk to: it routes event
// payloads to their processors, applies reversals, and serves snapshots.
type Engine struct {
	trades      *TradeUseCase
	cash        *CashUseCase
	investments *InvestmentUseCase
	debts       *DebtUseCase
	payments    *PaymentUseCase
	reversals   *ReversalUseCase

	cashRepo  CashRepository
	assetRepo AssetRepository
	eventRepo EventRepository

	retrier Retrier
	metrics *metrics.Metrics
}

// NewEngine wires the engine facade.
func NewEngine(
	trades *TradeUseCase,
	cash *CashUseCase,
	investments *InvestmentUseCase,
	debts *DebtUseCase,
	payments *PaymentUseCase,
	reversals *ReversalUseCase,
	cashRepo CashRepository,
	assetRepo AssetRepository,
	eventRepo EventRepository,
	retrier Retrier,
	m *metrics.Metrics,
) *Engine {
	return &Engine{
		trades:      trades,
		cash:        cash,
		investments: investments,
		debts:       debts,
		payments:    payments,
		reversals:   reversals,
		cashRepo:    cashRepo,
		assetRepo:   assetRepo,
		eventRepo:   eventRepo,
		retrier:     retrier,
		metrics:     m,
	}
}

// ProcessEvent runs one event through its processor and returns the
// committed record. On any failure nothing is committed.
func (e *Engine) ProcessEvent(ctx context.Context, input EventInput) (*domain.LedgerEvent, error) {
	start := time.Now()

	var event *domain.LedgerEvent

	err := e.withRetry(ctx, func() error {
		var err error

		switch in := input.(type) {
		case PurchaseInput:
			event, err = e.trades.Purchase(ctx, in)
		case SaleInput:
			event, err = e.trades.Sale(ctx, in)
		case ExchangeInput:
			event, err = e.trades.Exchange(ctx, in)
		case ExpenseInput:
			event, err = e.cash.Expense(ctx, in)
		case CapitalMovementInput:
			event, err = e.cash.CapitalMovement(ctx, in)
		case CreateInvestmentInput:
			event, err = e.investments.CreateInvestment(ctx, in)
		case InvestmentSaleInput:
			event, err = e.investments.RegisterSale(ctx, in)
		case RestockInput:
			event, err = e.investments.Restock(ctx, in)
		case DebtPaymentInput:
			event, err = e.debts.RegisterPayment(ctx, in)
		case PaymentInput:
			event, err = e.payments.RegisterPayment(ctx, in)
		default:
			return domain.ErrUnsupported
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.EventsCommitted.WithLabelValues(string(event.Kind)).Inc()
		e.metrics.EventDuration.Observe(time.Since(start).Seconds())
	}

	return event, nil
}

// ReverseEvent undoes a committed event, identified by id, once.
func (e *Engine) ReverseEvent(ctx context.Context, eventID, actorID, reason string) (*domain.LedgerEvent, error) {
	var event *domain.LedgerEvent

	err := e.withRetry(ctx, func() error {
		var err error
		event, err = e.reversals.ReverseEvent(ctx, ReverseEventInput{
			EventID: eventID,
			ActorID: actorID,
			Reason:  reason,
		})

		return err
	})
	if err != nil {
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.EventsReversed.Inc()
	}

	return event, nil
}

// CreateDebt records a legacy receivable. No ledger event is committed
// because no balance moves at creation time.
func (e *Engine) CreateDebt(ctx context.Context, input CreateDebtInput) (*domain.Debt, error) {
	return e.debts.CreateDebt(ctx, input)
}

// GetEvent retrieves a committed event by ID.
func (e *Engine) GetEvent(ctx context.Context, id string) (*domain.LedgerEvent, error) {
	return e.eventRepo.GetByID(ctx, id)
}

// ListEvents lists committed events, optionally filtered by kind.
func (e *Engine) ListEvents(ctx context.Context, kind domain.EventKind, limit, offset int) ([]*domain.LedgerEvent, error) {
	return e.eventRepo.List(ctx, kind, clampLimit(limit), offset)
}

// GetAssetLedger returns the current WAC snapshot for one asset.
func (e *Engine) GetAssetLedger(ctx context.Context, assetID string) (*domain.AssetLedger, error) {
	return e.assetRepo.GetByID(ctx, assetID)
}

// ListAssetLedgers lists asset snapshots.
func (e *Engine) ListAssetLedgers(ctx context.Context, limit, offset int) ([]*domain.AssetLedger, error) {
	return e.assetRepo.List(ctx, clampLimit(limit), offset)
}

// GetCashAccount returns the current cash snapshot, zero-valued if the
// singleton has not been created yet.
func (e *Engine) GetCashAccount(ctx context.Context) (*domain.CashAccount, error) {
	return e.cashRepo.Get(ctx)
}

func (e *Engine) withRetry(ctx context.Context, op func() error) error {
	if e.retrier == nil {
		return op()
	}

	return e.retrier.Retry(ctx, op)
}
