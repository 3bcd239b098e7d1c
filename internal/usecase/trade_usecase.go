package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mercaldo/ledger/internal/domain"
)

// TradeUseCase processes the inventory-touching events: purchases, sales and
// asset-to-asset exchanges.
type TradeUseCase struct {
	scope       scopeOpener
	eventRepo   EventRepository
	invoiceRepo InvoiceRepository
	idGen       IDGenerator
	policies    domain.PolicySet
}

// NewTradeUseCase creates a new TradeUseCase.
func NewTradeUseCase(
	txManager TransactionManager,
	cashRepo CashRepository,
	assetRepo AssetRepository,
	eventRepo EventRepository,
	invoiceRepo InvoiceRepository,
	idGen IDGenerator,
	policies domain.PolicySet,
) *TradeUseCase {
	return &TradeUseCase{
		scope:       scopeOpener{txManager: txManager, cashRepo: cashRepo, assetRepo: assetRepo},
		eventRepo:   eventRepo,
		invoiceRepo: invoiceRepo,
		idGen:       idGen,
		policies:    policies,
	}
}

// PurchaseInput represents a currency purchase from a provider.
type PurchaseInput struct {
	ActorID        string
	AssetID        string
	CounterpartyID string
	Quantity       decimal.Decimal
	Rate           decimal.Decimal
	PaidAmount     decimal.Decimal
	Description    string
}

// Purchase buys quantity of an asset at rate, paying paidAmount up front.
// The full cost enters the asset ledger immediately; the unpaid remainder
// lives on the invoice as a payable.
func (uc *TradeUseCase) Purchase(ctx context.Context, input PurchaseInput) (*domain.LedgerEvent, error) {
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if input.Rate.LessThanOrEqual(decimal.Zero) || input.PaidAmount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	totalCost := domain.RoundMoney(input.Quantity.Mul(input.Rate))

	scope, err := uc.scope.open(txCtx, true, input.AssetID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = scope.tx.Rollback(txCtx) }()

	if err := scope.cash.Debit(input.PaidAmount, uc.policies.PurchaseCash); err != nil {
		return nil, err
	}

	ledger, err := scope.asset(input.AssetID)
	if err != nil {
		return nil, err
	}
	ledger.ApplyPurchase(input.Quantity, totalCost)

	now := time.Now().UTC()
	invoiceID := uc.idGen.Generate()

	event := &domain.LedgerEvent{
		ID:          uc.idGen.Generate(),
		Kind:        domain.EventPurchase,
		ActorID:     input.ActorID,
		ReferenceID: invoiceID,
		AssetID:     input.AssetID,
		Quantity:    input.Quantity,
		Rate:        input.Rate,
		TotalAmount: totalCost,
		PaidAmount:  input.PaidAmount,
		CashDelta:   input.PaidAmount.Neg(),
		CostBasis:   totalCost,
		Description: input.Description,
		CreatedAt:   now,
	}

	invoice := domain.NewInvoice(
		invoiceID, domain.InvoicePurchase, event.ID,
		input.AssetID, input.CounterpartyID,
		totalCost, input.PaidAmount, now,
	)

	if err := uc.persistTrade(txCtx, scope, event, invoice, ledger); err != nil {
		return nil, err
	}

	return event, nil
}

// SaleInput represents a currency sale to a client. Mode selects whether the
// sale consumes inventory (STOCK) or bypasses it entirely (DIRECT).
type SaleInput struct {
	ActorID        string
	AssetID        string
	CounterpartyID string
	Quantity       decimal.Decimal
	Rate           decimal.Decimal
	PaidAmount     decimal.Decimal
	Mode           string
	Description    string
}

// Sale sells quantity of an asset at rate. STOCK sales consume inventory at
// the current average cost and book the spread as profit; DIRECT sales book
// the full revenue as profit with zero cost basis.
func (uc *TradeUseCase) Sale(ctx context.Context, input SaleInput) (*domain.LedgerEvent, error) {
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if input.Rate.LessThanOrEqual(decimal.Zero) || input.PaidAmount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	mode := input.Mode
	if mode == "" {
		mode = domain.SaleModeStock
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	totalRevenue := domain.RoundMoney(input.Quantity.Mul(input.Rate))

	var lockAssets []string
	if mode == domain.SaleModeStock {
		lockAssets = append(lockAssets, input.AssetID)
	}

	scope, err := uc.scope.open(txCtx, true, lockAssets...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = scope.tx.Rollback(txCtx) }()

	costBasis := decimal.Zero

	var ledger *domain.AssetLedger
	if mode == domain.SaleModeStock {
		ledger, err = scope.asset(input.AssetID)
		if err != nil {
			return nil, err
		}

		result, err := ledger.ApplySale(input.Quantity, uc.policies.SaleInventory)
		if err != nil {
			return nil, err
		}

		costBasis = result.CostOfSale
	}

	profit := totalRevenue.Sub(costBasis)
	scope.cash.Credit(input.PaidAmount)
	scope.cash.RecordProfit(profit)

	now := time.Now().UTC()
	invoiceID := uc.idGen.Generate()

	event := &domain.LedgerEvent{
		ID:          uc.idGen.Generate(),
		Kind:        domain.EventSale,
		SubType:     mode,
		ActorID:     input.ActorID,
		ReferenceID: invoiceID,
		AssetID:     input.AssetID,
		Quantity:    input.Quantity,
		Rate:        input.Rate,
		TotalAmount: totalRevenue,
		PaidAmount:  input.PaidAmount,
		CashDelta:   input.PaidAmount,
		ProfitDelta: profit,
		CostBasis:   costBasis,
		Description: input.Description,
		CreatedAt:   now,
	}

	invoice := domain.NewInvoice(
		invoiceID, domain.InvoiceSale, event.ID,
		input.AssetID, input.CounterpartyID,
		totalRevenue, input.PaidAmount, now,
	)

	if err := uc.persistTrade(txCtx, scope, event, invoice, ledger); err != nil {
		return nil, err
	}

	return event, nil
}

// ExchangeInput represents an asset-to-asset conversion.
type ExchangeInput struct {
	ActorID       string
	SourceAssetID string
	TargetAssetID string
	SourceAmount  decimal.Decimal
	TargetAmount  decimal.Decimal
	Description   string
}

// Exchange converts sourceAmount of one asset into targetAmount of another.
// The cost basis removed from the source leg is added verbatim to the target
// leg, so no profit is realized and cash never moves.
func (uc *TradeUseCase) Exchange(ctx context.Context, input ExchangeInput) (*domain.LedgerEvent, error) {
	if input.SourceAssetID == input.TargetAssetID {
		return nil, domain.ErrSameAsset
	}
	if input.SourceAmount.LessThanOrEqual(decimal.Zero) || input.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	scope, err := uc.scope.open(txCtx, false, input.SourceAssetID, input.TargetAssetID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = scope.tx.Rollback(txCtx) }()

	source, err := scope.asset(input.SourceAssetID)
	if err != nil {
		return nil, err
	}
	target, err := scope.asset(input.TargetAssetID)
	if err != nil {
		return nil, err
	}

	result, err := source.ApplySale(input.SourceAmount, uc.policies.ExchangeInventory)
	if err != nil {
		return nil, err
	}

	target.ApplyPurchase(input.TargetAmount, result.CostOfSale)

	event := &domain.LedgerEvent{
		ID:             uc.idGen.Generate(),
		Kind:           domain.EventExchange,
		ActorID:        input.ActorID,
		AssetID:        input.SourceAssetID,
		TargetAssetID:  input.TargetAssetID,
		Quantity:       input.SourceAmount,
		TargetQuantity: input.TargetAmount,
		Rate:           domain.RoundRate(domain.SafeDiv(input.TargetAmount, input.SourceAmount)),
		CostBasis:      result.CostOfSale,
		Description:    input.Description,
		CreatedAt:      time.Now().UTC(),
	}

	if err := uc.eventRepo.Create(txCtx, scope.tx, event); err != nil {
		return nil, err
	}
	if err := uc.scope.assetRepo.Update(txCtx, scope.tx, source); err != nil {
		return nil, err
	}
	if err := uc.scope.assetRepo.Update(txCtx, scope.tx, target); err != nil {
		return nil, err
	}
	if err := scope.tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return event, nil
}

// persistTrade writes the event, invoice and touched aggregates, then
// commits. All deltas land together or not at all.
func (uc *TradeUseCase) persistTrade(
	ctx context.Context,
	scope *ledgerScope,
	event *domain.LedgerEvent,
	invoice *domain.Invoice,
	ledger *domain.AssetLedger,
) error {
	if err := uc.eventRepo.Create(ctx, scope.tx, event); err != nil {
		return err
	}
	if err := uc.invoiceRepo.Create(ctx, scope.tx, invoice); err != nil {
		return err
	}
	if ledger != nil {
		if err := uc.scope.assetRepo.Update(ctx, scope.tx, ledger); err != nil {
			return err
		}
	}
	if err := uc.scope.cashRepo.Update(ctx, scope.tx, scope.cash); err != nil {
		return err
	}

	return scope.tx.Commit(ctx)
}
