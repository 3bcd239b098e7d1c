package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mercaldo/ledger/internal/domain"
)

// InvestmentUseCase processes investment-product trades: side-business stock
// bought with operative cash and resold at a margin.
type InvestmentUseCase struct {
	scope          scopeOpener
	eventRepo      EventRepository
	investmentRepo InvestmentRepository
	idGen          IDGenerator
}

// NewInvestmentUseCase creates a new InvestmentUseCase.
func NewInvestmentUseCase(
	txManager TransactionManager,
	cashRepo CashRepository,
	assetRepo AssetRepository,
	eventRepo EventRepository,
	investmentRepo InvestmentRepository,
	idGen IDGenerator,
) *InvestmentUseCase {
	return &InvestmentUseCase{
		scope:          scopeOpener{txManager: txManager, cashRepo: cashRepo, assetRepo: assetRepo},
		eventRepo:      eventRepo,
		investmentRepo: investmentRepo,
		idGen:          idGen,
	}
}

// CreateInvestmentInput represents the initial buy of a product position.
type CreateInvestmentInput struct {
	ActorID   string
	Name      string
	Quantity  decimal.Decimal
	TotalCost decimal.Decimal
}

// CreateInvestment debits cash by the total cost and opens a product ledger
// entry with unitCost = totalCost/quantity. Creating a position always
// validates funds: investing money that is not in the box is blocked.
func (uc *InvestmentUseCase) CreateInvestment(ctx context.Context, input CreateInvestmentInput) (*domain.LedgerEvent, error) {
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if input.TotalCost.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	scope, err := uc.scope.open(txCtx, true)
	if err != nil {
		return nil, err
	}
	defer func() { _ = scope.tx.Rollback(txCtx) }()

	if err := scope.cash.Debit(input.TotalCost, domain.PolicyBlock); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := domain.NewInvestmentProduct(uc.idGen.Generate(), input.Name, input.Quantity, input.TotalCost, now)

	event := &domain.LedgerEvent{
		ID:          uc.idGen.Generate(),
		Kind:        domain.EventInvestmentTrade,
		SubType:     domain.InvestmentCreate,
		ActorID:     input.ActorID,
		ReferenceID: product.ID,
		Quantity:    input.Quantity,
		TotalAmount: input.TotalCost,
		CashDelta:   input.TotalCost.Neg(),
		CostBasis:   input.TotalCost,
		Description: input.Name,
		CreatedAt:   now,
	}

	if err := uc.investmentRepo.Create(txCtx, scope.tx, product); err != nil {
		return nil, err
	}

	if err := uc.commitInvestment(txCtx, scope, event, nil); err != nil {
		return nil, err
	}

	return event, nil
}

// InvestmentSaleInput represents selling units of a product.
type InvestmentSaleInput struct {
	ActorID   string
	ProductID string
	Quantity  decimal.Decimal
	SalePrice decimal.Decimal
}

// RegisterSale sells quantity units for salePrice total. Cost of sale comes
// off the product at its current unit cost, the spread books as profit, and
// the product flips to sold_out when stock hits zero.
func (uc *InvestmentUseCase) RegisterSale(ctx context.Context, input InvestmentSaleInput) (*domain.LedgerEvent, error) {
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if input.SalePrice.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	scope, err := uc.scope.open(txCtx, true)
	if err != nil {
		return nil, err
	}
	defer func() { _ = scope.tx.Rollback(txCtx) }()

	product, err := uc.investmentRepo.GetByIDForUpdate(txCtx, scope.tx, input.ProductID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	costOfSale, err := product.ConsumeSale(input.Quantity, now)
	if err != nil {
		return nil, err
	}

	profit := input.SalePrice.Sub(costOfSale)
	scope.cash.Credit(input.SalePrice)
	scope.cash.RecordProfit(profit)

	event := &domain.LedgerEvent{
		ID:          uc.idGen.Generate(),
		Kind:        domain.EventInvestmentTrade,
		SubType:     domain.InvestmentSale,
		ActorID:     input.ActorID,
		ReferenceID: product.ID,
		Quantity:    input.Quantity,
		TotalAmount: input.SalePrice,
		PaidAmount:  input.SalePrice,
		CashDelta:   input.SalePrice,
		ProfitDelta: profit,
		CostBasis:   costOfSale,
		Description: product.Name,
		CreatedAt:   now,
	}

	if err := uc.commitInvestment(txCtx, scope, event, product); err != nil {
		return nil, err
	}

	return event, nil
}

// RestockInput represents buying more units of an existing product.
type RestockInput struct {
	ActorID   string
	ProductID string
	Quantity  decimal.Decimal
	TotalCost decimal.Decimal
}

// Restock adds stock at the given cost, blending the unit cost across old
// and new inventory with the same weighted-average rule as the asset
// ledgers, and debits cash by the new cost.
func (uc *InvestmentUseCase) Restock(ctx context.Context, input RestockInput) (*domain.LedgerEvent, error) {
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if input.TotalCost.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	scope, err := uc.scope.open(txCtx, true)
	if err != nil {
		return nil, err
	}
	defer func() { _ = scope.tx.Rollback(txCtx) }()

	if err := scope.cash.Debit(input.TotalCost, domain.PolicyBlock); err != nil {
		return nil, err
	}

	product, err := uc.investmentRepo.GetByIDForUpdate(txCtx, scope.tx, input.ProductID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product.Restock(input.Quantity, input.TotalCost, now)

	event := &domain.LedgerEvent{
		ID:          uc.idGen.Generate(),
		Kind:        domain.EventInvestmentTrade,
		SubType:     domain.InvestmentRestock,
		ActorID:     input.ActorID,
		ReferenceID: product.ID,
		Quantity:    input.Quantity,
		TotalAmount: input.TotalCost,
		CashDelta:   input.TotalCost.Neg(),
		CostBasis:   input.TotalCost,
		Description: product.Name,
		CreatedAt:   now,
	}

	if err := uc.commitInvestment(txCtx, scope, event, product); err != nil {
		return nil, err
	}

	return event, nil
}

// GetProduct retrieves an investment product by ID.
func (uc *InvestmentUseCase) GetProduct(ctx context.Context, id string) (*domain.InvestmentProduct, error) {
	return uc.investmentRepo.GetByID(ctx, id)
}

// ListProducts lists investment products.
func (uc *InvestmentUseCase) ListProducts(ctx context.Context, limit, offset int) ([]*domain.InvestmentProduct, error) {
	return uc.investmentRepo.List(ctx, clampLimit(limit), offset)
}

func (uc *InvestmentUseCase) commitInvestment(ctx context.Context, scope *ledgerScope, event *domain.LedgerEvent, product *domain.InvestmentProduct) error {
	if err := uc.eventRepo.Create(ctx, scope.tx, event); err != nil {
		return err
	}
	if product != nil {
		if err := uc.investmentRepo.Update(ctx, scope.tx, product); err != nil {
			return err
		}
	}
	if err := uc.scope.cashRepo.Update(ctx, scope.tx, scope.cash); err != nil {
		return err
	}

	return scope.tx.Commit(ctx)
}
