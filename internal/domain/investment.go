package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentStatus values.
type InvestmentStatus string

const (
	InvestmentActive  InvestmentStatus = "active"
	InvestmentSoldOut InvestmentStatus = "sold_out"
)

// InvestmentProduct is stock bought for resale outside the currency books
// (phones, billiard cues, whatever the owner trades on the side). Unit cost
// follows the same weighted-average rule as the asset ledgers.
type InvestmentProduct struct {
	ID        string
	Name      string
	Quantity  decimal.Decimal
	TotalCost decimal.Decimal
	UnitCost  decimal.Decimal
	Status    InvestmentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewInvestmentProduct creates a product position from the initial buy.
func NewInvestmentProduct(id, name string, quantity, totalCost decimal.Decimal, now time.Time) *InvestmentProduct {
	p := &InvestmentProduct{
		ID:        id,
		Name:      name,
		Quantity:  quantity,
		TotalCost: RoundMoney(totalCost),
		Status:    InvestmentActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.recompute()

	return p
}

// ConsumeSale removes quantity at the current unit cost and returns the cost
// of sale to persist as the event's cost basis. Stock cannot go short.
func (p *InvestmentProduct) ConsumeSale(quantity decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if p.Status == InvestmentSoldOut {
		return decimal.Zero, ErrProductSoldOut
	}
	if p.Quantity.LessThan(quantity) {
		return decimal.Zero, ErrInsufficientInventory
	}

	costOfSale := RoundMoney(quantity.Mul(p.UnitCost))
	p.Quantity = p.Quantity.Sub(quantity)
	p.TotalCost = p.TotalCost.Sub(costOfSale)
	p.UpdatedAt = now

	if p.Quantity.IsZero() {
		p.TotalCost = decimal.Zero
		p.UnitCost = decimal.Zero
		p.Status = InvestmentSoldOut

		return costOfSale, nil
	}

	p.recompute()

	return costOfSale, nil
}

// Restock adds quantity at the given acquisition cost, blending it into a new
// weighted unit cost and reactivating a sold-out product.
func (p *InvestmentProduct) Restock(quantity, cost decimal.Decimal, now time.Time) {
	p.Quantity = p.Quantity.Add(quantity)
	p.TotalCost = p.TotalCost.Add(RoundMoney(cost))
	p.Status = InvestmentActive
	p.UpdatedAt = now
	p.recompute()
}

// RemoveStock takes back quantity and the persisted cost basis that a
// reversed buy (create or restock) added. Stock already resold cannot be
// taken back.
func (p *InvestmentProduct) RemoveStock(quantity, costBasis decimal.Decimal, now time.Time) error {
	if p.Quantity.LessThan(quantity) {
		return ErrInsufficientInventory
	}

	p.Quantity = p.Quantity.Sub(quantity)
	p.TotalCost = p.TotalCost.Sub(costBasis)
	p.UpdatedAt = now

	if p.Quantity.IsZero() {
		p.TotalCost = decimal.Zero
		p.UnitCost = decimal.Zero
		p.Status = InvestmentSoldOut

		return nil
	}

	p.recompute()

	return nil
}

// RestoreSale puts back stock a reversed sale consumed.
func (p *InvestmentProduct) RestoreSale(quantity, costBasis decimal.Decimal, now time.Time) {
	p.Quantity = p.Quantity.Add(quantity)
	p.TotalCost = p.TotalCost.Add(costBasis)
	p.Status = InvestmentActive
	p.UpdatedAt = now
	p.recompute()
}

func (p *InvestmentProduct) recompute() {
	p.UnitCost = RoundMoney(SafeDiv(p.TotalCost, p.Quantity))
}
