package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetLedger is the weighted-average-cost inventory record for one tradable
// asset (a currency or an investment product tracked as stock). It is created
// lazily on the first acquisition and never deleted.
type AssetLedger struct {
	AssetID     string
	Quantity    decimal.Decimal
	TotalCost   decimal.Decimal
	AverageCost decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewAssetLedger returns an empty ledger for assetID.
func NewAssetLedger(assetID string, now time.Time) *AssetLedger {
	return &AssetLedger{
		AssetID:     assetID,
		Quantity:    decimal.Zero,
		TotalCost:   decimal.Zero,
		AverageCost: decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SaleResult reports what a sale consumed from the ledger. AverageCostUsed is
// the average in force before the mutation; CostOfSale is what the caller
// must persist verbatim as the event's cost basis.
type SaleResult struct {
	CostOfSale      decimal.Decimal
	AverageCostUsed decimal.Decimal
}

// ApplyPurchase adds quantity at the given total acquisition cost and
// recomputes the weighted average.
func (l *AssetLedger) ApplyPurchase(quantity, cost decimal.Decimal) {
	l.Quantity = l.Quantity.Add(quantity)
	l.TotalCost = l.TotalCost.Add(RoundMoney(cost))
	l.normalize()
}

// ApplySale consumes quantity at the current average cost. The average itself
// is unchanged by a sale up to money-scale rounding. Under a blocking policy
// the sale fails with ErrInsufficientInventory instead of going short.
func (l *AssetLedger) ApplySale(quantity decimal.Decimal, policy Policy) (SaleResult, error) {
	if policy.Blocks() && l.Quantity.LessThan(quantity) {
		return SaleResult{}, ErrInsufficientInventory
	}

	averageUsed := l.AverageCost
	costOfSale := RoundMoney(quantity.Mul(averageUsed))

	l.Quantity = l.Quantity.Sub(quantity)
	l.TotalCost = l.TotalCost.Sub(costOfSale)
	l.normalize()

	return SaleResult{CostOfSale: costOfSale, AverageCostUsed: averageUsed}, nil
}

// ApplyReversalIn restores quantity and the persisted cost basis that a
// reversed sale or exchange-out removed.
func (l *AssetLedger) ApplyReversalIn(quantity, costBasis decimal.Decimal) {
	l.Quantity = l.Quantity.Add(quantity)
	l.TotalCost = l.TotalCost.Add(costBasis)
	l.normalize()
}

// ApplyReversalOut removes quantity and the persisted cost basis that a
// reversed purchase or exchange-in added.
func (l *AssetLedger) ApplyReversalOut(quantity, costBasis decimal.Decimal, policy Policy) error {
	if policy.Blocks() && l.Quantity.LessThan(quantity) {
		return ErrInsufficientInventory
	}

	l.Quantity = l.Quantity.Sub(quantity)
	l.TotalCost = l.TotalCost.Sub(costBasis)
	l.normalize()

	return nil
}

// CheckInvariant verifies the stored average matches the recomputed one.
func (l *AssetLedger) CheckInvariant() error {
	if l.Quantity.IsNegative() {
		return ErrInvariantViolation
	}

	expected := decimal.Zero
	if l.Quantity.IsPositive() {
		expected = RoundMoney(SafeDiv(l.TotalCost, l.Quantity))
	}

	if !l.AverageCost.Equal(expected) {
		return ErrInvariantViolation
	}

	return nil
}

// normalize applies the zero-floor rule and recomputes the average. A flat or
// short position cannot carry a cost basis: once quantity drops to zero or
// below, the whole record resets to exactly zero.
func (l *AssetLedger) normalize() {
	if l.Quantity.LessThanOrEqual(decimal.Zero) {
		l.Quantity = decimal.Zero
		l.TotalCost = decimal.Zero
		l.AverageCost = decimal.Zero

		return
	}

	l.AverageCost = RoundMoney(l.TotalCost.Div(l.Quantity))
}
