package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mercaldo/ledger/internal/domain"
)

// ReconciliationUseCase verifies the engine's valuation invariants without
// taking any locks: a read-only health check over the asset ledgers.
type ReconciliationUseCase struct {
	assetRepo AssetRepository
	cashRepo  CashRepository
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(assetRepo AssetRepository, cashRepo CashRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{assetRepo: assetRepo, cashRepo: cashRepo}
}

// AssetCheck reports one asset's invariant status.
type AssetCheck struct {
	AssetID         string
	Quantity        decimal.Decimal
	TotalCost       decimal.Decimal
	AverageCost     decimal.Decimal
	ExpectedAverage decimal.Decimal
	Consistent      bool
}

// ConsistencyReport is the full reconciliation result.
type ConsistencyReport struct {
	CheckedAt     time.Time
	TotalAssets   int
	Inconsistent  []AssetCheck
	CashAvailable decimal.Decimal
	Consistent    bool
}

// CheckConsistency verifies averageCost == round(totalCost/quantity) for
// every asset holding a position, and that no quantity is negative.
func (uc *ReconciliationUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	assets, err := uc.assetRepo.List(ctx, MaxListLimit, 0)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		CheckedAt:   time.Now().UTC(),
		TotalAssets: len(assets),
		Consistent:  true,
	}

	for _, asset := range assets {
		expected := decimal.Zero
		if asset.Quantity.IsPositive() {
			expected = domain.RoundMoney(domain.SafeDiv(asset.TotalCost, asset.Quantity))
		}

		check := AssetCheck{
			AssetID:         asset.AssetID,
			Quantity:        asset.Quantity,
			TotalCost:       asset.TotalCost,
			AverageCost:     asset.AverageCost,
			ExpectedAverage: expected,
			Consistent:      asset.CheckInvariant() == nil,
		}

		if !check.Consistent {
			report.Consistent = false
			report.Inconsistent = append(report.Inconsistent, check)
		}
	}

	cash, err := uc.cashRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	report.CashAvailable = cash.OperativeCash

	return report, nil
}
