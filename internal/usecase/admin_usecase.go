package usecase

import (
	"context"
)

// AdminUseCase holds the destructive maintenance facilities. Reset wipes all
// history and zeroes the balances; it exists for dev environments and the
// owner's "start the books over" request, and is only reachable through the
// CLI surface.
type AdminUseCase struct {
	txManager      TransactionManager
	cashRepo       CashRepository
	assetRepo      AssetRepository
	eventRepo      EventRepository
	invoiceRepo    InvoiceRepository
	debtRepo       DebtRepository
	investmentRepo InvestmentRepository
}

// NewAdminUseCase creates a new AdminUseCase.
func NewAdminUseCase(
	txManager TransactionManager,
	cashRepo CashRepository,
	assetRepo AssetRepository,
	eventRepo EventRepository,
	invoiceRepo InvoiceRepository,
	debtRepo DebtRepository,
	investmentRepo InvestmentRepository,
) *AdminUseCase {
	return &AdminUseCase{
		txManager:      txManager,
		cashRepo:       cashRepo,
		assetRepo:      assetRepo,
		eventRepo:      eventRepo,
		invoiceRepo:    invoiceRepo,
		debtRepo:       debtRepo,
		investmentRepo: investmentRepo,
	}
}

// Reset deletes all event history, side aggregates and asset ledgers and
// zeroes the cash account, atomically. The cash row survives with zero
// balances; asset ledgers are recreated on first touch.
func (uc *AdminUseCase) Reset(ctx context.Context) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Invoices reference events, so they go first.
	if err := uc.invoiceRepo.DeleteAll(ctx, tx); err != nil {
		return err
	}
	if err := uc.eventRepo.DeleteAll(ctx, tx); err != nil {
		return err
	}
	if err := uc.debtRepo.DeleteAll(ctx, tx); err != nil {
		return err
	}
	if err := uc.investmentRepo.DeleteAll(ctx, tx); err != nil {
		return err
	}
	if err := uc.assetRepo.Reset(ctx, tx); err != nil {
		return err
	}
	if err := uc.cashRepo.Reset(ctx, tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
