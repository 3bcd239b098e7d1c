package usecase

import (
	"context"
	"sort"

	"github.com/mercaldo/ledger/internal/domain"
)

// ledgerScope is the unit-of-work every event processor runs inside: one
// database transaction holding row locks on the touched aggregates, plus the
// authoritative state read under those locks. Callers never compute against
// a snapshot taken outside the scope.
type ledgerScope struct {
	tx     Transaction
	cash   *domain.CashAccount
	assets map[string]*domain.AssetLedger
}

// asset returns the locked ledger for assetID. Asking for an asset that was
// not named when the scope was opened is a programming error.
func (s *ledgerScope) asset(assetID string) (*domain.AssetLedger, error) {
	ledger, ok := s.assets[assetID]
	if !ok {
		return nil, domain.ErrInvariantViolation
	}

	return ledger, nil
}

// scopeOpener acquires ledger scopes with a fixed global lock order: asset
// rows first, in lexicographic assetId order, then the cash row. No code
// path locks cash before an asset, so concurrent events cannot deadlock.
type scopeOpener struct {
	txManager TransactionManager
	cashRepo  CashRepository
	assetRepo AssetRepository
}

// open begins a transaction and locks the named assets (deduplicated,
// sorted) and, when lockCash is set, the singleton cash account. The caller
// owns the returned transaction and must roll it back on any failure.
func (o scopeOpener) open(ctx context.Context, lockCash bool, assetIDs ...string) (*ledgerScope, error) {
	tx, err := o.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}

	scope := &ledgerScope{
		tx:     tx,
		assets: make(map[string]*domain.AssetLedger, len(assetIDs)),
	}

	for _, assetID := range sortedUnique(assetIDs) {
		ledger, err := o.assetRepo.GetForUpdate(ctx, tx, assetID)
		if err != nil {
			_ = tx.Rollback(ctx)
			return nil, err
		}

		scope.assets[assetID] = ledger
	}

	if lockCash {
		cash, err := o.cashRepo.GetForUpdate(ctx, tx)
		if err != nil {
			_ = tx.Rollback(ctx)
			return nil, err
		}

		scope.cash = cash
	}

	return scope, nil
}

func sortedUnique(ids []string) []string {
	seen := make(map[string]bool, len(ids))

	var out []string
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}

		seen[id] = true
		out = append(out, id)
	}

	sort.Strings(out)

	return out
}
