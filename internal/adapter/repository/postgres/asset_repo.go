package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercaldo/ledger/internal/domain"
	"github.com/mercaldo/ledger/internal/usecase"
)

// AssetRepository implements usecase.AssetRepository.
type AssetRepository struct {
	pool *pgxpool.Pool
}

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository(pool *pgxpool.Pool) *AssetRepository {
	return &AssetRepository{pool: pool}
}

const assetColumns = `asset_id, quantity, total_cost, average_cost, created_at, updated_at`

// GetByID retrieves one asset ledger by asset ID.
func (r *AssetRepository) GetByID(ctx context.Context, assetID string) (*domain.AssetLedger, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+assetColumns+` FROM asset_ledgers WHERE asset_id = $1`,
		assetID,
	)

	ledger, err := scanAssetLedger(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}

		return nil, err
	}

	return ledger, nil
}

// GetForUpdate locks one asset row with FOR UPDATE, creating an empty
// ledger inside the same transaction on first touch.
func (r *AssetRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, assetID string) (*domain.AssetLedger, error) {
	q := txQuerier(tx)
	now := time.Now().UTC()

	_, err := q.Exec(ctx,
		`INSERT INTO asset_ledgers (`+assetColumns+`)
		 VALUES ($1, 0, 0, 0, $2, $2)
		 ON CONFLICT (asset_id) DO NOTHING`,
		assetID, timeToPgTimestamptz(now),
	)
	if err != nil {
		return nil, err
	}

	row := q.QueryRow(ctx,
		`SELECT `+assetColumns+` FROM asset_ledgers WHERE asset_id = $1 FOR UPDATE`,
		assetID,
	)

	return scanAssetLedger(row)
}

// Update persists the mutated ledger.
func (r *AssetRepository) Update(ctx context.Context, tx usecase.Transaction, ledger *domain.AssetLedger) error {
	q := txQuerier(tx)

	_, err := q.Exec(ctx,
		`UPDATE asset_ledgers
		 SET quantity = $2, total_cost = $3, average_cost = $4, updated_at = $5
		 WHERE asset_id = $1`,
		ledger.AssetID,
		decimalToNumeric(ledger.Quantity),
		decimalToNumeric(ledger.TotalCost),
		decimalToNumeric(ledger.AverageCost),
		timeToPgTimestamptz(ledger.UpdatedAt),
	)

	return err
}

// List lists asset ledgers with pagination, ordered by asset ID.
func (r *AssetRepository) List(ctx context.Context, limit, offset int) ([]*domain.AssetLedger, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+assetColumns+` FROM asset_ledgers ORDER BY asset_id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ledgers := make([]*domain.AssetLedger, 0, limit)
	for rows.Next() {
		ledger, err := scanAssetLedger(rows)
		if err != nil {
			return nil, err
		}
		ledgers = append(ledgers, ledger)
	}

	return ledgers, rows.Err()
}

// Reset deletes all asset ledgers.
func (r *AssetRepository) Reset(ctx context.Context, tx usecase.Transaction) error {
	_, err := txQuerier(tx).Exec(ctx, `DELETE FROM asset_ledgers`)

	return err
}

func scanAssetLedger(row pgx.Row) (*domain.AssetLedger, error) {
	var (
		ledger               domain.AssetLedger
		qty, cost, avg       pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
	)

	if err := row.Scan(&ledger.AssetID, &qty, &cost, &avg, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	ledger.Quantity = numericToDecimal(qty)
	ledger.TotalCost = numericToDecimal(cost)
	ledger.AverageCost = numericToDecimal(avg)
	ledger.CreatedAt = createdAt.Time
	ledger.UpdatedAt = updatedAt.Time

	return &ledger, nil
}
