package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercaldo/ledger/internal/domain"
	"github.com/mercaldo/ledger/internal/usecase"
)

// EventRepository implements usecase.EventRepository.
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventColumns = `id, kind, sub_type, actor_id, reference_id,
	asset_id, target_asset_id, quantity, target_quantity, rate,
	total_amount, paid_amount, cash_delta, capital_delta, profit_delta,
	cost_basis, description, created_at,
	reversed, reversed_at, reversed_by, reversal_reason`

// Create inserts a committed event inside the operation's transaction.
func (r *EventRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.LedgerEvent) error {
	q := txQuerier(tx)

	_, err := q.Exec(ctx,
		`INSERT INTO ledger_events (`+eventColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		         $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
		event.ID, string(event.Kind), event.SubType, event.ActorID, event.ReferenceID,
		event.AssetID, event.TargetAssetID,
		decimalToNumeric(event.Quantity), decimalToNumeric(event.TargetQuantity), decimalToNumeric(event.Rate),
		decimalToNumeric(event.TotalAmount), decimalToNumeric(event.PaidAmount),
		decimalToNumeric(event.CashDelta), decimalToNumeric(event.CapitalDelta), decimalToNumeric(event.ProfitDelta),
		decimalToNumeric(event.CostBasis), event.Description, timeToPgTimestamptz(event.CreatedAt),
		event.Reversed, ptrToPgTimestamptz(event.ReversedAt), event.ReversedBy, event.ReversalReason,
	)

	return err
}

// GetByID retrieves an event by ID.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEvent, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM ledger_events WHERE id = $1`,
		id,
	)

	return scanEventRow(row)
}

// GetByIDForUpdate retrieves an event by ID with a FOR UPDATE lock, so two
// concurrent reversals of the same event serialize.
func (r *EventRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.LedgerEvent, error) {
	row := txQuerier(tx).QueryRow(ctx,
		`SELECT `+eventColumns+` FROM ledger_events WHERE id = $1 FOR UPDATE`,
		id,
	)

	return scanEventRow(row)
}

// MarkReversed persists the reversal fields of an already locked event.
func (r *EventRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, event *domain.LedgerEvent) error {
	q := txQuerier(tx)

	_, err := q.Exec(ctx,
		`UPDATE ledger_events
		 SET reversed = TRUE, reversed_at = $2, reversed_by = $3, reversal_reason = $4
		 WHERE id = $1`,
		event.ID, ptrToPgTimestamptz(event.ReversedAt), event.ReversedBy, event.ReversalReason,
	)

	return err
}

// List lists events newest first, optionally filtered by kind.
func (r *EventRepository) List(ctx context.Context, kind domain.EventKind, limit, offset int) ([]*domain.LedgerEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+eventColumns+` FROM ledger_events
		 WHERE ($1 = '' OR kind = $1)
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		string(kind), limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.LedgerEvent, 0, limit)
	for rows.Next() {
		event, err := scanEventRow(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// DeleteAll removes every event.
func (r *EventRepository) DeleteAll(ctx context.Context, tx usecase.Transaction) error {
	_, err := txQuerier(tx).Exec(ctx, `DELETE FROM ledger_events`)

	return err
}

func scanEventRow(row pgx.Row) (*domain.LedgerEvent, error) {
	var (
		event                              domain.LedgerEvent
		kind                               string
		qty, targetQty, rate               pgtype.Numeric
		total, paid                        pgtype.Numeric
		cashDelta, capitalDelta, profDelta pgtype.Numeric
		costBasis                          pgtype.Numeric
		createdAt, reversedAt              pgtype.Timestamptz
	)

	err := row.Scan(
		&event.ID, &kind, &event.SubType, &event.ActorID, &event.ReferenceID,
		&event.AssetID, &event.TargetAssetID, &qty, &targetQty, &rate,
		&total, &paid, &cashDelta, &capitalDelta, &profDelta,
		&costBasis, &event.Description, &createdAt,
		&event.Reversed, &reversedAt, &event.ReversedBy, &event.ReversalReason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}

		return nil, err
	}

	event.Kind = domain.EventKind(kind)
	event.Quantity = numericToDecimal(qty)
	event.TargetQuantity = numericToDecimal(targetQty)
	event.Rate = numericToDecimal(rate)
	event.TotalAmount = numericToDecimal(total)
	event.PaidAmount = numericToDecimal(paid)
	event.CashDelta = numericToDecimal(cashDelta)
	event.CapitalDelta = numericToDecimal(capitalDelta)
	event.ProfitDelta = numericToDecimal(profDelta)
	event.CostBasis = numericToDecimal(costBasis)
	event.CreatedAt = createdAt.Time
	event.ReversedAt = pgTimestamptzToPtr(reversedAt)

	return &event, nil
}
