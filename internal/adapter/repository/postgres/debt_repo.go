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

// DebtRepository implements usecase.DebtRepository.
type DebtRepository struct {
	pool *pgxpool.Pool
}

// NewDebtRepository creates a new DebtRepository.
func NewDebtRepository(pool *pgxpool.Pool) *DebtRepository {
	return &DebtRepository{pool: pool}
}

const debtColumns = `id, debtor_name, description, total_amount, paid_amount,
	pending_balance, active, created_at, updated_at`

// Create records a receivable. Registration does not touch cash, so this
// runs outside any ledger transaction.
func (r *DebtRepository) Create(ctx context.Context, debt *domain.Debt) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO debts (`+debtColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		debt.ID, debt.DebtorName, debt.Description,
		decimalToNumeric(debt.TotalAmount), decimalToNumeric(debt.PaidAmount),
		decimalToNumeric(debt.PendingBalance), debt.Active,
		timeToPgTimestamptz(debt.CreatedAt), timeToPgTimestamptz(debt.UpdatedAt),
	)

	return err
}

// GetByID retrieves a debt by ID.
func (r *DebtRepository) GetByID(ctx context.Context, id string) (*domain.Debt, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE id = $1`,
		id,
	)

	return scanDebtRow(row)
}

// GetByIDForUpdate retrieves a debt by ID with a FOR UPDATE lock.
func (r *DebtRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Debt, error) {
	row := txQuerier(tx).QueryRow(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE id = $1 FOR UPDATE`,
		id,
	)

	return scanDebtRow(row)
}

// Update persists a mutated debt.
func (r *DebtRepository) Update(ctx context.Context, tx usecase.Transaction, debt *domain.Debt) error {
	q := txQuerier(tx)

	_, err := q.Exec(ctx,
		`UPDATE debts
		 SET paid_amount = $2, pending_balance = $3, active = $4, updated_at = $5
		 WHERE id = $1`,
		debt.ID,
		decimalToNumeric(debt.PaidAmount),
		decimalToNumeric(debt.PendingBalance),
		debt.Active,
		timeToPgTimestamptz(debt.UpdatedAt),
	)

	return err
}

// List lists debts newest first.
func (r *DebtRepository) List(ctx context.Context, limit, offset int) ([]*domain.Debt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+debtColumns+` FROM debts
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	debts := make([]*domain.Debt, 0, limit)
	for rows.Next() {
		debt, err := scanDebtRow(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, debt)
	}

	return debts, rows.Err()
}

// DeleteAll removes every debt.
func (r *DebtRepository) DeleteAll(ctx context.Context, tx usecase.Transaction) error {
	_, err := txQuerier(tx).Exec(ctx, `DELETE FROM debts`)

	return err
}

func scanDebtRow(row pgx.Row) (*domain.Debt, error) {
	var (
		debt                 domain.Debt
		total, paid, pending pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&debt.ID, &debt.DebtorName, &debt.Description,
		&total, &paid, &pending, &debt.Active, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDebtNotFound
		}

		return nil, err
	}

	debt.TotalAmount = numericToDecimal(total)
	debt.PaidAmount = numericToDecimal(paid)
	debt.PendingBalance = numericToDecimal(pending)
	debt.CreatedAt = createdAt.Time
	debt.UpdatedAt = updatedAt.Time

	return &debt, nil
}
