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

// CashRepository implements usecase.CashRepository.
type CashRepository struct {
	pool *pgxpool.Pool
}

// NewCashRepository creates a new CashRepository.
func NewCashRepository(pool *pgxpool.Pool) *CashRepository {
	return &CashRepository{pool: pool}
}

const cashColumns = `id, operative_cash, total_capital, accumulated_profit, created_at, updated_at`

// Get retrieves the singleton cash account without locking. Callers that
// never wrote anything yet see a zero-valued account.
func (r *CashRepository) Get(ctx context.Context) (*domain.CashAccount, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+cashColumns+` FROM cash_account WHERE id = $1`,
		domain.CashAccountID,
	)

	account, err := scanCashAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewCashAccount(time.Now().UTC()), nil
		}

		return nil, err
	}

	return account, nil
}

// GetForUpdate locks the singleton row with FOR UPDATE, creating it inside
// the same transaction on first use. Every mutating operation serializes on
// this lock.
func (r *CashRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction) (*domain.CashAccount, error) {
	q := txQuerier(tx)
	now := time.Now().UTC()

	_, err := q.Exec(ctx,
		`INSERT INTO cash_account (`+cashColumns+`)
		 VALUES ($1, 0, 0, 0, $2, $2)
		 ON CONFLICT (id) DO NOTHING`,
		domain.CashAccountID, timeToPgTimestamptz(now),
	)
	if err != nil {
		return nil, err
	}

	row := q.QueryRow(ctx,
		`SELECT `+cashColumns+` FROM cash_account WHERE id = $1 FOR UPDATE`,
		domain.CashAccountID,
	)

	return scanCashAccount(row)
}

// Update persists the mutated balances.
func (r *CashRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.CashAccount) error {
	q := txQuerier(tx)

	_, err := q.Exec(ctx,
		`UPDATE cash_account
		 SET operative_cash = $2, total_capital = $3, accumulated_profit = $4, updated_at = $5
		 WHERE id = $1`,
		account.ID,
		decimalToNumeric(account.OperativeCash),
		decimalToNumeric(account.TotalCapital),
		decimalToNumeric(account.AccumulatedProfit),
		timeToPgTimestamptz(account.UpdatedAt),
	)

	return err
}

// Reset zeroes the singleton account.
func (r *CashRepository) Reset(ctx context.Context, tx usecase.Transaction) error {
	q := txQuerier(tx)

	_, err := q.Exec(ctx,
		`UPDATE cash_account
		 SET operative_cash = 0, total_capital = 0, accumulated_profit = 0, updated_at = $2
		 WHERE id = $1`,
		domain.CashAccountID, timeToPgTimestamptz(time.Now().UTC()),
	)

	return err
}

func scanCashAccount(row pgx.Row) (*domain.CashAccount, error) {
	var (
		account              domain.CashAccount
		cash, capital, prof  pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
	)

	if err := row.Scan(&account.ID, &cash, &capital, &prof, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	account.OperativeCash = numericToDecimal(cash)
	account.TotalCapital = numericToDecimal(capital)
	account.AccumulatedProfit = numericToDecimal(prof)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	return &account, nil
}
