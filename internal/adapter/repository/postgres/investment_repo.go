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

// InvestmentRepository implements usecase.InvestmentRepository.
type InvestmentRepository struct {
	pool *pgxpool.Pool
}

// NewInvestmentRepository creates a new InvestmentRepository.
func NewInvestmentRepository(pool *pgxpool.Pool) *InvestmentRepository {
	return &InvestmentRepository{pool: pool}
}

const investmentColumns = `id, name, quantity, total_cost, unit_cost, status, created_at, updated_at`

// Create inserts a product position inside the trade's transaction.
func (r *InvestmentRepository) Create(ctx context.Context, tx usecase.Transaction, product *domain.InvestmentProduct) error {
	q := txQuerier(tx)

	_, err := q.Exec(ctx,
		`INSERT INTO investment_products (`+investmentColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		product.ID, product.Name,
		decimalToNumeric(product.Quantity), decimalToNumeric(product.TotalCost),
		decimalToNumeric(product.UnitCost), string(product.Status),
		timeToPgTimestamptz(product.CreatedAt), timeToPgTimestamptz(product.UpdatedAt),
	)

	return err
}

// GetByID retrieves a product by ID.
func (r *InvestmentRepository) GetByID(ctx context.Context, id string) (*domain.InvestmentProduct, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+investmentColumns+` FROM investment_products WHERE id = $1`,
		id,
	)

	return scanInvestmentRow(row)
}

// GetByIDForUpdate retrieves a product by ID with a FOR UPDATE lock.
func (r *InvestmentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.InvestmentProduct, error) {
	row := txQuerier(tx).QueryRow(ctx,
		`SELECT `+investmentColumns+` FROM investment_products WHERE id = $1 FOR UPDATE`,
		id,
	)

	return scanInvestmentRow(row)
}

// Update persists a mutated product.
func (r *InvestmentRepository) Update(ctx context.Context, tx usecase.Transaction, product *domain.InvestmentProduct) error {
	q := txQuerier(tx)

	_, err := q.Exec(ctx,
		`UPDATE investment_products
		 SET quantity = $2, total_cost = $3, unit_cost = $4, status = $5, updated_at = $6
		 WHERE id = $1`,
		product.ID,
		decimalToNumeric(product.Quantity),
		decimalToNumeric(product.TotalCost),
		decimalToNumeric(product.UnitCost),
		string(product.Status),
		timeToPgTimestamptz(product.UpdatedAt),
	)

	return err
}

// List lists products newest first.
func (r *InvestmentRepository) List(ctx context.Context, limit, offset int) ([]*domain.InvestmentProduct, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+investmentColumns+` FROM investment_products
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]*domain.InvestmentProduct, 0, limit)
	for rows.Next() {
		product, err := scanInvestmentRow(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

// DeleteAll removes every product.
func (r *InvestmentRepository) DeleteAll(ctx context.Context, tx usecase.Transaction) error {
	_, err := txQuerier(tx).Exec(ctx, `DELETE FROM investment_products`)

	return err
}

func scanInvestmentRow(row pgx.Row) (*domain.InvestmentProduct, error) {
	var (
		product              domain.InvestmentProduct
		status               string
		qty, cost, unit      pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&product.ID, &product.Name, &qty, &cost, &unit, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}

		return nil, err
	}

	product.Status = domain.InvestmentStatus(status)
	product.Quantity = numericToDecimal(qty)
	product.TotalCost = numericToDecimal(cost)
	product.UnitCost = numericToDecimal(unit)
	product.CreatedAt = createdAt.Time
	product.UpdatedAt = updatedAt.Time

	return &product, nil
}
