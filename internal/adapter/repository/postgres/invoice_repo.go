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

// InvoiceRepository implements usecase.InvoiceRepository.
type InvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository creates a new InvoiceRepository.
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

const invoiceColumns = `id, kind, event_id, asset_id, counterparty_id,
	total_amount, paid_amount, pending_balance, status, created_at, updated_at`

// Create inserts an invoice inside the trade's transaction.
func (r *InvoiceRepository) Create(ctx context.Context, tx usecase.Transaction, invoice *domain.Invoice) error {
	q := txQuerier(tx)

	_, err := q.Exec(ctx,
		`INSERT INTO invoices (`+invoiceColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		invoice.ID, string(invoice.Kind), invoice.EventID, invoice.AssetID, invoice.CounterpartyID,
		decimalToNumeric(invoice.TotalAmount), decimalToNumeric(invoice.PaidAmount),
		decimalToNumeric(invoice.PendingBalance), string(invoice.Status),
		timeToPgTimestamptz(invoice.CreatedAt), timeToPgTimestamptz(invoice.UpdatedAt),
	)

	return err
}

// GetByID retrieves an invoice by ID.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`,
		id,
	)

	return scanInvoiceRow(row)
}

// GetByIDForUpdate retrieves an invoice by ID with a FOR UPDATE lock.
func (r *InvoiceRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Invoice, error) {
	row := txQuerier(tx).QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`,
		id,
	)

	return scanInvoiceRow(row)
}

// Update persists a mutated invoice.
func (r *InvoiceRepository) Update(ctx context.Context, tx usecase.Transaction, invoice *domain.Invoice) error {
	q := txQuerier(tx)

	_, err := q.Exec(ctx,
		`UPDATE invoices
		 SET paid_amount = $2, pending_balance = $3, status = $4, updated_at = $5
		 WHERE id = $1`,
		invoice.ID,
		decimalToNumeric(invoice.PaidAmount),
		decimalToNumeric(invoice.PendingBalance),
		string(invoice.Status),
		timeToPgTimestamptz(invoice.UpdatedAt),
	)

	return err
}

// List lists invoices newest first, optionally filtered by kind.
func (r *InvoiceRepository) List(ctx context.Context, kind domain.InvoiceKind, limit, offset int) ([]*domain.Invoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices
		 WHERE ($1 = '' OR kind = $1)
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		string(kind), limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := make([]*domain.Invoice, 0, limit)
	for rows.Next() {
		invoice, err := scanInvoiceRow(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}

	return invoices, rows.Err()
}

// DeleteAll removes every invoice.
func (r *InvoiceRepository) DeleteAll(ctx context.Context, tx usecase.Transaction) error {
	_, err := txQuerier(tx).Exec(ctx, `DELETE FROM invoices`)

	return err
}

func scanInvoiceRow(row pgx.Row) (*domain.Invoice, error) {
	var (
		invoice              domain.Invoice
		kind, status         string
		total, paid, pending pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&invoice.ID, &kind, &invoice.EventID, &invoice.AssetID, &invoice.CounterpartyID,
		&total, &paid, &pending, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}

		return nil, err
	}

	invoice.Kind = domain.InvoiceKind(kind)
	invoice.Status = domain.InvoiceStatus(status)
	invoice.TotalAmount = numericToDecimal(total)
	invoice.PaidAmount = numericToDecimal(paid)
	invoice.PendingBalance = numericToDecimal(pending)
	invoice.CreatedAt = createdAt.Time
	invoice.UpdatedAt = updatedAt.Time

	return &invoice, nil
}
