package usecase

import (
	"context"
	"time"

	"github.com/mercaldo/ledger/internal/domain"
)

// CashRepository defines data access for the singleton cash account.
type CashRepository interface {
	Get(ctx context.Context) (*domain.CashAccount, error)
	// GetForUpdate locks the singleton row, creating it on first use inside
	// the same transaction.
	GetForUpdate(ctx context.Context, tx Transaction) (*domain.CashAccount, error)
	Update(ctx context.Context, tx Transaction, account *domain.CashAccount) error
	Reset(ctx context.Context, tx Transaction) error
}

// AssetRepository defines data access for per-asset WAC ledgers.
type AssetRepository interface {
	GetByID(ctx context.Context, assetID string) (*domain.AssetLedger, error)
	// GetForUpdate locks one asset row, creating an empty ledger on first
	// touch inside the same transaction.
	GetForUpdate(ctx context.Context, tx Transaction, assetID string) (*domain.AssetLedger, error)
	Update(ctx context.Context, tx Transaction, ledger *domain.AssetLedger) error
	List(ctx context.Context, limit, offset int) ([]*domain.AssetLedger, error)
	Reset(ctx context.Context, tx Transaction) error
}

// EventRepository defines data access for committed ledger events.
type EventRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.LedgerEvent) error
	GetByID(ctx context.Context, id string) (*domain.LedgerEvent, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.LedgerEvent, error)
	MarkReversed(ctx context.Context, tx Transaction, event *domain.LedgerEvent) error
	List(ctx context.Context, kind domain.EventKind, limit, offset int) ([]*domain.LedgerEvent, error)
	DeleteAll(ctx context.Context, tx Transaction) error
}

// InvoiceRepository defines data access for purchase/sale invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, tx Transaction, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Invoice, error)
	Update(ctx context.Context, tx Transaction, invoice *domain.Invoice) error
	List(ctx context.Context, kind domain.InvoiceKind, limit, offset int) ([]*domain.Invoice, error)
	DeleteAll(ctx context.Context, tx Transaction) error
}

// DebtRepository defines data access for legacy receivables.
type DebtRepository interface {
	Create(ctx context.Context, debt *domain.Debt) error
	GetByID(ctx context.Context, id string) (*domain.Debt, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Debt, error)
	Update(ctx context.Context, tx Transaction, debt *domain.Debt) error
	List(ctx context.Context, limit, offset int) ([]*domain.Debt, error)
	DeleteAll(ctx context.Context, tx Transaction) error
}

// InvestmentRepository defines data access for investment products.
type InvestmentRepository interface {
	Create(ctx context.Context, tx Transaction, product *domain.InvestmentProduct) error
	GetByID(ctx context.Context, id string) (*domain.InvestmentProduct, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.InvestmentProduct, error)
	Update(ctx context.Context, tx Transaction, product *domain.InvestmentProduct) error
	List(ctx context.Context, limit, offset int) ([]*domain.InvestmentProduct, error)
	DeleteAll(ctx context.Context, tx Transaction) error
}

// CashAuditRepository defines data access for cash audits.
type CashAuditRepository interface {
	Create(ctx context.Context, audit *domain.CashAudit) error
	List(ctx context.Context, limit, offset int) ([]*domain.CashAudit, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
