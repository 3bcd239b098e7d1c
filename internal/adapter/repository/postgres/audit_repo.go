package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercaldo/ledger/internal/domain"
)

// CashAuditRepository implements usecase.CashAuditRepository.
type CashAuditRepository struct {
	pool *pgxpool.Pool
}

// NewCashAuditRepository creates a new CashAuditRepository.
func NewCashAuditRepository(pool *pgxpool.Pool) *CashAuditRepository {
	return &CashAuditRepository{pool: pool}
}

const auditColumns = `id, actor_id, physical_balance, system_balance, difference, status, notes, created_at`

// Create records a cash count. Audits are append-only.
func (r *CashAuditRepository) Create(ctx context.Context, audit *domain.CashAudit) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO cash_audits (`+auditColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		audit.ID, audit.ActorID,
		decimalToNumeric(audit.PhysicalBalance), decimalToNumeric(audit.SystemBalance),
		decimalToNumeric(audit.Difference), string(audit.Status), audit.Notes,
		timeToPgTimestamptz(audit.CreatedAt),
	)

	return err
}

// List lists audits newest first.
func (r *CashAuditRepository) List(ctx context.Context, limit, offset int) ([]*domain.CashAudit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+auditColumns+` FROM cash_audits
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	audits := make([]*domain.CashAudit, 0, limit)
	for rows.Next() {
		audit, err := scanAuditRow(rows)
		if err != nil {
			return nil, err
		}
		audits = append(audits, audit)
	}

	return audits, rows.Err()
}

func scanAuditRow(row pgx.Row) (*domain.CashAudit, error) {
	var (
		audit                  domain.CashAudit
		status                 string
		physical, system, diff pgtype.Numeric
		createdAt              pgtype.Timestamptz
	)

	err := row.Scan(
		&audit.ID, &audit.ActorID, &physical, &system, &diff, &status, &audit.Notes, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	audit.Status = domain.CashAuditStatus(status)
	audit.PhysicalBalance = numericToDecimal(physical)
	audit.SystemBalance = numericToDecimal(system)
	audit.Difference = numericToDecimal(diff)
	audit.CreatedAt = createdAt.Time

	return &audit, nil
}
