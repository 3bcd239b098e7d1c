package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mercaldo/ledger/internal/domain"
)

// CashAuditUseCase records physical cash counts against the system balance.
type CashAuditUseCase struct {
	cashRepo  CashRepository
	auditRepo CashAuditRepository
	idGen     IDGenerator
}

// NewCashAuditUseCase creates a new CashAuditUseCase.
func NewCashAuditUseCase(cashRepo CashRepository, auditRepo CashAuditRepository, idGen IDGenerator) *CashAuditUseCase {
	return &CashAuditUseCase{cashRepo: cashRepo, auditRepo: auditRepo, idGen: idGen}
}

// RecordAuditInput is a physical count of the cash box.
type RecordAuditInput struct {
	ActorID         string
	PhysicalBalance decimal.Decimal
	Notes           string
}

// RecordAudit captures the system balance at count time and the difference
// against the physical count. An exact match auto-approves.
func (uc *CashAuditUseCase) RecordAudit(ctx context.Context, input RecordAuditInput) (*domain.CashAudit, error) {
	if input.PhysicalBalance.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	cash, err := uc.cashRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	audit := domain.NewCashAudit(
		uc.idGen.Generate(),
		input.ActorID,
		domain.RoundMoney(input.PhysicalBalance),
		cash.OperativeCash,
		input.Notes,
		time.Now().UTC(),
	)

	if err := uc.auditRepo.Create(ctx, audit); err != nil {
		return nil, err
	}

	return audit, nil
}

// ListAudits lists past counts.
func (uc *CashAuditUseCase) ListAudits(ctx context.Context, limit, offset int) ([]*domain.CashAudit, error) {
	return uc.auditRepo.List(ctx, clampLimit(limit), offset)
}
