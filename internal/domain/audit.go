package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashAuditStatus values.
type CashAuditStatus string

const (
	CashAuditApproved CashAuditStatus = "approved"
	CashAuditPending  CashAuditStatus = "pending"
)

// CashAudit records a physical cash count against the system's operative
// float at the moment of the count.
type CashAudit struct {
	ID              string
	ActorID         string
	PhysicalBalance decimal.Decimal
	SystemBalance   decimal.Decimal
	Difference      decimal.Decimal
	Status          CashAuditStatus
	Notes           string
	CreatedAt       time.Time
}

// NewCashAudit computes the difference and auto-approves exact counts.
func NewCashAudit(id, actorID string, physical, system decimal.Decimal, notes string, now time.Time) *CashAudit {
	diff := physical.Sub(system)

	status := CashAuditPending
	if diff.IsZero() {
		status = CashAuditApproved
	}

	return &CashAudit{
		ID:              id,
		ActorID:         actorID,
		PhysicalBalance: physical,
		SystemBalance:   system,
		Difference:      diff,
		Status:          status,
		Notes:           notes,
		CreatedAt:       now,
	}
}
