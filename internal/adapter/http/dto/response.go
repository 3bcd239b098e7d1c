package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mercaldo/ledger/internal/domain"
	"github.com/mercaldo/ledger/internal/usecase"
)

// EventResponse represents a committed ledger event in API responses.
type EventResponse struct {
	ID             string          `json:"id"`
	Kind           string          `json:"kind"`
	SubType        string          `json:"sub_type,omitempty"`
	ActorID        string          `json:"actor_id,omitempty"`
	ReferenceID    string          `json:"reference_id,omitempty"`
	AssetID        string          `json:"asset_id,omitempty"`
	TargetAssetID  string          `json:"target_asset_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	TargetQuantity decimal.Decimal `json:"target_quantity"`
	Rate           decimal.Decimal `json:"rate"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	CashDelta      decimal.Decimal `json:"cash_delta"`
	CapitalDelta   decimal.Decimal `json:"capital_delta"`
	ProfitDelta    decimal.Decimal `json:"profit_delta"`
	CostBasis      decimal.Decimal `json:"cost_basis"`
	Description    string          `json:"description,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	Reversed       bool            `json:"reversed"`
	ReversedAt     *time.Time      `json:"reversed_at,omitempty"`
	ReversedBy     string          `json:"reversed_by,omitempty"`
	ReversalReason string          `json:"reversal_reason,omitempty"`
}

// EventFromDomain converts a domain event to a response.
func EventFromDomain(e *domain.LedgerEvent) *EventResponse {
	return &EventResponse{
		ID:             e.ID,
		Kind:           string(e.Kind),
		SubType:        e.SubType,
		ActorID:        e.ActorID,
		ReferenceID:    e.ReferenceID,
		AssetID:        e.AssetID,
		TargetAssetID:  e.TargetAssetID,
		Quantity:       e.Quantity,
		TargetQuantity: e.TargetQuantity,
		Rate:           e.Rate,
		TotalAmount:    e.TotalAmount,
		PaidAmount:     e.PaidAmount,
		CashDelta:      e.CashDelta,
		CapitalDelta:   e.CapitalDelta,
		ProfitDelta:    e.ProfitDelta,
		CostBasis:      e.CostBasis,
		Description:    e.Description,
		CreatedAt:      e.CreatedAt,
		Reversed:       e.Reversed,
		ReversedAt:     e.ReversedAt,
		ReversedBy:     e.ReversedBy,
		ReversalReason: e.ReversalReason,
	}
}

// EventsFromDomain converts domain events to responses.
func EventsFromDomain(events []*domain.LedgerEvent) []*EventResponse {
	result := make([]*EventResponse, len(events))
	for i, e := range events {
		result[i] = EventFromDomain(e)
	}
	return result
}

// CashAccountResponse represents the singleton cash account.
type CashAccountResponse struct {
	OperativeCash     decimal.Decimal `json:"operative_cash"`
	TotalCapital      decimal.Decimal `json:"total_capital"`
	AccumulatedProfit decimal.Decimal `json:"accumulated_profit"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// CashAccountFromDomain converts the domain account to a response.
func CashAccountFromDomain(a *domain.CashAccount) *CashAccountResponse {
	return &CashAccountResponse{
		OperativeCash:     a.OperativeCash,
		TotalCapital:      a.TotalCapital,
		AccumulatedProfit: a.AccumulatedProfit,
		UpdatedAt:         a.UpdatedAt,
	}
}

// AssetLedgerResponse represents one asset position.
type AssetLedgerResponse struct {
	AssetID     string          `json:"asset_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	AverageCost decimal.Decimal `json:"average_cost"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AssetLedgerFromDomain converts a domain ledger to a response.
func AssetLedgerFromDomain(l *domain.AssetLedger) *AssetLedgerResponse {
	return &AssetLedgerResponse{
		AssetID:     l.AssetID,
		Quantity:    l.Quantity,
		TotalCost:   l.TotalCost,
		AverageCost: l.AverageCost,
		UpdatedAt:   l.UpdatedAt,
	}
}

// AssetLedgersFromDomain converts domain ledgers to responses.
func AssetLedgersFromDomain(ledgers []*domain.AssetLedger) []*AssetLedgerResponse {
	result := make([]*AssetLedgerResponse, len(ledgers))
	for i, l := range ledgers {
		result[i] = AssetLedgerFromDomain(l)
	}
	return result
}

// InvoiceResponse represents an invoice in API responses.
type InvoiceResponse struct {
	ID             string          `json:"id"`
	Kind           string          `json:"kind"`
	EventID        string          `json:"event_id"`
	AssetID        string          `json:"asset_id,omitempty"`
	CounterpartyID string          `json:"counterparty_id,omitempty"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	PendingBalance decimal.Decimal `json:"pending_balance"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// InvoiceFromDomain converts a domain invoice to a response.
func InvoiceFromDomain(inv *domain.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		ID:             inv.ID,
		Kind:           string(inv.Kind),
		EventID:        inv.EventID,
		AssetID:        inv.AssetID,
		CounterpartyID: inv.CounterpartyID,
		TotalAmount:    inv.TotalAmount,
		PaidAmount:     inv.PaidAmount,
		PendingBalance: inv.PendingBalance,
		Status:         string(inv.Status),
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}

// InvoicesFromDomain converts domain invoices to responses.
func InvoicesFromDomain(invoices []*domain.Invoice) []*InvoiceResponse {
	result := make([]*InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		result[i] = InvoiceFromDomain(inv)
	}
	return result
}

// DebtResponse represents a receivable in API responses.
type DebtResponse struct {
	ID             string          `json:"id"`
	DebtorName     string          `json:"debtor_name"`
	Description    string          `json:"description,omitempty"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	PendingBalance decimal.Decimal `json:"pending_balance"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// DebtFromDomain converts a domain debt to a response.
func DebtFromDomain(d *domain.Debt) *DebtResponse {
	return &DebtResponse{
		ID:             d.ID,
		DebtorName:     d.DebtorName,
		Description:    d.Description,
		TotalAmount:    d.TotalAmount,
		PaidAmount:     d.PaidAmount,
		PendingBalance: d.PendingBalance,
		Active:         d.Active,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// DebtsFromDomain converts domain debts to responses.
func DebtsFromDomain(debts []*domain.Debt) []*DebtResponse {
	result := make([]*DebtResponse, len(debts))
	for i, d := range debts {
		result[i] = DebtFromDomain(d)
	}
	return result
}

// InvestmentResponse represents a product position in API responses.
type InvestmentResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	TotalCost decimal.Decimal `json:"total_cost"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// InvestmentFromDomain converts a domain product to a response.
func InvestmentFromDomain(p *domain.InvestmentProduct) *InvestmentResponse {
	return &InvestmentResponse{
		ID:        p.ID,
		Name:      p.Name,
		Quantity:  p.Quantity,
		TotalCost: p.TotalCost,
		UnitCost:  p.UnitCost,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// InvestmentsFromDomain converts domain products to responses.
func InvestmentsFromDomain(products []*domain.InvestmentProduct) []*InvestmentResponse {
	result := make([]*InvestmentResponse, len(products))
	for i, p := range products {
		result[i] = InvestmentFromDomain(p)
	}
	return result
}

// AuditResponse represents a cash audit in API responses.
type AuditResponse struct {
	ID              string          `json:"id"`
	ActorID         string          `json:"actor_id,omitempty"`
	PhysicalBalance decimal.Decimal `json:"physical_balance"`
	SystemBalance   decimal.Decimal `json:"system_balance"`
	Difference      decimal.Decimal `json:"difference"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// AuditFromDomain converts a domain audit to a response.
func AuditFromDomain(a *domain.CashAudit) *AuditResponse {
	return &AuditResponse{
		ID:              a.ID,
		ActorID:         a.ActorID,
		PhysicalBalance: a.PhysicalBalance,
		SystemBalance:   a.SystemBalance,
		Difference:      a.Difference,
		Status:          string(a.Status),
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
	}
}

// AuditsFromDomain converts domain audits to responses.
func AuditsFromDomain(audits []*domain.CashAudit) []*AuditResponse {
	result := make([]*AuditResponse, len(audits))
	for i, a := range audits {
		result[i] = AuditFromDomain(a)
	}
	return result
}

// AssetCheckResponse represents one asset's reconciliation result.
type AssetCheckResponse struct {
	AssetID         string          `json:"asset_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	AverageCost     decimal.Decimal `json:"average_cost"`
	ExpectedAverage decimal.Decimal `json:"expected_average"`
	Consistent      bool            `json:"consistent"`
}

// ConsistencyResponse represents the full reconciliation report.
type ConsistencyResponse struct {
	CheckedAt     time.Time            `json:"checked_at"`
	TotalAssets   int                  `json:"total_assets"`
	Inconsistent  []AssetCheckResponse `json:"inconsistent"`
	CashAvailable decimal.Decimal      `json:"cash_available"`
	Consistent    bool                 `json:"consistent"`
}

// ConsistencyFromReport converts a reconciliation report to a response.
func ConsistencyFromReport(report *usecase.ConsistencyReport) *ConsistencyResponse {
	checks := make([]AssetCheckResponse, len(report.Inconsistent))
	for i, c := range report.Inconsistent {
		checks[i] = AssetCheckResponse{
			AssetID:         c.AssetID,
			Quantity:        c.Quantity,
			TotalCost:       c.TotalCost,
			AverageCost:     c.AverageCost,
			ExpectedAverage: c.ExpectedAverage,
			Consistent:      c.Consistent,
		}
	}

	return &ConsistencyResponse{
		CheckedAt:     report.CheckedAt,
		TotalAssets:   report.TotalAssets,
		Inconsistent:  checks,
		CashAvailable: report.CashAvailable,
		Consistent:    report.Consistent,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
