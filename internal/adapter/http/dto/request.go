package dto

import (
	"github.com/shopspring/decimal"

	"github.com/mercaldo/ledger/internal/usecase"
)

// PurchaseRequest represents a request to buy inventory.
type PurchaseRequest struct {
	ActorID        string          `json:"actor_id"`
	AssetID        string          `json:"asset_id"`
	CounterpartyID string          `json:"counterparty_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Rate           decimal.Decimal `json:"rate"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	Description    string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *PurchaseRequest) ToUseCaseInput() usecase.PurchaseInput {
	return usecase.PurchaseInput{
		ActorID:        r.ActorID,
		AssetID:        r.AssetID,
		CounterpartyID: r.CounterpartyID,
		Quantity:       r.Quantity,
		Rate:           r.Rate,
		PaidAmount:     r.PaidAmount,
		Description:    r.Description,
	}
}

// SaleRequest represents a request to sell inventory.
type SaleRequest struct {
	ActorID        string          `json:"actor_id"`
	AssetID        string          `json:"asset_id"`
	CounterpartyID string          `json:"counterparty_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Rate           decimal.Decimal `json:"rate"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	Mode           string          `json:"mode,omitempty"`
	Description    string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SaleRequest) ToUseCaseInput() usecase.SaleInput {
	return usecase.SaleInput{
		ActorID:        r.ActorID,
		AssetID:        r.AssetID,
		CounterpartyID: r.CounterpartyID,
		Quantity:       r.Quantity,
		Rate:           r.Rate,
		PaidAmount:     r.PaidAmount,
		Mode:           r.Mode,
		Description:    r.Description,
	}
}

// ExchangeRequest represents a request to convert one asset into another.
type ExchangeRequest struct {
	ActorID       string          `json:"actor_id"`
	SourceAssetID string          `json:"source_asset_id"`
	TargetAssetID string          `json:"target_asset_id"`
	SourceAmount  decimal.Decimal `json:"source_amount"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	Description   string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ExchangeRequest) ToUseCaseInput() usecase.ExchangeInput {
	return usecase.ExchangeInput{
		ActorID:       r.ActorID,
		SourceAssetID: r.SourceAssetID,
		TargetAssetID: r.TargetAssetID,
		SourceAmount:  r.SourceAmount,
		TargetAmount:  r.TargetAmount,
		Description:   r.Description,
	}
}

// ExpenseRequest represents an operating expense.
type ExpenseRequest struct {
	ActorID string          `json:"actor_id"`
	Amount  decimal.Decimal `json:"amount"`
	Concept string          `json:"concept"`
}

// ToUseCaseInput converts to use case input.
func (r *ExpenseRequest) ToUseCaseInput() usecase.ExpenseInput {
	return usecase.ExpenseInput{
		ActorID: r.ActorID,
		Amount:  r.Amount,
		Concept: r.Concept,
	}
}

// CapitalMovementRequest represents an equity movement.
type CapitalMovementRequest struct {
	ActorID     string          `json:"actor_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CapitalMovementRequest) ToUseCaseInput() usecase.CapitalMovementInput {
	return usecase.CapitalMovementInput{
		ActorID:     r.ActorID,
		Type:        r.Type,
		Amount:      r.Amount,
		Description: r.Description,
	}
}

// ReverseEventRequest represents a request to reverse a committed event.
type ReverseEventRequest struct {
	ActorID string `json:"actor_id"`
	Reason  string `json:"reason"`
}

// CreateDebtRequest represents a legacy receivable registration.
type CreateDebtRequest struct {
	ActorID     string          `json:"actor_id"`
	DebtorName  string          `json:"debtor_name"`
	Description string          `json:"description,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateDebtRequest) ToUseCaseInput() usecase.CreateDebtInput {
	return usecase.CreateDebtInput{
		ActorID:     r.ActorID,
		DebtorName:  r.DebtorName,
		Description: r.Description,
		TotalAmount: r.TotalAmount,
	}
}

// DebtPaymentRequest represents a collection against a debt.
type DebtPaymentRequest struct {
	ActorID string          `json:"actor_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *DebtPaymentRequest) ToUseCaseInput(debtID string) usecase.DebtPaymentInput {
	return usecase.DebtPaymentInput{
		ActorID: r.ActorID,
		DebtID:  debtID,
		Amount:  r.Amount,
	}
}

// InvoicePaymentRequest represents a payment against an invoice.
type InvoicePaymentRequest struct {
	ActorID string          `json:"actor_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *InvoicePaymentRequest) ToUseCaseInput(invoiceID string) usecase.PaymentInput {
	return usecase.PaymentInput{
		ActorID:   r.ActorID,
		InvoiceID: invoiceID,
		Amount:    r.Amount,
	}
}

// CreateInvestmentRequest represents opening an investment position.
type CreateInvestmentRequest struct {
	ActorID   string          `json:"actor_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateInvestmentRequest) ToUseCaseInput() usecase.CreateInvestmentInput {
	return usecase.CreateInvestmentInput{
		ActorID:   r.ActorID,
		Name:      r.Name,
		Quantity:  r.Quantity,
		TotalCost: r.TotalCost,
	}
}

// InvestmentSaleRequest represents selling product units.
type InvestmentSaleRequest struct {
	ActorID   string          `json:"actor_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

// ToUseCaseInput converts to use case input.
func (r *InvestmentSaleRequest) ToUseCaseInput(productID string) usecase.InvestmentSaleInput {
	return usecase.InvestmentSaleInput{
		ActorID:   r.ActorID,
		ProductID: productID,
		Quantity:  r.Quantity,
		SalePrice: r.SalePrice,
	}
}

// RestockRequest represents adding stock to a product.
type RestockRequest struct {
	ActorID   string          `json:"actor_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// ToUseCaseInput converts to use case input.
func (r *RestockRequest) ToUseCaseInput(productID string) usecase.RestockInput {
	return usecase.RestockInput{
		ActorID:   r.ActorID,
		ProductID: productID,
		Quantity:  r.Quantity,
		TotalCost: r.TotalCost,
	}
}

// RecordAuditRequest represents a physical cash count.
type RecordAuditRequest struct {
	ActorID         string          `json:"actor_id"`
	PhysicalBalance decimal.Decimal `json:"physical_balance"`
	Notes           string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordAuditRequest) ToUseCaseInput() usecase.RecordAuditInput {
	return usecase.RecordAuditInput{
		ActorID:         r.ActorID,
		PhysicalBalance: r.PhysicalBalance,
		Notes:           r.Notes,
	}
}
