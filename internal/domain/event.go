package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventKind discriminates the committed-event family.
type EventKind string

const (
	EventPurchase        EventKind = "purchase"
	EventSale            EventKind = "sale"
	EventExchange        EventKind = "exchange"
	EventExpense         EventKind = "expense"
	EventCapitalMovement EventKind = "capital_movement"
	EventInvestmentTrade EventKind = "investment_trade"
	EventDebtPayment     EventKind = "debt_payment"
	EventPayment         EventKind = "payment"
)

// Capital movement sub-kinds.
const (
	CapitalInjection         = "INJECTION"
	CapitalWithdrawalProfit  = "WITHDRAWAL_PROFIT"
	CapitalWithdrawalCapital = "WITHDRAWAL_CAPITAL"
)

// Sale modes. A DIRECT sale bypasses the asset ledger and books the full
// revenue as profit; it is an explicit operation mode, not an error path.
const (
	SaleModeStock  = "STOCK"
	SaleModeDirect = "DIRECT"
)

// Investment trade sub-kinds.
const (
	InvestmentCreate  = "CREATE"
	InvestmentSale    = "SALE"
	InvestmentRestock = "RESTOCK"
)

// LedgerEvent is the committed, immutable record of one engine operation.
// It persists the exact deltas applied to the cash account and the cost
// basis consumed or produced, because reversal must replay the algebraic
// inverse of what actually happened, not a recomputation against whatever
// the averages look like later. Only the reversal fields may change after
// commit, and only once.
type LedgerEvent struct {
	ID      string
	Kind    EventKind
	SubType string
	ActorID string

	// ReferenceID points at the side aggregate an event created or settled:
	// the invoice for purchases/sales/payments, the debt for debt payments,
	// the product for investment trades.
	ReferenceID string

	// AssetID is the primary asset touched; exchanges additionally record
	// the target leg.
	AssetID        string
	TargetAssetID  string
	Quantity       decimal.Decimal
	TargetQuantity decimal.Decimal
	Rate           decimal.Decimal

	TotalAmount decimal.Decimal
	PaidAmount  decimal.Decimal

	// Deltas applied at commit time to the cash account.
	CashDelta    decimal.Decimal
	CapitalDelta decimal.Decimal
	ProfitDelta  decimal.Decimal

	// CostBasis is the inventory cost consumed (sales, exchange source leg)
	// or produced (purchases, exchange target leg), persisted verbatim.
	CostBasis decimal.Decimal

	Description string
	CreatedAt   time.Time

	Reversed       bool
	ReversedAt     *time.Time
	ReversedBy     string
	ReversalReason string
}

// MarkReversed sets the reversal fields. It fails if they were already set;
// a committed event can be reversed exactly once.
func (e *LedgerEvent) MarkReversed(at time.Time, actor, reason string) error {
	if e.Reversed {
		return ErrAlreadyReversed
	}

	e.Reversed = true
	e.ReversedAt = &at
	e.ReversedBy = actor
	e.ReversalReason = reason

	return nil
}
