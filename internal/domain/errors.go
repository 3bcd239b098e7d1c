package domain

import "errors"

var (
	// Balance errors
	ErrInsufficientFunds     = errors.New("insufficient operative cash for this operation")
	ErrInsufficientCapital   = errors.New("insufficient total capital for this withdrawal")
	ErrInsufficientProfit    = errors.New("insufficient accumulated profit for this withdrawal")
	ErrInsufficientInventory = errors.New("insufficient inventory for this operation")

	// Settlement errors
	ErrExceedsPendingBalance = errors.New("payment exceeds the pending balance")

	// Reversal errors
	ErrAlreadyReversed = errors.New("event has already been reversed")

	// Lookup errors
	ErrEventNotFound   = errors.New("ledger event not found")
	ErrAssetNotFound   = errors.New("asset ledger not found")
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrDebtNotFound    = errors.New("debt not found")
	ErrProductNotFound = errors.New("investment product not found")

	// Input errors
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrSameAsset       = errors.New("cannot exchange an asset for itself")
	ErrProductSoldOut  = errors.New("investment product is sold out")
	ErrInvoiceReversed = errors.New("invoice has been reversed")

	// ErrUnsupported marks an operation that is deliberately not implemented.
	ErrUnsupported = errors.New("operation not supported")

	// ErrInvariantViolation indicates a programming defect: engine state that
	// should be unreachable (e.g. a negative quantity surviving
	// normalization). It must never surface in correct operation.
	ErrInvariantViolation = errors.New("ledger invariant violation")
)
