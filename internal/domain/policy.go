package domain

// Policy decides what happens when an operation would drive a balance
// negative. The business alternates between strict blocking and deliberately
// tolerating negative balances "to correct later", so the choice is
// configuration, not code.
type Policy string

const (
	PolicyBlock         Policy = "block"
	PolicyAllowNegative Policy = "allow-negative"
)

// Blocks reports whether the policy forbids driving a balance negative.
func (p Policy) Blocks() bool {
	return p != PolicyAllowNegative
}

// PolicySet holds the per-concern negative-balance policies.
type PolicySet struct {
	// PurchaseCash gates the cash debit of a purchase's paid amount.
	PurchaseCash Policy
	// SaleInventory gates inventory consumption on sales.
	SaleInventory Policy
	// ExchangeInventory gates the source leg of an exchange.
	ExchangeInventory Policy
	// ExpenseCash gates the cash debit of an expense.
	ExpenseCash Policy
	// Reversal gates both cash and inventory when applying an inverse.
	Reversal Policy
}

// DefaultPolicies mirrors the business's current stance: purchases and
// expenses may push cash negative, inventory consumption blocks, and
// reversals block.
func DefaultPolicies() PolicySet {
	return PolicySet{
		PurchaseCash:      PolicyAllowNegative,
		SaleInventory:     PolicyBlock,
		ExchangeInventory: PolicyBlock,
		ExpenseCash:       PolicyAllowNegative,
		Reversal:          PolicyBlock,
	}
}
