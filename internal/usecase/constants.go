package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds one ledger transaction so a stuck
	// writer cannot hold the cash or asset locks indefinitely.
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultListLimit and MaxListLimit bound paginated reads.
	DefaultListLimit = 20
	MaxListLimit     = 100
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}

	return limit
}
