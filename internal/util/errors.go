// internal/util/errors.go
package util

import (
	"errors"
	"fmt"
)

// Common application-specific errors.
//
// ErrInvalidInput, the not-found family and the insufficient-funds family are
// expected, user-facing conditions returned synchronously with no retry.
// ErrConflict means the store detected concurrent mutation of the same wallet;
// the ledger retries it a bounded number of times before surfacing it.
// ErrInvariantViolation should never be seen in correct operation: it means an
// atomic apply partially succeeded and indicates a bug in the transaction
// boundary, not a user condition.
var (
	ErrInvalidInput = errors.New("invalid input provided")
	ErrNotFound     = errors.New("resource not found")

	// Entity-specific variants wrap ErrNotFound so callers can match either
	// the family or the exact entity.
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrWalletNotFound     = fmt.Errorf("wallet %w", ErrNotFound)
	ErrRecipientNotFound  = fmt.Errorf("recipient wallet %w", ErrNotFound)
	ErrGoalNotFound       = fmt.Errorf("savings goal %w", ErrNotFound)
	ErrInvestmentNotFound = fmt.Errorf("investment %w", ErrNotFound)
	ErrBudgetNotFound     = fmt.Errorf("budget %w", ErrNotFound)
	ErrFundNotFound       = fmt.Errorf("emergency fund %w", ErrNotFound)

	ErrInsufficientFunds            = errors.New("insufficient funds")
	ErrInsufficientDestinationFunds = errors.New("insufficient funds in destination")

	ErrSameWalletTransfer = errors.New("cannot transfer to the same wallet")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrFundExists         = errors.New("emergency fund already exists")
	ErrHasTransactions    = errors.New("record has linked transactions")

	ErrConflict           = errors.New("concurrent modification, try again")
	ErrInvariantViolation = errors.New("ledger invariant violation")
)

// IsError reports whether err wraps target. Thin alias kept so handler code
// reads as a switch over the taxonomy.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
