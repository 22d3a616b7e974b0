// internal/ledger/guard.go
package ledger

import (
	"fmt"

	"thryv-wallet/internal/metrics"
	"thryv-wallet/internal/util"

	"github.com/shopspring/decimal"
)

// The guard functions are the validation stage every mutation passes through
// before the atomic apply. Each invocation is a short-lived check-and-act:
// validating (these checks), applying (Store.Apply), then completed or
// rejected. A rejection here means no store write was performed.
//
// Sufficiency is checked twice on purpose: once by the service on its
// initial read for a fast, user-readable rejection, and again by the store
// on the row-locked read, which is the authoritative one.

// CheckAmount rejects amounts that are not finite positive numbers.
func CheckAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		metrics.LedgerRejectionsTotal.WithLabelValues("invalid_amount").Inc()
		return fmt.Errorf("amount must be greater than zero: %w", util.ErrInvalidInput)
	}
	return nil
}

// CheckSufficient rejects a debit that exceeds the wallet balance.
func CheckSufficient(balance, amount decimal.Decimal) error {
	if balance.LessThan(amount) {
		metrics.LedgerRejectionsTotal.WithLabelValues("insufficient_funds").Inc()
		return util.ErrInsufficientFunds
	}
	return nil
}

// CheckDestinationSufficient rejects a withdrawal that exceeds a
// destination's running total.
func CheckDestinationSufficient(current, amount decimal.Decimal) error {
	if current.LessThan(amount) {
		metrics.LedgerRejectionsTotal.WithLabelValues("insufficient_destination_funds").Inc()
		return util.ErrInsufficientDestinationFunds
	}
	return nil
}

// CheckDistinctWallets rejects a transfer from a wallet to itself.
func CheckDistinctWallets(fromWalletID, toWalletID int64) error {
	if fromWalletID == toWalletID {
		metrics.LedgerRejectionsTotal.WithLabelValues("same_wallet").Inc()
		return util.ErrSameWalletTransfer
	}
	return nil
}
