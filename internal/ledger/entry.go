// internal/ledger/entry.go
package ledger

import (
	"thryv-wallet/internal/domain"
	"thryv-wallet/internal/util"

	"github.com/shopspring/decimal"
)

// DestinationKind identifies which destination table co-moves with an entry.
type DestinationKind string

const (
	DestinationGoal       DestinationKind = "savings_goal"
	DestinationInvestment DestinationKind = "investment"
	DestinationFund       DestinationKind = "emergency_fund"
)

// WalletLeg is one wallet's share of an entry: a signed delta to apply to
// its balance. Deposits and withdrawals have one leg, transfers two.
type WalletLeg struct {
	WalletID int64
	Delta    decimal.Decimal // Signed: positive credits, negative debits
}

// DestinationDelta describes the running-total change on a destination
// entity that must move in lockstep with the wallet leg.
type DestinationDelta struct {
	Kind   DestinationKind
	ID     int64 // Ignored when NewInvestment is set
	UserID int64 // Owner scope for the locked read
	Delta  decimal.Decimal // Signed: positive contributions, negative withdrawals
	// RaiseInitial marks investment funding, which raises initial_amount
	// together with current_amount.
	RaiseInitial bool
	// NewInvestment, when set, creates the investment inside the atomic
	// unit instead of updating an existing row. The ledger back-fills the
	// new ID onto the transaction drafts.
	NewInvestment *domain.Investment
}

// Entry is one atomic ledger mutation: wallet balance deltas, an optional
// destination delta, and the transaction rows that record them. Apply either
// persists all of it or none of it.
type Entry struct {
	Legs        []WalletLeg
	Destination *DestinationDelta
	Drafts      []*domain.Transaction
}

// Applied is the state written by a successful Apply, re-read inside the
// same transaction so callers see exactly what was committed.
type Applied struct {
	Wallets      map[int64]*domain.Wallet
	Goal         *domain.SavingsGoal
	Investment   *domain.Investment
	Fund         *domain.EmergencyFund
	Transactions []*domain.Transaction
}

// Wallet returns the committed state of one wallet leg.
func (a *Applied) Wallet(walletID int64) *domain.Wallet {
	return a.Wallets[walletID]
}

// validate rejects structurally broken entries before any store access.
// These are programming errors in the calling service, not user input.
func (e *Entry) validate() error {
	if len(e.Legs) == 0 || len(e.Drafts) == 0 {
		return util.ErrInvalidInput
	}
	if len(e.Legs) > 2 {
		return util.ErrInvalidInput
	}
	for _, leg := range e.Legs {
		if leg.Delta.IsZero() {
			return util.ErrInvalidInput
		}
	}
	if len(e.Legs) == 2 && e.Legs[0].WalletID == e.Legs[1].WalletID {
		return util.ErrSameWalletTransfer
	}
	for _, draft := range e.Drafts {
		if !draft.Type.Valid() || !draft.Amount.IsPositive() {
			return util.ErrInvalidInput
		}
	}
	return nil
}
