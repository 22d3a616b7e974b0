// internal/ledger/store.go
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"thryv-wallet/internal/domain"
	"thryv-wallet/internal/metrics"
	"thryv-wallet/internal/repository"
	"thryv-wallet/internal/util"
	"thryv-wallet/pkg/db"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// maxApplyRetries bounds how often a conflicted apply is retried before
// ErrConflict reaches the caller.
const maxApplyRetries = 3

// retryBackoff is the base delay between conflicted attempts.
const retryBackoff = 25 * time.Millisecond

// Store is the ledgered balance-mutation primitive: it applies an Entry —
// wallet balance deltas, the optional destination running-total change and
// the transaction rows recording them — as one database transaction.
//
// Wallet rows are locked SELECT ... FOR UPDATE in ascending wallet-ID order,
// so two opposite-direction transfers cannot deadlock and concurrent
// operations on one wallet serialize on the row lock. Sufficiency is decided
// on the locked read; a crash or concurrent reader can never observe a
// balance change without its matching transaction row.
type Store struct {
	dbConn       db.DBTxBeginner
	wallets      repository.WalletRepository
	transactions repository.TransactionRepository
	goals        repository.SavingsGoalRepository
	investments  repository.InvestmentRepository
	funds        repository.EmergencyFundRepository
	beginTx      db.BeginTxFunc
	commitTx     db.CommitTxFunc
	rollbackTx   db.RollbackTxFunc
	logger       *slog.Logger
}

// NewStore creates a ledger Store. Transaction control is injected so tests
// can run the apply path against fakes.
func NewStore(
	dbConn db.DBTxBeginner,
	wallets repository.WalletRepository,
	transactions repository.TransactionRepository,
	goals repository.SavingsGoalRepository,
	investments repository.InvestmentRepository,
	funds repository.EmergencyFundRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) *Store {
	return &Store{
		dbConn:       dbConn,
		wallets:      wallets,
		transactions: transactions,
		goals:        goals,
		investments:  investments,
		funds:        funds,
		beginTx:      beginTx,
		commitTx:     commitTx,
		rollbackTx:   rollbackTx,
		logger:       logger,
	}
}

// Apply runs the entry as one atomic unit. On store contention (serialization
// failure, deadlock, lock timeout) the whole unit is retried up to
// maxApplyRetries times before ErrConflict surfaces. Any other failure
// aborts immediately with no observable side effect.
func (s *Store) Apply(ctx context.Context, entry *Entry) (*Applied, error) {
	if err := entry.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		metrics.LedgerApplyDuration.Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	for attempt := 0; attempt <= maxApplyRetries; attempt++ {
		if attempt > 0 {
			metrics.LedgerConflictRetries.Inc()
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("apply cancelled while waiting to retry: %w", ctx.Err())
			case <-time.After(retryBackoff * time.Duration(attempt)):
			}
		}

		applied, err := s.applyOnce(ctx, entry)
		if err == nil {
			for _, t := range applied.Transactions {
				metrics.LedgerEntriesTotal.WithLabelValues(string(t.Type)).Inc()
			}
			return applied, nil
		}
		if !isConflict(err) {
			return nil, err
		}
		lastErr = err
		s.logger.Warn("ledger apply conflicted, retrying",
			"attempt", attempt+1, "error", err)
	}
	return nil, fmt.Errorf("apply gave up after %d attempts: %w", maxApplyRetries+1, errors.Join(lastErr, util.ErrConflict))
}

// applyOnce runs a single attempt inside one database transaction.
func (s *Store) applyOnce(ctx context.Context, entry *Entry) (*Applied, error) {
	txController, err := s.beginTx(ctx, s.dbConn)
	if err != nil {
		return nil, fmt.Errorf("apply: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	q, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("apply: transaction controller does not implement DBExecutor")
	}

	applied := &Applied{Wallets: make(map[int64]*domain.Wallet)}

	// Lock wallet rows in ascending ID order; sufficiency is decided on
	// the balance read under the lock.
	legs := make([]WalletLeg, len(entry.Legs))
	copy(legs, entry.Legs)
	sort.Slice(legs, func(i, j int) bool { return legs[i].WalletID < legs[j].WalletID })

	lockedBalance := make(map[int64]decimal.Decimal, len(legs))
	for _, leg := range legs {
		wallet, err := s.wallets.GetWalletForUpdate(ctx, q, leg.WalletID)
		if err != nil {
			return nil, fmt.Errorf("apply: failed to lock wallet %d: %w", leg.WalletID, err)
		}
		lockedBalance[leg.WalletID] = wallet.Balance
		if leg.Delta.IsNegative() {
			if err := CheckSufficient(wallet.Balance, leg.Delta.Neg()); err != nil {
				return nil, err
			}
		}
	}

	for _, leg := range legs {
		if err := s.wallets.ApplyBalanceDelta(ctx, q, leg.WalletID, leg.Delta); err != nil {
			return nil, fmt.Errorf("apply: failed to move balance on wallet %d: %w", leg.WalletID, err)
		}
	}

	if entry.Destination != nil {
		if err := s.applyDestination(ctx, q, entry, applied); err != nil {
			return nil, err
		}
	}

	for _, draft := range entry.Drafts {
		draft.Status = domain.TransactionStatusCompleted
		if err := s.transactions.CreateTransaction(ctx, q, draft); err != nil {
			return nil, fmt.Errorf("apply: failed to record transaction: %w", err)
		}
		applied.Transactions = append(applied.Transactions, draft)
	}

	// Re-read committed wallet state inside the same transaction and check
	// it against the locked read. A mismatch means the atomic unit leaked a
	// partial write; report it rather than pretend success.
	for _, leg := range legs {
		wallet, err := s.wallets.GetWalletByID(ctx, q, leg.WalletID)
		if err != nil {
			return nil, fmt.Errorf("apply: failed to re-read wallet %d: %w", leg.WalletID, err)
		}
		want := lockedBalance[leg.WalletID].Add(leg.Delta)
		if !wallet.Balance.Equal(want) {
			metrics.InvariantViolationsTotal.Inc()
			s.logger.Error("wallet balance diverged inside atomic apply",
				"wallet_id", leg.WalletID, "want", want, "got", wallet.Balance)
			return nil, fmt.Errorf("wallet %d: expected balance %s, found %s: %w",
				leg.WalletID, want, wallet.Balance, util.ErrInvariantViolation)
		}
		applied.Wallets[leg.WalletID] = wallet
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("apply: failed to commit: %w", err)
	}
	return applied, nil
}

// applyDestination moves the destination entity's running total in lockstep
// with the wallet leg, under its own row lock.
func (s *Store) applyDestination(ctx context.Context, q repository.DBExecutor, entry *Entry, applied *Applied) error {
	d := entry.Destination
	switch d.Kind {
	case DestinationGoal:
		goal, err := s.goals.GetGoalForUpdate(ctx, q, d.ID, d.UserID)
		if err != nil {
			return err
		}
		if d.Delta.IsNegative() {
			if err := CheckDestinationSufficient(goal.CurrentAmount, d.Delta.Neg()); err != nil {
				return err
			}
		}
		newCurrent := goal.CurrentAmount.Add(d.Delta)
		// Reaching the target completes the goal; any withdrawal reopens it.
		completed := d.Delta.IsPositive() && newCurrent.GreaterThanOrEqual(goal.TargetAmount)
		if err := s.goals.UpdateGoalProgress(ctx, q, goal.ID, newCurrent, completed); err != nil {
			return err
		}
		goal.CurrentAmount = newCurrent
		goal.IsCompleted = completed
		applied.Goal = goal

	case DestinationInvestment:
		if d.NewInvestment != nil {
			if err := s.investments.CreateInvestment(ctx, q, d.NewInvestment); err != nil {
				return err
			}
			for _, draft := range entry.Drafts {
				draft.InvestmentID = &d.NewInvestment.ID
			}
			applied.Investment = d.NewInvestment
			return nil
		}
		investment, err := s.investments.GetInvestmentForUpdate(ctx, q, d.ID, d.UserID)
		if err != nil {
			return err
		}
		if d.Delta.IsNegative() {
			if err := CheckDestinationSufficient(investment.CurrentAmount, d.Delta.Neg()); err != nil {
				return err
			}
		}
		newCurrent := investment.CurrentAmount.Add(d.Delta)
		newInitial := investment.InitialAmount
		if d.RaiseInitial {
			newInitial = newInitial.Add(d.Delta)
		}
		if err := s.investments.UpdateInvestmentAmounts(ctx, q, investment.ID, newInitial, newCurrent); err != nil {
			return err
		}
		investment.InitialAmount = newInitial
		investment.CurrentAmount = newCurrent
		applied.Investment = investment

	case DestinationFund:
		fund, err := s.funds.GetFundForUpdate(ctx, q, d.UserID)
		if err != nil {
			return err
		}
		if d.Delta.IsNegative() {
			if err := CheckDestinationSufficient(fund.CurrentAmount, d.Delta.Neg()); err != nil {
				return err
			}
		}
		newCurrent := fund.CurrentAmount.Add(d.Delta)
		if err := s.funds.UpdateFundProgress(ctx, q, fund.ID, newCurrent); err != nil {
			return err
		}
		fund.CurrentAmount = newCurrent
		applied.Fund = fund

	default:
		return fmt.Errorf("unknown destination kind %q: %w", d.Kind, util.ErrInvalidInput)
	}
	return nil
}

// isConflict reports whether the error is store contention worth retrying:
// our own sentinel, or Postgres serialization_failure (40001),
// deadlock_detected (40P01) and lock_not_available (55P03).
func isConflict(err error) bool {
	if errors.Is(err, util.ErrConflict) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01", "55P03":
			return true
		}
	}
	return false
}
