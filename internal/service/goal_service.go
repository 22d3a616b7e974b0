// internal/service/goal_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"thryv-wallet/internal/cache"
	"thryv-wallet/internal/domain"
	"thryv-wallet/internal/events"
	"thryv-wallet/internal/ledger"
	"thryv-wallet/internal/repository"
	"thryv-wallet/internal/util"

	"github.com/shopspring/decimal"
)

// CreateGoalInput describes a new savings goal. Progress always starts at
// zero; funding happens through ContributeToGoal.
type CreateGoalInput struct {
	CallerUserID int64
	Name         string
	TargetAmount decimal.Decimal
	Deadline     *time.Time
	Category     *string
	Description  *string
}

// UpdateGoalInput changes goal metadata. Nil fields keep their value.
// CurrentAmount and IsCompleted are ledger-owned and cannot be set here.
type UpdateGoalInput struct {
	CallerUserID int64
	GoalID       int64
	Name         *string
	TargetAmount *decimal.Decimal
	Deadline     *time.Time
	Category     *string
	Description  *string
}

// GoalMovementInput describes a contribution to or withdrawal from a goal.
type GoalMovementInput struct {
	CallerUserID int64
	GoalID       int64
	Amount       decimal.Decimal
	Description  string
}

// GoalMovementResult carries the state committed by one goal movement.
type GoalMovementResult struct {
	Wallet      *domain.Wallet
	Goal        *domain.SavingsGoal
	Transaction *domain.Transaction
}

// SavingsGoalService defines savings goal lifecycle and funding operations.
type SavingsGoalService interface {
	CreateGoal(ctx context.Context, in CreateGoalInput) (*domain.SavingsGoal, error)
	GetGoal(ctx context.Context, callerUserID, goalID int64) (*domain.SavingsGoal, error)
	ListGoals(ctx context.Context, callerUserID int64) ([]domain.SavingsGoal, error)
	UpdateGoal(ctx context.Context, in UpdateGoalInput) (*domain.SavingsGoal, error)
	DeleteGoal(ctx context.Context, callerUserID, goalID int64) error
	ContributeToGoal(ctx context.Context, in GoalMovementInput) (*GoalMovementResult, error)
	WithdrawFromGoal(ctx context.Context, in GoalMovementInput) (*GoalMovementResult, error)
}

type savingsGoalService struct {
	dbase        Database
	wallets      repository.WalletRepository
	transactions repository.TransactionRepository
	goals        repository.SavingsGoalRepository
	store        *ledger.Store
	cache        *cache.Cache
	publisher    events.Publisher
	logger       *slog.Logger
}

func NewSavingsGoalService(
	dbase Database,
	wallets repository.WalletRepository,
	transactions repository.TransactionRepository,
	goals repository.SavingsGoalRepository,
	store *ledger.Store,
	c *cache.Cache,
	publisher events.Publisher,
	logger *slog.Logger,
) SavingsGoalService {
	return &savingsGoalService{
		dbase:        dbase,
		wallets:      wallets,
		transactions: transactions,
		goals:        goals,
		store:        store,
		cache:        c,
		publisher:    publisher,
		logger:       logger,
	}
}

func (s *savingsGoalService) CreateGoal(ctx context.Context, in CreateGoalInput) (*domain.SavingsGoal, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("goal name is required: %w", util.ErrInvalidInput)
	}
	if err := ledger.CheckAmount(in.TargetAmount); err != nil {
		return nil, err
	}

	goal := domain.NewSavingsGoal(in.CallerUserID, in.Name, in.TargetAmount)
	goal.Deadline = in.Deadline
	goal.Category = in.Category
	goal.Description = in.Description
	if err := s.goals.CreateGoal(ctx, s.dbase, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	s.logger.Info("savings goal created", "goal_id", goal.ID, "user_id", in.CallerUserID)
	return goal, nil
}

func (s *savingsGoalService) GetGoal(ctx context.Context, callerUserID, goalID int64) (*domain.SavingsGoal, error) {
	return s.goals.GetGoalByID(ctx, s.dbase, goalID, callerUserID)
}

func (s *savingsGoalService) ListGoals(ctx context.Context, callerUserID int64) ([]domain.SavingsGoal, error) {
	return s.goals.ListGoalsByUserID(ctx, s.dbase, callerUserID)
}

func (s *savingsGoalService) UpdateGoal(ctx context.Context, in UpdateGoalInput) (*domain.SavingsGoal, error) {
	goal, err := s.goals.GetGoalByID(ctx, s.dbase, in.GoalID, in.CallerUserID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		goal.Name = *in.Name
	}
	if in.TargetAmount != nil {
		if err := ledger.CheckAmount(*in.TargetAmount); err != nil {
			return nil, err
		}
		goal.TargetAmount = *in.TargetAmount
	}
	if in.Deadline != nil {
		goal.Deadline = in.Deadline
	}
	if in.Category != nil {
		goal.Category = in.Category
	}
	if in.Description != nil {
		goal.Description = in.Description
	}
	if err := s.goals.UpdateGoal(ctx, s.dbase, goal); err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return goal, nil
}

// DeleteGoal removes a goal that has no transaction history. Goals with
// linked transactions are never deleted so the log stays explainable.
func (s *savingsGoalService) DeleteGoal(ctx context.Context, callerUserID, goalID int64) error {
	if _, err := s.goals.GetGoalByID(ctx, s.dbase, goalID, callerUserID); err != nil {
		return err
	}
	count, err := s.transactions.CountByGoalID(ctx, s.dbase, goalID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("goal %d has %d linked transactions: %w", goalID, count, util.ErrHasTransactions)
	}
	return s.goals.DeleteGoal(ctx, s.dbase, goalID, callerUserID)
}

// ContributeToGoal moves funds from the caller's wallet into the goal's
// running total. Reaching the target marks the goal completed.
func (s *savingsGoalService) ContributeToGoal(ctx context.Context, in GoalMovementInput) (*GoalMovementResult, error) {
	return s.move(ctx, in, domain.TransactionTypeSavingsContribution)
}

// WithdrawFromGoal moves funds back to the caller's wallet and clears the
// completion flag.
func (s *savingsGoalService) WithdrawFromGoal(ctx context.Context, in GoalMovementInput) (*GoalMovementResult, error) {
	return s.move(ctx, in, domain.TransactionTypeSavingsWithdrawal)
}

func (s *savingsGoalService) move(ctx context.Context, in GoalMovementInput, txType domain.TransactionType) (*GoalMovementResult, error) {
	if err := ledger.CheckAmount(in.Amount); err != nil {
		return nil, err
	}

	wallet, err := s.wallets.GetWalletByUserID(ctx, s.dbase, in.CallerUserID)
	if err != nil {
		return nil, err
	}
	goal, err := s.goals.GetGoalByID(ctx, s.dbase, in.GoalID, in.CallerUserID)
	if err != nil {
		return nil, err
	}

	walletDelta := in.Amount.Neg()
	goalDelta := in.Amount
	if txType == domain.TransactionTypeSavingsWithdrawal {
		walletDelta = in.Amount
		goalDelta = in.Amount.Neg()
		if err := ledger.CheckDestinationSufficient(goal.CurrentAmount, in.Amount); err != nil {
			return nil, err
		}
	} else if err := ledger.CheckSufficient(wallet.Balance, in.Amount); err != nil {
		return nil, err
	}

	draft := domain.NewTransaction(wallet.ID, in.CallerUserID, in.Amount, txType, in.Description)
	draft.SavingsGoalID = &goal.ID
	applied, err := s.store.Apply(ctx, &ledger.Entry{
		Legs: []ledger.WalletLeg{{WalletID: wallet.ID, Delta: walletDelta}},
		Destination: &ledger.DestinationDelta{
			Kind:   ledger.DestinationGoal,
			ID:     goal.ID,
			UserID: in.CallerUserID,
			Delta:  goalDelta,
		},
		Drafts: []*domain.Transaction{draft},
	})
	if err != nil {
		return nil, err
	}

	notifyCommitted(ctx, s.cache, s.publisher, in.CallerUserID, wallet.ID, draft)
	return &GoalMovementResult{
		Wallet:      applied.Wallet(wallet.ID),
		Goal:        applied.Goal,
		Transaction: draft,
	}, nil
}
