// internal/repository/goal_repo.go
package repository

import (
	"context"

	"thryv-wallet/internal/domain"

	"github.com/shopspring/decimal"
)

// SavingsGoalRepository defines the interface for savings goal data operations.
// All reads are scoped by owner: a goal ID belonging to another user behaves
// exactly like a missing goal.
type SavingsGoalRepository interface {
	CreateGoal(ctx context.Context, q DBExecutor, goal *domain.SavingsGoal) error
	GetGoalByID(ctx context.Context, q DBExecutor, id, userID int64) (*domain.SavingsGoal, error)
	// GetGoalForUpdate locks the goal row for the surrounding transaction.
	GetGoalForUpdate(ctx context.Context, q DBExecutor, id, userID int64) (*domain.SavingsGoal, error)
	ListGoalsByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.SavingsGoal, error)
	// UpdateGoal changes goal metadata (name, target, deadline, ...), never progress.
	UpdateGoal(ctx context.Context, q DBExecutor, goal *domain.SavingsGoal) error
	// UpdateGoalProgress sets the running total and completion flag. Called
	// only by the ledger, under the row lock taken by GetGoalForUpdate.
	UpdateGoalProgress(ctx context.Context, q DBExecutor, id int64, current decimal.Decimal, completed bool) error
	DeleteGoal(ctx context.Context, q DBExecutor, id, userID int64) error
}
