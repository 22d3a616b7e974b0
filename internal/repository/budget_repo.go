// internal/repository/budget_repo.go
package repository

import (
	"context"

	"thryv-wallet/internal/domain"
)

// BudgetRepository defines the interface for budget data operations.
// Budgets carry no running total, so there is no progress mutator here;
// spend is derived from the transaction log.
type BudgetRepository interface {
	CreateBudget(ctx context.Context, q DBExecutor, budget *domain.Budget) error
	GetBudgetByID(ctx context.Context, q DBExecutor, id, userID int64) (*domain.Budget, error)
	ListBudgetsByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.Budget, error)
	UpdateBudget(ctx context.Context, q DBExecutor, budget *domain.Budget) error
	DeleteBudget(ctx context.Context, q DBExecutor, id, userID int64) error
}
