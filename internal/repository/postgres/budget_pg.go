// internal/repository/postgres/budget_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"thryv-wallet/internal/domain"
	"thryv-wallet/internal/repository"
	"thryv-wallet/internal/util"

	"github.com/jmoiron/sqlx"
)

// BudgetRepository implements repository.BudgetRepository for PostgreSQL.
type BudgetRepository struct{}

// NewBudgetRepository creates a new BudgetRepository.
func NewBudgetRepository(db *sqlx.DB) repository.BudgetRepository {
	return &BudgetRepository{}
}

const budgetColumns = `id, user_id, name, amount, period, category, start_date, end_date, created_at, updated_at`

// CreateBudget inserts a new budget using the provided DBExecutor.
func (r *BudgetRepository) CreateBudget(ctx context.Context, q repository.DBExecutor, budget *domain.Budget) error {
	query := `INSERT INTO budgets
              (user_id, name, amount, period, category, start_date, end_date, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		budget.UserID, budget.Name, budget.Amount, budget.Period, budget.Category,
		budget.StartDate, budget.EndDate, budget.CreatedAt, budget.UpdatedAt,
	).Scan(&budget.ID)
	if err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

// GetBudgetByID retrieves a budget scoped by owner.
func (r *BudgetRepository) GetBudgetByID(ctx context.Context, q repository.DBExecutor, id, userID int64) (*domain.Budget, error) {
	var budget domain.Budget
	query := fmt.Sprintf(`SELECT %s FROM budgets WHERE id = $1 AND user_id = $2`, budgetColumns)
	err := q.GetContext(ctx, &budget, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget %d: %w", id, err)
	}
	return &budget, nil
}

// ListBudgetsByUserID retrieves all budgets for a user, newest first.
func (r *BudgetRepository) ListBudgetsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Budget, error) {
	budgets := []domain.Budget{}
	query := fmt.Sprintf(`SELECT %s FROM budgets WHERE user_id = $1 ORDER BY created_at DESC`, budgetColumns)
	if err := q.SelectContext(ctx, &budgets, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list budgets for user %d: %w", userID, err)
	}
	return budgets, nil
}

// UpdateBudget updates budget fields.
func (r *BudgetRepository) UpdateBudget(ctx context.Context, q repository.DBExecutor, budget *domain.Budget) error {
	query := `UPDATE budgets
              SET name = $1, amount = $2, period = $3, category = $4, start_date = $5, end_date = $6, updated_at = $7
              WHERE id = $8 AND user_id = $9`
	result, err := q.ExecContext(ctx, query,
		budget.Name, budget.Amount, budget.Period, budget.Category,
		budget.StartDate, budget.EndDate, time.Now().UTC(),
		budget.ID, budget.UserID)
	if err != nil {
		return fmt.Errorf("failed to update budget %d: %w", budget.ID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return util.ErrBudgetNotFound
	}
	return nil
}

// DeleteBudget removes a budget. Callers must first verify no transactions
// reference it.
func (r *BudgetRepository) DeleteBudget(ctx context.Context, q repository.DBExecutor, id, userID int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete budget %d: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return util.ErrBudgetNotFound
	}
	return nil
}
