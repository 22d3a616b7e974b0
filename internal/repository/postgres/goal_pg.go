// internal/repository/postgres/goal_pg.go
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
	"github.com/shopspring/decimal"
)

// SavingsGoalRepository implements repository.SavingsGoalRepository for PostgreSQL.
type SavingsGoalRepository struct{}

// NewSavingsGoalRepository creates a new SavingsGoalRepository.
func NewSavingsGoalRepository(db *sqlx.DB) repository.SavingsGoalRepository {
	return &SavingsGoalRepository{}
}

const goalColumns = `id, user_id, name, target_amount, current_amount, is_completed,
                     deadline, category, description, created_at, updated_at`

// CreateGoal inserts a new savings goal using the provided DBExecutor.
func (r *SavingsGoalRepository) CreateGoal(ctx context.Context, q repository.DBExecutor, goal *domain.SavingsGoal) error {
	query := `INSERT INTO savings_goals
              (user_id, name, target_amount, current_amount, is_completed, deadline, category, description, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		goal.UserID, goal.Name, goal.TargetAmount, goal.CurrentAmount, goal.IsCompleted,
		goal.Deadline, goal.Category, goal.Description, goal.CreatedAt, goal.UpdatedAt,
	).Scan(&goal.ID)
	if err != nil {
		return fmt.Errorf("failed to create savings goal: %w", err)
	}
	return nil
}

// GetGoalByID retrieves a goal scoped by owner; another user's goal reads as missing.
func (r *SavingsGoalRepository) GetGoalByID(ctx context.Context, q repository.DBExecutor, id, userID int64) (*domain.SavingsGoal, error) {
	var goal domain.SavingsGoal
	query := fmt.Sprintf(`SELECT %s FROM savings_goals WHERE id = $1 AND user_id = $2`, goalColumns)
	err := q.GetContext(ctx, &goal, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to get savings goal %d: %w", id, err)
	}
	return &goal, nil
}

// GetGoalForUpdate retrieves a goal and locks its row until the surrounding
// transaction ends, so the progress read is authoritative.
func (r *SavingsGoalRepository) GetGoalForUpdate(ctx context.Context, q repository.DBExecutor, id, userID int64) (*domain.SavingsGoal, error) {
	var goal domain.SavingsGoal
	query := fmt.Sprintf(`SELECT %s FROM savings_goals WHERE id = $1 AND user_id = $2 FOR UPDATE`, goalColumns)
	err := q.GetContext(ctx, &goal, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to lock savings goal %d: %w", id, err)
	}
	return &goal, nil
}

// ListGoalsByUserID retrieves all goals for a user, newest first.
func (r *SavingsGoalRepository) ListGoalsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.SavingsGoal, error) {
	goals := []domain.SavingsGoal{}
	query := fmt.Sprintf(`SELECT %s FROM savings_goals WHERE user_id = $1 ORDER BY created_at DESC`, goalColumns)
	if err := q.SelectContext(ctx, &goals, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list savings goals for user %d: %w", userID, err)
	}
	return goals, nil
}

// UpdateGoal updates goal metadata. Progress fields are owned by the ledger.
func (r *SavingsGoalRepository) UpdateGoal(ctx context.Context, q repository.DBExecutor, goal *domain.SavingsGoal) error {
	query := `UPDATE savings_goals
              SET name = $1, target_amount = $2, deadline = $3, category = $4, description = $5, updated_at = $6
              WHERE id = $7 AND user_id = $8`
	result, err := q.ExecContext(ctx, query,
		goal.Name, goal.TargetAmount, goal.Deadline, goal.Category, goal.Description,
		time.Now().UTC(), goal.ID, goal.UserID)
	if err != nil {
		return fmt.Errorf("failed to update savings goal %d: %w", goal.ID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return util.ErrGoalNotFound
	}
	return nil
}

// UpdateGoalProgress sets the running total and completion flag.
func (r *SavingsGoalRepository) UpdateGoalProgress(ctx context.Context, q repository.DBExecutor, id int64, current decimal.Decimal, completed bool) error {
	query := `UPDATE savings_goals SET current_amount = $1, is_completed = $2, updated_at = $3 WHERE id = $4`
	result, err := q.ExecContext(ctx, query, current, completed, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update progress for savings goal %d: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return util.ErrGoalNotFound
	}
	return nil
}

// DeleteGoal removes a goal. Callers must first verify no transactions
// reference it; the foreign key restricts deletion as a last line of defense.
func (r *SavingsGoalRepository) DeleteGoal(ctx context.Context, q repository.DBExecutor, id, userID int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete savings goal %d: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return util.ErrGoalNotFound
	}
	return nil
}
