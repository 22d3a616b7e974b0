// internal/repository/postgres/emergencyfund_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"thryv-wallet/internal/domain"
	"thryv-wallet/internal/repository"
	"thryv-wallet/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// EmergencyFundRepository implements repository.EmergencyFundRepository for PostgreSQL.
type EmergencyFundRepository struct{}

// NewEmergencyFundRepository creates a new EmergencyFundRepository.
func NewEmergencyFundRepository(db *sqlx.DB) repository.EmergencyFundRepository {
	return &EmergencyFundRepository{}
}

const fundColumns = `id, user_id, target_amount, current_amount, created_at, updated_at`

// CreateFund inserts the user's emergency fund. The user_id unique
// constraint enforces one fund per user.
func (r *EmergencyFundRepository) CreateFund(ctx context.Context, q repository.DBExecutor, fund *domain.EmergencyFund) error {
	query := `INSERT INTO emergency_funds (user_id, target_amount, current_amount, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		fund.UserID, fund.TargetAmount, fund.CurrentAmount, fund.CreatedAt, fund.UpdatedAt,
	).Scan(&fund.ID)
	if err != nil {
		if strings.Contains(err.Error(), "unique") {
			return util.ErrFundExists
		}
		return fmt.Errorf("failed to create emergency fund: %w", err)
	}
	return nil
}

// GetFundByUserID retrieves the user's fund.
func (r *EmergencyFundRepository) GetFundByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.EmergencyFund, error) {
	var fund domain.EmergencyFund
	query := fmt.Sprintf(`SELECT %s FROM emergency_funds WHERE user_id = $1`, fundColumns)
	err := q.GetContext(ctx, &fund, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrFundNotFound
		}
		return nil, fmt.Errorf("failed to get emergency fund for user %d: %w", userID, err)
	}
	return &fund, nil
}

// GetFundForUpdate retrieves the user's fund and locks its row until the
// surrounding transaction ends.
func (r *EmergencyFundRepository) GetFundForUpdate(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.EmergencyFund, error) {
	var fund domain.EmergencyFund
	query := fmt.Sprintf(`SELECT %s FROM emergency_funds WHERE user_id = $1 FOR UPDATE`, fundColumns)
	err := q.GetContext(ctx, &fund, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrFundNotFound
		}
		return nil, fmt.Errorf("failed to lock emergency fund for user %d: %w", userID, err)
	}
	return &fund, nil
}

// UpdateFundTarget changes the savings target.
func (r *EmergencyFundRepository) UpdateFundTarget(ctx context.Context, q repository.DBExecutor, userID int64, target decimal.Decimal) error {
	result, err := q.ExecContext(ctx,
		`UPDATE emergency_funds SET target_amount = $1, updated_at = $2 WHERE user_id = $3`,
		target, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update emergency fund target for user %d: %w", userID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return util.ErrFundNotFound
	}
	return nil
}

// UpdateFundProgress sets the running total under the row lock.
func (r *EmergencyFundRepository) UpdateFundProgress(ctx context.Context, q repository.DBExecutor, id int64, current decimal.Decimal) error {
	result, err := q.ExecContext(ctx,
		`UPDATE emergency_funds SET current_amount = $1, updated_at = $2 WHERE id = $3`,
		current, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update emergency fund progress %d: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return util.ErrFundNotFound
	}
	return nil
}
