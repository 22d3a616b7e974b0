// internal/repository/postgres/investment_pg.go
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

// InvestmentRepository implements repository.InvestmentRepository for PostgreSQL.
type InvestmentRepository struct{}

// NewInvestmentRepository creates a new InvestmentRepository.
func NewInvestmentRepository(db *sqlx.DB) repository.InvestmentRepository {
	return &InvestmentRepository{}
}

const investmentColumns = `id, user_id, name, type, initial_amount, current_amount,
                           risk_level, target_return, status, description, created_at, updated_at`

// CreateInvestment inserts a new investment using the provided DBExecutor.
func (r *InvestmentRepository) CreateInvestment(ctx context.Context, q repository.DBExecutor, investment *domain.Investment) error {
	query := `INSERT INTO investments
              (user_id, name, type, initial_amount, current_amount, risk_level, target_return, status, description, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		investment.UserID, investment.Name, investment.Type,
		investment.InitialAmount, investment.CurrentAmount,
		investment.RiskLevel, investment.TargetReturn, investment.Status,
		investment.Description, investment.CreatedAt, investment.UpdatedAt,
	).Scan(&investment.ID)
	if err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}
	return nil
}

// GetInvestmentByID retrieves an investment scoped by owner.
func (r *InvestmentRepository) GetInvestmentByID(ctx context.Context, q repository.DBExecutor, id, userID int64) (*domain.Investment, error) {
	var investment domain.Investment
	query := fmt.Sprintf(`SELECT %s FROM investments WHERE id = $1 AND user_id = $2`, investmentColumns)
	err := q.GetContext(ctx, &investment, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrInvestmentNotFound
		}
		return nil, fmt.Errorf("failed to get investment %d: %w", id, err)
	}
	return &investment, nil
}

// GetInvestmentForUpdate retrieves an investment and locks its row until the
// surrounding transaction ends.
func (r *InvestmentRepository) GetInvestmentForUpdate(ctx context.Context, q repository.DBExecutor, id, userID int64) (*domain.Investment, error) {
	var investment domain.Investment
	query := fmt.Sprintf(`SELECT %s FROM investments WHERE id = $1 AND user_id = $2 FOR UPDATE`, investmentColumns)
	err := q.GetContext(ctx, &investment, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrInvestmentNotFound
		}
		return nil, fmt.Errorf("failed to lock investment %d: %w", id, err)
	}
	return &investment, nil
}

// ListInvestmentsByUserID retrieves all investments for a user, newest first.
func (r *InvestmentRepository) ListInvestmentsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Investment, error) {
	investments := []domain.Investment{}
	query := fmt.Sprintf(`SELECT %s FROM investments WHERE user_id = $1 ORDER BY created_at DESC`, investmentColumns)
	if err := q.SelectContext(ctx, &investments, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list investments for user %d: %w", userID, err)
	}
	return investments, nil
}

// UpdateInvestment updates metadata. Amount fields are owned by the ledger.
func (r *InvestmentRepository) UpdateInvestment(ctx context.Context, q repository.DBExecutor, investment *domain.Investment) error {
	query := `UPDATE investments
              SET name = $1, risk_level = $2, target_return = $3, status = $4, description = $5, updated_at = $6
              WHERE id = $7 AND user_id = $8`
	result, err := q.ExecContext(ctx, query,
		investment.Name, investment.RiskLevel, investment.TargetReturn,
		investment.Status, investment.Description, time.Now().UTC(),
		investment.ID, investment.UserID)
	if err != nil {
		return fmt.Errorf("failed to update investment %d: %w", investment.ID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return util.ErrInvestmentNotFound
	}
	return nil
}

// UpdateInvestmentAmounts sets both running totals under the row lock.
func (r *InvestmentRepository) UpdateInvestmentAmounts(ctx context.Context, q repository.DBExecutor, id int64, initial, current decimal.Decimal) error {
	query := `UPDATE investments SET initial_amount = $1, current_amount = $2, updated_at = $3 WHERE id = $4`
	result, err := q.ExecContext(ctx, query, initial, current, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update amounts for investment %d: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return util.ErrInvestmentNotFound
	}
	return nil
}

// DeleteInvestment removes an investment. Callers must first verify no
// transactions reference it.
func (r *InvestmentRepository) DeleteInvestment(ctx context.Context, q repository.DBExecutor, id, userID int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM investments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete investment %d: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return util.ErrInvestmentNotFound
	}
	return nil
}
