// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"fmt"

	"thryv-wallet/internal/domain"
	"thryv-wallet/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// TransactionRepository implements repository.TransactionRepository for
// PostgreSQL. The table is append-only: this type deliberately has no
// UPDATE or DELETE statements.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction appends a transaction row using the provided DBExecutor.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions
              (wallet_id, user_id, amount, type, category, description, status, outgoing,
               transfer_group_id, budget_id, investment_id, savings_goal_id, emergency_fund_id, date, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		transaction.WalletID,
		transaction.UserID,
		transaction.Amount,
		transaction.Type,
		transaction.Category,
		transaction.Description,
		transaction.Status,
		transaction.Outgoing,
		transaction.TransferGroupID,
		transaction.BudgetID,
		transaction.InvestmentID,
		transaction.SavingsGoalID,
		transaction.EmergencyFundID,
		transaction.Date,
		transaction.CreatedAt,
	).Scan(&transaction.ID)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransactionsByWalletID retrieves paginated history for a wallet, newest
// first, optionally narrowed by type, together with the total matching count.
func (r *TransactionRepository) GetTransactionsByWalletID(ctx context.Context, q repository.DBExecutor, walletID int64, filter repository.TransactionFilter) ([]domain.Transaction, int64, error) {
	transactions := []domain.Transaction{}

	where := `WHERE wallet_id = $1`
	args := []interface{}{walletID}
	if filter.Type != nil {
		where += ` AND type = $2`
		args = append(args, *filter.Type)
	}

	query := fmt.Sprintf(`
		SELECT id, wallet_id, user_id, amount, type, category, description, status, outgoing,
		       transfer_group_id, budget_id, investment_id, savings_goal_id, emergency_fund_id, date, created_at
		FROM transactions
		%s
		ORDER BY date DESC, id DESC
		LIMIT %d OFFSET %d`, where, filter.Limit, filter.Offset)
	if err := q.SelectContext(ctx, &transactions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions for wallet %d: %w", walletID, err)
	}

	var totalCount int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM transactions %s`, where)
	if err := q.GetContext(ctx, &totalCount, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions for wallet %d: %w", walletID, err)
	}

	return transactions, totalCount, nil
}

// SumSignedByWalletID computes the wallet balance from the log alone. Credit
// types and incoming transfer legs count positive, everything else negative.
func (r *TransactionRepository) SumSignedByWalletID(ctx context.Context, q repository.DBExecutor, walletID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `
		SELECT COALESCE(SUM(
			CASE
				WHEN type = 'transfer' AND NOT outgoing THEN amount
				WHEN type IN ('deposit', 'savings_withdrawal', 'investment_withdrawal', 'emergency_fund_withdrawal') THEN amount
				ELSE -amount
			END), 0)
		FROM transactions
		WHERE wallet_id = $1 AND status = 'completed'`
	if err := q.GetContext(ctx, &sum, query, walletID); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions for wallet %d: %w", walletID, err)
	}
	return sum, nil
}

// CountByGoalID reports how many transactions reference a savings goal.
func (r *TransactionRepository) CountByGoalID(ctx context.Context, q repository.DBExecutor, goalID int64) (int64, error) {
	return r.countByColumn(ctx, q, "savings_goal_id", goalID)
}

// CountByInvestmentID reports how many transactions reference an investment.
func (r *TransactionRepository) CountByInvestmentID(ctx context.Context, q repository.DBExecutor, investmentID int64) (int64, error) {
	return r.countByColumn(ctx, q, "investment_id", investmentID)
}

// CountByBudgetID reports how many transactions reference a budget.
func (r *TransactionRepository) CountByBudgetID(ctx context.Context, q repository.DBExecutor, budgetID int64) (int64, error) {
	return r.countByColumn(ctx, q, "budget_id", budgetID)
}

func (r *TransactionRepository) countByColumn(ctx context.Context, q repository.DBExecutor, column string, id int64) (int64, error) {
	var count int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM transactions WHERE %s = $1`, column)
	if err := q.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("failed to count transactions by %s %d: %w", column, id, err)
	}
	return count, nil
}

// SumByBudgetID returns the total spend recorded against a budget.
func (r *TransactionRepository) SumByBudgetID(ctx context.Context, q repository.DBExecutor, budgetID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions
              WHERE budget_id = $1 AND type = 'budget_payment' AND status = 'completed'`
	if err := q.GetContext(ctx, &sum, query, budgetID); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum spend for budget %d: %w", budgetID, err)
	}
	return sum, nil
}
