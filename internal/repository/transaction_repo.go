// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"thryv-wallet/internal/domain"

	"github.com/shopspring/decimal"
)

// TransactionFilter narrows transaction history queries.
type TransactionFilter struct {
	Type   *domain.TransactionType // Optional type filter
	Limit  int
	Offset int
}

// TransactionRepository defines the interface for the append-only
// transaction log. There are intentionally no update or delete operations:
// completed rows are immutable and corrections are new offsetting rows.
type TransactionRepository interface {
	// CreateTransaction appends a transaction row using the provided DBExecutor.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetTransactionsByWalletID retrieves paginated history for a wallet,
	// newest first, along with the total matching count.
	GetTransactionsByWalletID(ctx context.Context, q DBExecutor, walletID int64, filter TransactionFilter) ([]domain.Transaction, int64, error)
	// SumSignedByWalletID returns the sum of signed amounts for a wallet.
	// The result must always equal the wallet balance.
	SumSignedByWalletID(ctx context.Context, q DBExecutor, walletID int64) (decimal.Decimal, error)
	// CountByGoalID, CountByInvestmentID and CountByBudgetID report how many
	// transactions reference a destination entity. Destinations with linked
	// history may not be deleted.
	CountByGoalID(ctx context.Context, q DBExecutor, goalID int64) (int64, error)
	CountByInvestmentID(ctx context.Context, q DBExecutor, investmentID int64) (int64, error)
	CountByBudgetID(ctx context.Context, q DBExecutor, budgetID int64) (int64, error)
	// SumByBudgetID returns total spend recorded against a budget. Budgets
	// hold no balance; this derived figure is their only running total.
	SumByBudgetID(ctx context.Context, q DBExecutor, budgetID int64) (decimal.Decimal, error)
}
