// internal/repository/investment_repo.go
package repository

import (
	"context"

	"thryv-wallet/internal/domain"

	"github.com/shopspring/decimal"
)

// InvestmentRepository defines the interface for investment data operations.
// Reads are scoped by owner, same as savings goals.
type InvestmentRepository interface {
	CreateInvestment(ctx context.Context, q DBExecutor, investment *domain.Investment) error
	GetInvestmentByID(ctx context.Context, q DBExecutor, id, userID int64) (*domain.Investment, error)
	// GetInvestmentForUpdate locks the investment row for the surrounding transaction.
	GetInvestmentForUpdate(ctx context.Context, q DBExecutor, id, userID int64) (*domain.Investment, error)
	ListInvestmentsByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.Investment, error)
	// UpdateInvestment changes metadata (name, risk level, status, ...), never amounts.
	UpdateInvestment(ctx context.Context, q DBExecutor, investment *domain.Investment) error
	// UpdateInvestmentAmounts sets both running totals. Called only by the
	// ledger under the row lock taken by GetInvestmentForUpdate.
	UpdateInvestmentAmounts(ctx context.Context, q DBExecutor, id int64, initial, current decimal.Decimal) error
	DeleteInvestment(ctx context.Context, q DBExecutor, id, userID int64) error
}
