// internal/repository/emergencyfund_repo.go
package repository

import (
	"context"

	"thryv-wallet/internal/domain"

	"github.com/shopspring/decimal"
)

// EmergencyFundRepository defines the interface for emergency fund data
// operations. A user has at most one fund, so lookups key on the user.
type EmergencyFundRepository interface {
	CreateFund(ctx context.Context, q DBExecutor, fund *domain.EmergencyFund) error
	GetFundByUserID(ctx context.Context, q DBExecutor, userID int64) (*domain.EmergencyFund, error)
	// GetFundForUpdate locks the fund row for the surrounding transaction.
	GetFundForUpdate(ctx context.Context, q DBExecutor, userID int64) (*domain.EmergencyFund, error)
	// UpdateFundTarget changes the savings target, never the running total.
	UpdateFundTarget(ctx context.Context, q DBExecutor, userID int64, target decimal.Decimal) error
	// UpdateFundProgress sets the running total. Called only by the ledger
	// under the row lock taken by GetFundForUpdate.
	UpdateFundProgress(ctx context.Context, q DBExecutor, id int64, current decimal.Decimal) error
}
