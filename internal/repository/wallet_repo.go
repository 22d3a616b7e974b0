// internal/repository/wallet_repo.go
package repository

import (
	"context"

	"thryv-wallet/internal/domain"

	"github.com/shopspring/decimal"
)

// WalletRepository defines the interface for wallet data operations.
type WalletRepository interface {
	// CreateWallet adds a new wallet using the provided DBExecutor.
	CreateWallet(ctx context.Context, q DBExecutor, wallet *domain.Wallet) error
	// GetWalletByID retrieves a wallet by its ID.
	GetWalletByID(ctx context.Context, q DBExecutor, id int64) (*domain.Wallet, error)
	// GetWalletByUserID retrieves the single wallet owned by a user.
	GetWalletByUserID(ctx context.Context, q DBExecutor, userID int64) (*domain.Wallet, error)
	// GetWalletForUpdate retrieves a wallet by ID and locks its row for the
	// duration of the surrounding transaction (SELECT ... FOR UPDATE).
	// Must be called with a transactional executor.
	GetWalletForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Wallet, error)
	// ApplyBalanceDelta adds the signed delta to the wallet balance. The
	// update is guarded so the resulting balance cannot go negative; a
	// guarded miss is reported as zero rows affected.
	ApplyBalanceDelta(ctx context.Context, q DBExecutor, walletID int64, delta decimal.Decimal) error
}
