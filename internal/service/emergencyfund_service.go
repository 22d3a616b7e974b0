// internal/service/emergencyfund_service.go
package service

import (
	"context"
	"log/slog"

	"thryv-wallet/internal/cache"
	"thryv-wallet/internal/domain"
	"thryv-wallet/internal/events"
	"thryv-wallet/internal/ledger"
	"thryv-wallet/internal/repository"

	"github.com/shopspring/decimal"
)

// FundMovementInput describes a contribution to or withdrawal from the
// caller's emergency fund.
type FundMovementInput struct {
	CallerUserID int64
	Amount       decimal.Decimal
	Description  string
}

// FundMovementResult carries the state committed by one fund movement.
type FundMovementResult struct {
	Wallet      *domain.Wallet
	Fund        *domain.EmergencyFund
	Transaction *domain.Transaction
}

// EmergencyFundService defines the one-per-user emergency fund operations.
type EmergencyFundService interface {
	CreateFund(ctx context.Context, callerUserID int64, target decimal.Decimal) (*domain.EmergencyFund, error)
	GetFund(ctx context.Context, callerUserID int64) (*domain.EmergencyFund, error)
	UpdateFundTarget(ctx context.Context, callerUserID int64, target decimal.Decimal) (*domain.EmergencyFund, error)
	ContributeToFund(ctx context.Context, in FundMovementInput) (*FundMovementResult, error)
	WithdrawFromFund(ctx context.Context, in FundMovementInput) (*FundMovementResult, error)
}

type emergencyFundService struct {
	dbase     Database
	wallets   repository.WalletRepository
	funds     repository.EmergencyFundRepository
	store     *ledger.Store
	cache     *cache.Cache
	publisher events.Publisher
	logger    *slog.Logger
}

func NewEmergencyFundService(
	dbase Database,
	wallets repository.WalletRepository,
	funds repository.EmergencyFundRepository,
	store *ledger.Store,
	c *cache.Cache,
	publisher events.Publisher,
	logger *slog.Logger,
) EmergencyFundService {
	return &emergencyFundService{
		dbase:     dbase,
		wallets:   wallets,
		funds:     funds,
		store:     store,
		cache:     c,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateFund sets up the caller's emergency fund. A second create for the
// same user fails with ErrFundExists via the unique constraint.
func (s *emergencyFundService) CreateFund(ctx context.Context, callerUserID int64, target decimal.Decimal) (*domain.EmergencyFund, error) {
	if err := ledger.CheckAmount(target); err != nil {
		return nil, err
	}
	fund := domain.NewEmergencyFund(callerUserID, target)
	if err := s.funds.CreateFund(ctx, s.dbase, fund); err != nil {
		return nil, err
	}
	s.logger.Info("emergency fund created", "fund_id", fund.ID, "user_id", callerUserID)
	return fund, nil
}

func (s *emergencyFundService) GetFund(ctx context.Context, callerUserID int64) (*domain.EmergencyFund, error) {
	return s.funds.GetFundByUserID(ctx, s.dbase, callerUserID)
}

func (s *emergencyFundService) UpdateFundTarget(ctx context.Context, callerUserID int64, target decimal.Decimal) (*domain.EmergencyFund, error) {
	if err := ledger.CheckAmount(target); err != nil {
		return nil, err
	}
	if err := s.funds.UpdateFundTarget(ctx, s.dbase, callerUserID, target); err != nil {
		return nil, err
	}
	return s.funds.GetFundByUserID(ctx, s.dbase, callerUserID)
}

func (s *emergencyFundService) ContributeToFund(ctx context.Context, in FundMovementInput) (*FundMovementResult, error) {
	return s.move(ctx, in, domain.TransactionTypeEmergencyFundContribution)
}

func (s *emergencyFundService) WithdrawFromFund(ctx context.Context, in FundMovementInput) (*FundMovementResult, error) {
	return s.move(ctx, in, domain.TransactionTypeEmergencyFundWithdrawal)
}

func (s *emergencyFundService) move(ctx context.Context, in FundMovementInput, txType domain.TransactionType) (*FundMovementResult, error) {
	if err := ledger.CheckAmount(in.Amount); err != nil {
		return nil, err
	}

	wallet, err := s.wallets.GetWalletByUserID(ctx, s.dbase, in.CallerUserID)
	if err != nil {
		return nil, err
	}
	fund, err := s.funds.GetFundByUserID(ctx, s.dbase, in.CallerUserID)
	if err != nil {
		return nil, err
	}

	walletDelta := in.Amount.Neg()
	fundDelta := in.Amount
	if txType == domain.TransactionTypeEmergencyFundWithdrawal {
		walletDelta = in.Amount
		fundDelta = in.Amount.Neg()
		if err := ledger.CheckDestinationSufficient(fund.CurrentAmount, in.Amount); err != nil {
			return nil, err
		}
	} else if err := ledger.CheckSufficient(wallet.Balance, in.Amount); err != nil {
		return nil, err
	}

	draft := domain.NewTransaction(wallet.ID, in.CallerUserID, in.Amount, txType, in.Description)
	draft.EmergencyFundID = &fund.ID
	applied, err := s.store.Apply(ctx, &ledger.Entry{
		Legs: []ledger.WalletLeg{{WalletID: wallet.ID, Delta: walletDelta}},
		Destination: &ledger.DestinationDelta{
			Kind:   ledger.DestinationFund,
			ID:     fund.ID,
			UserID: in.CallerUserID,
			Delta:  fundDelta,
		},
		Drafts: []*domain.Transaction{draft},
	})
	if err != nil {
		return nil, err
	}

	notifyCommitted(ctx, s.cache, s.publisher, in.CallerUserID, wallet.ID, draft)
	return &FundMovementResult{
		Wallet:      applied.Wallet(wallet.ID),
		Fund:        applied.Fund,
		Transaction: draft,
	}, nil
}
