// internal/service/investment_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"thryv-wallet/internal/cache"
	"thryv-wallet/internal/domain"
	"thryv-wallet/internal/events"
	"thryv-wallet/internal/ledger"
	"thryv-wallet/internal/repository"
	"thryv-wallet/internal/util"

	"github.com/shopspring/decimal"
)

// CreateInvestmentInput opens a new position funded from the caller's
// wallet. The amount seeds both initial and current value.
type CreateInvestmentInput struct {
	CallerUserID int64
	Name         string
	Type         string
	Amount       decimal.Decimal
	RiskLevel    string
	TargetReturn *decimal.Decimal
	Description  *string
}

// UpdateInvestmentInput changes investment metadata. Nil fields keep their
// value; amounts are ledger-owned and cannot be set here.
type UpdateInvestmentInput struct {
	CallerUserID int64
	InvestmentID int64
	Name         *string
	Type         *string
	RiskLevel    *string
	TargetReturn *decimal.Decimal
	Status       *domain.InvestmentStatus
	Description  *string
}

// InvestmentMovementInput describes funding or withdrawing an existing
// position.
type InvestmentMovementInput struct {
	CallerUserID int64
	InvestmentID int64
	Amount       decimal.Decimal
	Description  string
}

// InvestmentMovementResult carries the state committed by one movement.
type InvestmentMovementResult struct {
	Wallet      *domain.Wallet
	Investment  *domain.Investment
	Transaction *domain.Transaction
}

// InvestmentService defines investment lifecycle and funding operations.
type InvestmentService interface {
	CreateInvestment(ctx context.Context, in CreateInvestmentInput) (*InvestmentMovementResult, error)
	GetInvestment(ctx context.Context, callerUserID, investmentID int64) (*domain.Investment, error)
	ListInvestments(ctx context.Context, callerUserID int64) ([]domain.Investment, error)
	UpdateInvestment(ctx context.Context, in UpdateInvestmentInput) (*domain.Investment, error)
	DeleteInvestment(ctx context.Context, callerUserID, investmentID int64) error
	FundInvestment(ctx context.Context, in InvestmentMovementInput) (*InvestmentMovementResult, error)
	WithdrawFromInvestment(ctx context.Context, in InvestmentMovementInput) (*InvestmentMovementResult, error)
}

type investmentService struct {
	dbase        Database
	wallets      repository.WalletRepository
	transactions repository.TransactionRepository
	investments  repository.InvestmentRepository
	store        *ledger.Store
	cache        *cache.Cache
	publisher    events.Publisher
	logger       *slog.Logger
}

func NewInvestmentService(
	dbase Database,
	wallets repository.WalletRepository,
	transactions repository.TransactionRepository,
	investments repository.InvestmentRepository,
	store *ledger.Store,
	c *cache.Cache,
	publisher events.Publisher,
	logger *slog.Logger,
) InvestmentService {
	return &investmentService{
		dbase:        dbase,
		wallets:      wallets,
		transactions: transactions,
		investments:  investments,
		store:        store,
		cache:        c,
		publisher:    publisher,
		logger:       logger,
	}
}

// CreateInvestment debits the wallet and opens the position in the same
// atomic unit. A wallet without cover leaves no investment row behind.
func (s *investmentService) CreateInvestment(ctx context.Context, in CreateInvestmentInput) (*InvestmentMovementResult, error) {
	if in.Name == "" || in.Type == "" {
		return nil, fmt.Errorf("investment name and type are required: %w", util.ErrInvalidInput)
	}
	if err := ledger.CheckAmount(in.Amount); err != nil {
		return nil, err
	}

	wallet, err := s.wallets.GetWalletByUserID(ctx, s.dbase, in.CallerUserID)
	if err != nil {
		return nil, err
	}
	if err := ledger.CheckSufficient(wallet.Balance, in.Amount); err != nil {
		return nil, err
	}

	investment := domain.NewInvestment(in.CallerUserID, in.Name, in.Type, in.Amount)
	if in.RiskLevel != "" {
		investment.RiskLevel = in.RiskLevel
	}
	investment.TargetReturn = in.TargetReturn
	investment.Description = in.Description

	draft := domain.NewTransaction(wallet.ID, in.CallerUserID, in.Amount, domain.TransactionTypeInvestment,
		fmt.Sprintf("Investment in %s", in.Name))
	applied, err := s.store.Apply(ctx, &ledger.Entry{
		Legs: []ledger.WalletLeg{{WalletID: wallet.ID, Delta: in.Amount.Neg()}},
		Destination: &ledger.DestinationDelta{
			Kind:          ledger.DestinationInvestment,
			UserID:        in.CallerUserID,
			Delta:         in.Amount,
			NewInvestment: investment,
		},
		Drafts: []*domain.Transaction{draft},
	})
	if err != nil {
		return nil, err
	}

	notifyCommitted(ctx, s.cache, s.publisher, in.CallerUserID, wallet.ID, draft)
	return &InvestmentMovementResult{
		Wallet:      applied.Wallet(wallet.ID),
		Investment:  applied.Investment,
		Transaction: draft,
	}, nil
}

func (s *investmentService) GetInvestment(ctx context.Context, callerUserID, investmentID int64) (*domain.Investment, error) {
	return s.investments.GetInvestmentByID(ctx, s.dbase, investmentID, callerUserID)
}

func (s *investmentService) ListInvestments(ctx context.Context, callerUserID int64) ([]domain.Investment, error) {
	return s.investments.ListInvestmentsByUserID(ctx, s.dbase, callerUserID)
}

func (s *investmentService) UpdateInvestment(ctx context.Context, in UpdateInvestmentInput) (*domain.Investment, error) {
	investment, err := s.investments.GetInvestmentByID(ctx, s.dbase, in.InvestmentID, in.CallerUserID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		investment.Name = *in.Name
	}
	if in.Type != nil {
		investment.Type = *in.Type
	}
	if in.RiskLevel != nil {
		investment.RiskLevel = *in.RiskLevel
	}
	if in.TargetReturn != nil {
		investment.TargetReturn = in.TargetReturn
	}
	if in.Status != nil {
		investment.Status = *in.Status
	}
	if in.Description != nil {
		investment.Description = in.Description
	}
	if err := s.investments.UpdateInvestment(ctx, s.dbase, investment); err != nil {
		return nil, fmt.Errorf("failed to update investment: %w", err)
	}
	return investment, nil
}

// DeleteInvestment removes a position with no transaction history.
func (s *investmentService) DeleteInvestment(ctx context.Context, callerUserID, investmentID int64) error {
	if _, err := s.investments.GetInvestmentByID(ctx, s.dbase, investmentID, callerUserID); err != nil {
		return err
	}
	count, err := s.transactions.CountByInvestmentID(ctx, s.dbase, investmentID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("investment %d has %d linked transactions: %w", investmentID, count, util.ErrHasTransactions)
	}
	return s.investments.DeleteInvestment(ctx, s.dbase, investmentID, callerUserID)
}

// FundInvestment adds capital to an open position. Both initial and current
// value rise, so return-on-investment stays measured against paid-in capital.
func (s *investmentService) FundInvestment(ctx context.Context, in InvestmentMovementInput) (*InvestmentMovementResult, error) {
	return s.move(ctx, in, domain.TransactionTypeInvestment)
}

// WithdrawFromInvestment releases part of the current value back to the
// wallet. The initial amount is untouched.
func (s *investmentService) WithdrawFromInvestment(ctx context.Context, in InvestmentMovementInput) (*InvestmentMovementResult, error) {
	return s.move(ctx, in, domain.TransactionTypeInvestmentWithdrawal)
}

func (s *investmentService) move(ctx context.Context, in InvestmentMovementInput, txType domain.TransactionType) (*InvestmentMovementResult, error) {
	if err := ledger.CheckAmount(in.Amount); err != nil {
		return nil, err
	}

	wallet, err := s.wallets.GetWalletByUserID(ctx, s.dbase, in.CallerUserID)
	if err != nil {
		return nil, err
	}
	investment, err := s.investments.GetInvestmentByID(ctx, s.dbase, in.InvestmentID, in.CallerUserID)
	if err != nil {
		return nil, err
	}

	walletDelta := in.Amount.Neg()
	investmentDelta := in.Amount
	raiseInitial := true
	if txType == domain.TransactionTypeInvestmentWithdrawal {
		walletDelta = in.Amount
		investmentDelta = in.Amount.Neg()
		raiseInitial = false
		if err := ledger.CheckDestinationSufficient(investment.CurrentAmount, in.Amount); err != nil {
			return nil, err
		}
	} else if err := ledger.CheckSufficient(wallet.Balance, in.Amount); err != nil {
		return nil, err
	}

	draft := domain.NewTransaction(wallet.ID, in.CallerUserID, in.Amount, txType, in.Description)
	draft.InvestmentID = &investment.ID
	applied, err := s.store.Apply(ctx, &ledger.Entry{
		Legs: []ledger.WalletLeg{{WalletID: wallet.ID, Delta: walletDelta}},
		Destination: &ledger.DestinationDelta{
			Kind:         ledger.DestinationInvestment,
			ID:           investment.ID,
			UserID:       in.CallerUserID,
			Delta:        investmentDelta,
			RaiseInitial: raiseInitial,
		},
		Drafts: []*domain.Transaction{draft},
	})
	if err != nil {
		return nil, err
	}

	notifyCommitted(ctx, s.cache, s.publisher, in.CallerUserID, wallet.ID, draft)
	return &InvestmentMovementResult{
		Wallet:      applied.Wallet(wallet.ID),
		Investment:  applied.Investment,
		Transaction: draft,
	}, nil
}
