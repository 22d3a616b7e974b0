// internal/service/budget_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"thryv-wallet/internal/cache"
	"thryv-wallet/internal/domain"
	"thryv-wallet/internal/events"
	"thryv-wallet/internal/ledger"
	"thryv-wallet/internal/repository"
	"thryv-wallet/internal/util"

	"github.com/shopspring/decimal"
)

// CreateBudgetInput describes a new spending budget. Budgets carry no
// balance; the cap is advisory and spend is derived from the transaction log.
type CreateBudgetInput struct {
	CallerUserID int64
	Name         string
	Amount       decimal.Decimal
	Period       string
	Category     string
	StartDate    time.Time
	EndDate      *time.Time
}

// UpdateBudgetInput changes budget fields. Nil fields keep their value.
type UpdateBudgetInput struct {
	CallerUserID int64
	BudgetID     int64
	Name         *string
	Amount       *decimal.Decimal
	Period       *string
	Category     *string
	StartDate    *time.Time
	EndDate      *time.Time
}

// BudgetPaymentInput describes a wallet payment recorded against a budget.
type BudgetPaymentInput struct {
	CallerUserID int64
	BudgetID     int64
	Amount       decimal.Decimal
	Category     *string
	Description  string
}

// BudgetWithSpend pairs a budget with its derived spend total.
type BudgetWithSpend struct {
	Budget *domain.Budget
	Spent  decimal.Decimal
}

// BudgetPaymentResult carries the state committed by one budget payment.
type BudgetPaymentResult struct {
	Wallet      *domain.Wallet
	Transaction *domain.Transaction
	Spent       decimal.Decimal
}

// BudgetService defines budget lifecycle and spend operations.
type BudgetService interface {
	CreateBudget(ctx context.Context, in CreateBudgetInput) (*domain.Budget, error)
	GetBudget(ctx context.Context, callerUserID, budgetID int64) (*BudgetWithSpend, error)
	ListBudgets(ctx context.Context, callerUserID int64) ([]BudgetWithSpend, error)
	UpdateBudget(ctx context.Context, in UpdateBudgetInput) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, callerUserID, budgetID int64) error
	PayFromBudget(ctx context.Context, in BudgetPaymentInput) (*BudgetPaymentResult, error)
}

type budgetService struct {
	dbase        Database
	wallets      repository.WalletRepository
	transactions repository.TransactionRepository
	budgets      repository.BudgetRepository
	store        *ledger.Store
	cache        *cache.Cache
	publisher    events.Publisher
	logger       *slog.Logger
}

func NewBudgetService(
	dbase Database,
	wallets repository.WalletRepository,
	transactions repository.TransactionRepository,
	budgets repository.BudgetRepository,
	store *ledger.Store,
	c *cache.Cache,
	publisher events.Publisher,
	logger *slog.Logger,
) BudgetService {
	return &budgetService{
		dbase:        dbase,
		wallets:      wallets,
		transactions: transactions,
		budgets:      budgets,
		store:        store,
		cache:        c,
		publisher:    publisher,
		logger:       logger,
	}
}

func (s *budgetService) CreateBudget(ctx context.Context, in CreateBudgetInput) (*domain.Budget, error) {
	if in.Name == "" || in.Period == "" || in.Category == "" {
		return nil, fmt.Errorf("budget name, period and category are required: %w", util.ErrInvalidInput)
	}
	if err := ledger.CheckAmount(in.Amount); err != nil {
		return nil, err
	}

	budget := domain.NewBudget(in.CallerUserID, in.Name, in.Period, in.Category, in.Amount)
	if !in.StartDate.IsZero() {
		budget.StartDate = in.StartDate
	}
	budget.EndDate = in.EndDate
	if err := s.budgets.CreateBudget(ctx, s.dbase, budget); err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}
	s.logger.Info("budget created", "budget_id", budget.ID, "user_id", in.CallerUserID)
	return budget, nil
}

func (s *budgetService) GetBudget(ctx context.Context, callerUserID, budgetID int64) (*BudgetWithSpend, error) {
	budget, err := s.budgets.GetBudgetByID(ctx, s.dbase, budgetID, callerUserID)
	if err != nil {
		return nil, err
	}
	spent, err := s.transactions.SumByBudgetID(ctx, s.dbase, budget.ID)
	if err != nil {
		return nil, err
	}
	return &BudgetWithSpend{Budget: budget, Spent: spent}, nil
}

func (s *budgetService) ListBudgets(ctx context.Context, callerUserID int64) ([]BudgetWithSpend, error) {
	budgets, err := s.budgets.ListBudgetsByUserID(ctx, s.dbase, callerUserID)
	if err != nil {
		return nil, err
	}
	out := make([]BudgetWithSpend, 0, len(budgets))
	for i := range budgets {
		spent, err := s.transactions.SumByBudgetID(ctx, s.dbase, budgets[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, BudgetWithSpend{Budget: &budgets[i], Spent: spent})
	}
	return out, nil
}

func (s *budgetService) UpdateBudget(ctx context.Context, in UpdateBudgetInput) (*domain.Budget, error) {
	budget, err := s.budgets.GetBudgetByID(ctx, s.dbase, in.BudgetID, in.CallerUserID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		budget.Name = *in.Name
	}
	if in.Amount != nil {
		if err := ledger.CheckAmount(*in.Amount); err != nil {
			return nil, err
		}
		budget.Amount = *in.Amount
	}
	if in.Period != nil {
		budget.Period = *in.Period
	}
	if in.Category != nil {
		budget.Category = *in.Category
	}
	if in.StartDate != nil {
		budget.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		budget.EndDate = in.EndDate
	}
	if err := s.budgets.UpdateBudget(ctx, s.dbase, budget); err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}
	return budget, nil
}

// DeleteBudget removes a budget that has no recorded payments.
func (s *budgetService) DeleteBudget(ctx context.Context, callerUserID, budgetID int64) error {
	if _, err := s.budgets.GetBudgetByID(ctx, s.dbase, budgetID, callerUserID); err != nil {
		return err
	}
	count, err := s.transactions.CountByBudgetID(ctx, s.dbase, budgetID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("budget %d has %d linked transactions: %w", budgetID, count, util.ErrHasTransactions)
	}
	return s.budgets.DeleteBudget(ctx, s.dbase, budgetID, callerUserID)
}

// PayFromBudget debits the wallet and records the spend against the budget.
// The cap is not enforced; exceeding it shows up in the spend summary.
func (s *budgetService) PayFromBudget(ctx context.Context, in BudgetPaymentInput) (*BudgetPaymentResult, error) {
	if err := ledger.CheckAmount(in.Amount); err != nil {
		return nil, err
	}

	wallet, err := s.wallets.GetWalletByUserID(ctx, s.dbase, in.CallerUserID)
	if err != nil {
		return nil, err
	}
	budget, err := s.budgets.GetBudgetByID(ctx, s.dbase, in.BudgetID, in.CallerUserID)
	if err != nil {
		return nil, err
	}
	if err := ledger.CheckSufficient(wallet.Balance, in.Amount); err != nil {
		return nil, err
	}

	draft := domain.NewTransaction(wallet.ID, in.CallerUserID, in.Amount, domain.TransactionTypeBudgetPayment, in.Description)
	draft.BudgetID = &budget.ID
	draft.Category = in.Category
	if draft.Category == nil {
		draft.Category = &budget.Category
	}

	applied, err := s.store.Apply(ctx, &ledger.Entry{
		Legs:   []ledger.WalletLeg{{WalletID: wallet.ID, Delta: in.Amount.Neg()}},
		Drafts: []*domain.Transaction{draft},
	})
	if err != nil {
		return nil, err
	}

	spent, err := s.transactions.SumByBudgetID(ctx, s.dbase, budget.ID)
	if err != nil {
		// The payment is committed; a failed summary read must not undo it.
		s.logger.Warn("failed to refresh budget spend after payment",
			"budget_id", budget.ID, "error", err)
		spent = decimal.Zero
	}

	notifyCommitted(ctx, s.cache, s.publisher, in.CallerUserID, wallet.ID, draft)
	return &BudgetPaymentResult{
		Wallet:      applied.Wallet(wallet.ID),
		Transaction: draft,
		Spent:       spent,
	}, nil
}
