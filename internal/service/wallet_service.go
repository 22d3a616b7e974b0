// internal/service/wallet_service.go
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
	"thryv-wallet/pkg/db"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Database is what the service layer needs from the connection pool: plain
// query execution plus the ability to open transactions. *sqlx.DB satisfies
// both sides.
type Database interface {
	repository.DBExecutor
	db.DBTxBeginner
}

// DepositInput describes a deposit into the caller's wallet.
type DepositInput struct {
	CallerUserID int64
	Amount       decimal.Decimal
	Description  string
}

// WithdrawInput describes a withdrawal from the caller's wallet.
type WithdrawInput struct {
	CallerUserID int64
	Amount       decimal.Decimal
	Description  string
}

// TransferInput describes a transfer from the caller to another user,
// addressed by username.
type TransferInput struct {
	CallerUserID      int64
	RecipientUsername string
	Amount            decimal.Decimal
	Description       string
}

// HistoryInput narrows a transaction history read.
type HistoryInput struct {
	CallerUserID int64
	Type         *domain.TransactionType
	Limit        int
	Offset       int
}

// TransferResult carries the committed state of both sides of a transfer.
// Recipient balance is deliberately not exposed.
type TransferResult struct {
	SenderWallet *domain.Wallet
	Outgoing     *domain.Transaction
	Incoming     *domain.Transaction
}

// WalletService defines wallet lifecycle and direct balance mutations.
type WalletService interface {
	CreateUserAndWallet(ctx context.Context, username string) (*domain.User, *domain.Wallet, error)
	GetWallet(ctx context.Context, callerUserID int64) (*domain.Wallet, error)
	Deposit(ctx context.Context, in DepositInput) (*domain.Wallet, *domain.Transaction, error)
	Withdraw(ctx context.Context, in WithdrawInput) (*domain.Wallet, *domain.Transaction, error)
	Transfer(ctx context.Context, in TransferInput) (*TransferResult, error)
	GetTransactionHistory(ctx context.Context, in HistoryInput) ([]domain.Transaction, int64, error)
	AuditWallet(ctx context.Context, callerUserID int64) (balance, ledgerSum decimal.Decimal, err error)
}

type walletService struct {
	dbase        Database
	users        repository.UserRepository
	wallets      repository.WalletRepository
	transactions repository.TransactionRepository
	store        *ledger.Store
	cache        *cache.Cache
	publisher    events.Publisher
	beginTx      db.BeginTxFunc
	commitTx     db.CommitTxFunc
	rollbackTx   db.RollbackTxFunc
	logger       *slog.Logger
}

// NewWalletService creates a wallet service. cache may be nil and publisher
// may be events.NopPublisher when those backends are not configured.
func NewWalletService(
	dbase Database,
	users repository.UserRepository,
	wallets repository.WalletRepository,
	transactions repository.TransactionRepository,
	store *ledger.Store,
	c *cache.Cache,
	publisher events.Publisher,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) WalletService {
	return &walletService{
		dbase:        dbase,
		users:        users,
		wallets:      wallets,
		transactions: transactions,
		store:        store,
		cache:        c,
		publisher:    publisher,
		beginTx:      beginTx,
		commitTx:     commitTx,
		rollbackTx:   rollbackTx,
		logger:       logger,
	}
}

// CreateUserAndWallet registers a user together with their single
// zero-balance wallet, in one transaction.
func (s *walletService) CreateUserAndWallet(ctx context.Context, username string) (*domain.User, *domain.Wallet, error) {
	if username == "" {
		return nil, nil, fmt.Errorf("username is required: %w", util.ErrInvalidInput)
	}

	txController, err := s.beginTx(ctx, s.dbase)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	q, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("transaction controller does not implement DBExecutor")
	}

	user := domain.NewUser(username)
	if err := s.users.CreateUser(ctx, q, user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	wallet := domain.NewWallet(user.ID)
	if err := s.wallets.CreateWallet(ctx, q, wallet); err != nil {
		return nil, nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("failed to commit: %w", err)
	}

	s.logger.Info("user and wallet created", "user_id", user.ID, "wallet_id", wallet.ID)
	return user, wallet, nil
}

// GetWallet returns the caller's wallet, served from cache when possible.
func (s *walletService) GetWallet(ctx context.Context, callerUserID int64) (*domain.Wallet, error) {
	key := cache.WalletKey(callerUserID)
	var cached domain.Wallet
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	wallet, err := s.wallets.GetWalletByUserID(ctx, s.dbase, callerUserID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, wallet, cache.DefaultTTL)
	return wallet, nil
}

func (s *walletService) Deposit(ctx context.Context, in DepositInput) (*domain.Wallet, *domain.Transaction, error) {
	if err := ledger.CheckAmount(in.Amount); err != nil {
		return nil, nil, err
	}

	wallet, err := s.wallets.GetWalletByUserID(ctx, s.dbase, in.CallerUserID)
	if err != nil {
		return nil, nil, err
	}

	draft := domain.NewTransaction(wallet.ID, in.CallerUserID, in.Amount, domain.TransactionTypeDeposit, in.Description)
	applied, err := s.store.Apply(ctx, &ledger.Entry{
		Legs:   []ledger.WalletLeg{{WalletID: wallet.ID, Delta: in.Amount}},
		Drafts: []*domain.Transaction{draft},
	})
	if err != nil {
		return nil, nil, err
	}

	s.afterCommit(ctx, in.CallerUserID, wallet.ID, applied.Transactions...)
	return applied.Wallet(wallet.ID), draft, nil
}

func (s *walletService) Withdraw(ctx context.Context, in WithdrawInput) (*domain.Wallet, *domain.Transaction, error) {
	if err := ledger.CheckAmount(in.Amount); err != nil {
		return nil, nil, err
	}

	wallet, err := s.wallets.GetWalletByUserID(ctx, s.dbase, in.CallerUserID)
	if err != nil {
		return nil, nil, err
	}
	// Fast rejection on the unlocked read; the store re-checks under the
	// row lock before committing.
	if err := ledger.CheckSufficient(wallet.Balance, in.Amount); err != nil {
		return nil, nil, err
	}

	draft := domain.NewTransaction(wallet.ID, in.CallerUserID, in.Amount, domain.TransactionTypeWithdrawal, in.Description)
	applied, err := s.store.Apply(ctx, &ledger.Entry{
		Legs:   []ledger.WalletLeg{{WalletID: wallet.ID, Delta: in.Amount.Neg()}},
		Drafts: []*domain.Transaction{draft},
	})
	if err != nil {
		return nil, nil, err
	}

	s.afterCommit(ctx, in.CallerUserID, wallet.ID, applied.Transactions...)
	return applied.Wallet(wallet.ID), draft, nil
}

// Transfer moves funds from the caller's wallet to the recipient's. The two
// transaction rows share a transfer group ID; the sender leg is marked
// outgoing so each row's direction stays derivable.
func (s *walletService) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if err := ledger.CheckAmount(in.Amount); err != nil {
		return nil, err
	}
	if in.RecipientUsername == "" {
		return nil, fmt.Errorf("recipient is required: %w", util.ErrInvalidInput)
	}

	recipient, err := s.users.GetUserByUsername(ctx, s.dbase, in.RecipientUsername)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrRecipientNotFound
		}
		return nil, err
	}
	if recipient.ID == in.CallerUserID {
		return nil, util.ErrSameWalletTransfer
	}

	senderWallet, err := s.wallets.GetWalletByUserID(ctx, s.dbase, in.CallerUserID)
	if err != nil {
		return nil, err
	}
	recipientWallet, err := s.wallets.GetWalletByUserID(ctx, s.dbase, recipient.ID)
	if err != nil {
		if util.IsError(err, util.ErrWalletNotFound) {
			return nil, util.ErrRecipientNotFound
		}
		return nil, err
	}
	if err := ledger.CheckDistinctWallets(senderWallet.ID, recipientWallet.ID); err != nil {
		return nil, err
	}
	if err := ledger.CheckSufficient(senderWallet.Balance, in.Amount); err != nil {
		return nil, err
	}

	groupID := uuid.NewString()
	outgoing := domain.NewTransaction(senderWallet.ID, in.CallerUserID, in.Amount, domain.TransactionTypeTransfer, in.Description)
	outgoing.Outgoing = true
	outgoing.TransferGroupID = &groupID
	incoming := domain.NewTransaction(recipientWallet.ID, recipient.ID, in.Amount, domain.TransactionTypeTransfer, in.Description)
	incoming.TransferGroupID = &groupID

	applied, err := s.store.Apply(ctx, &ledger.Entry{
		Legs: []ledger.WalletLeg{
			{WalletID: senderWallet.ID, Delta: in.Amount.Neg()},
			{WalletID: recipientWallet.ID, Delta: in.Amount},
		},
		Drafts: []*domain.Transaction{outgoing, incoming},
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, in.CallerUserID, senderWallet.ID, outgoing)
	s.afterCommit(ctx, recipient.ID, recipientWallet.ID, incoming)

	return &TransferResult{
		SenderWallet: applied.Wallet(senderWallet.ID),
		Outgoing:     outgoing,
		Incoming:     incoming,
	}, nil
}

// GetTransactionHistory returns the caller's history, newest first. Only the
// unfiltered first page is cached; it is also the one every client loads.
func (s *walletService) GetTransactionHistory(ctx context.Context, in HistoryInput) ([]domain.Transaction, int64, error) {
	wallet, err := s.wallets.GetWalletByUserID(ctx, s.dbase, in.CallerUserID)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.TransactionFilter{Type: in.Type, Limit: in.Limit, Offset: in.Offset}
	cacheable := in.Type == nil && in.Offset == 0

	if cacheable {
		var page historyPage
		if s.cache.Get(ctx, cache.HistoryKey(wallet.ID), &page) && page.Limit == filter.Limit {
			return page.Transactions, page.Total, nil
		}
	}

	transactions, total, err := s.transactions.GetTransactionsByWalletID(ctx, s.dbase, wallet.ID, filter)
	if err != nil {
		return nil, 0, err
	}

	if cacheable {
		s.cache.Set(ctx, cache.HistoryKey(wallet.ID), historyPage{
			Transactions: transactions, Total: total, Limit: filter.Limit,
		}, cache.DefaultTTL)
	}
	return transactions, total, nil
}

type historyPage struct {
	Transactions []domain.Transaction `json:"transactions"`
	Total        int64                `json:"total"`
	Limit        int                  `json:"limit"`
}

// AuditWallet reads the wallet balance and the signed sum of its transaction
// log side by side. The two must agree; a mismatch is reported as
// ErrInvariantViolation without masking either figure.
func (s *walletService) AuditWallet(ctx context.Context, callerUserID int64) (decimal.Decimal, decimal.Decimal, error) {
	wallet, err := s.wallets.GetWalletByUserID(ctx, s.dbase, callerUserID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	sum, err := s.transactions.SumSignedByWalletID(ctx, s.dbase, wallet.ID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if !wallet.Balance.Equal(sum) {
		s.logger.Error("wallet balance does not match transaction log",
			"wallet_id", wallet.ID, "balance", wallet.Balance, "ledger_sum", sum)
		return wallet.Balance, sum, fmt.Errorf("wallet %d: balance %s, ledger sum %s: %w",
			wallet.ID, wallet.Balance, sum, util.ErrInvariantViolation)
	}
	return wallet.Balance, sum, nil
}

func (s *walletService) afterCommit(ctx context.Context, userID, walletID int64, transactions ...*domain.Transaction) {
	notifyCommitted(ctx, s.cache, s.publisher, userID, walletID, transactions...)
}
