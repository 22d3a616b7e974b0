// internal/service/fakes_test.go
package service

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"sync/atomic"

	"thryv-wallet/internal/domain"
	"thryv-wallet/internal/repository"
	"thryv-wallet/internal/util"
	"thryv-wallet/pkg/db"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// fakeBackend is an in-memory stand-in for Postgres. Transactions are
// serialized on txMu, which plays the part of the row locks the real store
// takes: a second writer blocks until the first commits or rolls back.
type fakeBackend struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	users       map[int64]*domain.User
	wallets     map[int64]*domain.Wallet
	goals       map[int64]*domain.SavingsGoal
	investments map[int64]*domain.Investment
	budgets     map[int64]*domain.Budget
	funds       map[int64]*domain.EmergencyFund // keyed by user ID
	log         []*domain.Transaction

	nextID atomic.Int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:       make(map[int64]*domain.User),
		wallets:     make(map[int64]*domain.Wallet),
		goals:       make(map[int64]*domain.SavingsGoal),
		investments: make(map[int64]*domain.Investment),
		budgets:     make(map[int64]*domain.Budget),
		funds:       make(map[int64]*domain.EmergencyFund),
	}
}

func (b *fakeBackend) id() int64 { return b.nextID.Add(1) }

// fakeDB satisfies the service Database interface. Plain reads go through
// the repositories, transactions through the injected fakeBeginTx, so none
// of these methods is ever reached.
type fakeDB struct{ b *fakeBackend }

func (fakeDB) GetContext(context.Context, interface{}, string, ...interface{}) error    { return nil }
func (fakeDB) SelectContext(context.Context, interface{}, string, ...interface{}) error { return nil }
func (fakeDB) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (fakeDB) QueryRowContext(context.Context, string, ...interface{}) *sql.Row { return nil }
func (fakeDB) BeginTxx(context.Context, *sql.TxOptions) (*sqlx.Tx, error)       { return nil, nil }

// fakeTx buffers writes until commit, so a rollback leaves the backend
// untouched and in-transaction reads see staged state.
type fakeTx struct {
	b *fakeBackend

	wallets     map[int64]*domain.Wallet
	goals       map[int64]*domain.SavingsGoal
	investments map[int64]*domain.Investment
	funds       map[int64]*domain.EmergencyFund
	users       []*domain.User
	appended    []*domain.Transaction

	done bool
}

func fakeBeginTx(b *fakeBackend) db.BeginTxFunc {
	return func(ctx context.Context, _ db.DBTxBeginner) (db.TxController, error) {
		b.txMu.Lock()
		return &fakeTx{
			b:           b,
			wallets:     make(map[int64]*domain.Wallet),
			goals:       make(map[int64]*domain.SavingsGoal),
			investments: make(map[int64]*domain.Investment),
			funds:       make(map[int64]*domain.EmergencyFund),
		}, nil
	}
}

func fakeCommitTx(tx db.TxController) error { return tx.Commit() }
func fakeRollbackTx(tx db.TxController)     { tx.Rollback() }

func (tx *fakeTx) Commit() error {
	if tx.done {
		return sql.ErrTxDone
	}
	tx.b.mu.Lock()
	for _, u := range tx.users {
		tx.b.users[u.ID] = u
	}
	for id, w := range tx.wallets {
		tx.b.wallets[id] = w
	}
	for id, g := range tx.goals {
		tx.b.goals[id] = g
	}
	for id, i := range tx.investments {
		tx.b.investments[id] = i
	}
	for userID, f := range tx.funds {
		tx.b.funds[userID] = f
	}
	tx.b.log = append(tx.b.log, tx.appended...)
	tx.b.mu.Unlock()
	tx.done = true
	tx.b.txMu.Unlock()
	return nil
}

func (tx *fakeTx) Rollback() error {
	if tx.done {
		return sql.ErrTxDone
	}
	tx.done = true
	tx.b.txMu.Unlock()
	return nil
}

func (tx *fakeTx) GetContext(context.Context, interface{}, string, ...interface{}) error { return nil }
func (tx *fakeTx) SelectContext(context.Context, interface{}, string, ...interface{}) error {
	return nil
}
func (tx *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (tx *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row { return nil }

func (tx *fakeTx) wallet(id int64) (*domain.Wallet, bool) {
	if w, ok := tx.wallets[id]; ok {
		return w, true
	}
	tx.b.mu.RLock()
	defer tx.b.mu.RUnlock()
	w, ok := tx.b.wallets[id]
	if !ok {
		return nil, false
	}
	copied := *w
	tx.wallets[id] = &copied
	return &copied, true
}

// asTx unwraps the executor; reads outside a transaction hit the backend.
func asTx(q repository.DBExecutor) (*fakeTx, bool) {
	tx, ok := q.(*fakeTx)
	return tx, ok
}

type fakeUserRepo struct{ b *fakeBackend }

func (r *fakeUserRepo) CreateUser(_ context.Context, q repository.DBExecutor, user *domain.User) error {
	r.b.mu.RLock()
	for _, existing := range r.b.users {
		if existing.Username == user.Username {
			r.b.mu.RUnlock()
			return util.ErrDuplicateEntry
		}
	}
	r.b.mu.RUnlock()
	user.ID = r.b.id()
	if tx, ok := asTx(q); ok {
		tx.users = append(tx.users, user)
		return nil
	}
	r.b.mu.Lock()
	r.b.users[user.ID] = user
	r.b.mu.Unlock()
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, _ repository.DBExecutor, id int64) (*domain.User, error) {
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	if u, ok := r.b.users[id]; ok {
		return u, nil
	}
	return nil, util.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, _ repository.DBExecutor, username string) (*domain.User, error) {
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	for _, u := range r.b.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, util.ErrUserNotFound
}

type fakeWalletRepo struct{ b *fakeBackend }

func (r *fakeWalletRepo) CreateWallet(_ context.Context, q repository.DBExecutor, wallet *domain.Wallet) error {
	wallet.ID = r.b.id()
	if tx, ok := asTx(q); ok {
		tx.wallets[wallet.ID] = wallet
		return nil
	}
	r.b.mu.Lock()
	r.b.wallets[wallet.ID] = wallet
	r.b.mu.Unlock()
	return nil
}

func (r *fakeWalletRepo) GetWalletByID(_ context.Context, q repository.DBExecutor, id int64) (*domain.Wallet, error) {
	if tx, ok := asTx(q); ok {
		if w, found := tx.wallet(id); found {
			return w, nil
		}
		return nil, util.ErrWalletNotFound
	}
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	if w, ok := r.b.wallets[id]; ok {
		copied := *w
		return &copied, nil
	}
	return nil, util.ErrWalletNotFound
}

func (r *fakeWalletRepo) GetWalletByUserID(_ context.Context, _ repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	for _, w := range r.b.wallets {
		if w.UserID == userID {
			copied := *w
			return &copied, nil
		}
	}
	return nil, util.ErrWalletNotFound
}

func (r *fakeWalletRepo) GetWalletForUpdate(_ context.Context, q repository.DBExecutor, id int64) (*domain.Wallet, error) {
	tx, ok := asTx(q)
	if !ok {
		return nil, util.ErrWalletNotFound
	}
	if w, found := tx.wallet(id); found {
		return w, nil
	}
	return nil, util.ErrWalletNotFound
}

func (r *fakeWalletRepo) ApplyBalanceDelta(_ context.Context, q repository.DBExecutor, walletID int64, delta decimal.Decimal) error {
	tx, ok := asTx(q)
	if !ok {
		return util.ErrWalletNotFound
	}
	w, found := tx.wallet(walletID)
	if !found {
		return util.ErrWalletNotFound
	}
	next := w.Balance.Add(delta)
	if next.IsNegative() {
		return util.ErrInsufficientFunds
	}
	w.Balance = next
	return nil
}

type fakeTransactionRepo struct{ b *fakeBackend }

func (r *fakeTransactionRepo) CreateTransaction(_ context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	transaction.ID = r.b.id()
	if tx, ok := asTx(q); ok {
		tx.appended = append(tx.appended, transaction)
		return nil
	}
	r.b.mu.Lock()
	r.b.log = append(r.b.log, transaction)
	r.b.mu.Unlock()
	return nil
}

func (r *fakeTransactionRepo) GetTransactionsByWalletID(_ context.Context, _ repository.DBExecutor, walletID int64, filter repository.TransactionFilter) ([]domain.Transaction, int64, error) {
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	var matched []domain.Transaction
	for i := len(r.b.log) - 1; i >= 0; i-- {
		t := r.b.log[i]
		if t.WalletID != walletID {
			continue
		}
		if filter.Type != nil && t.Type != *filter.Type {
			continue
		}
		matched = append(matched, *t)
	}
	total := int64(len(matched))
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, total, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *fakeTransactionRepo) SumSignedByWalletID(_ context.Context, _ repository.DBExecutor, walletID int64) (decimal.Decimal, error) {
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	sum := decimal.Zero
	for _, t := range r.b.log {
		if t.WalletID == walletID {
			sum = sum.Add(t.SignedAmount())
		}
	}
	return sum, nil
}

func (r *fakeTransactionRepo) CountByGoalID(_ context.Context, _ repository.DBExecutor, goalID int64) (int64, error) {
	return r.countBy(func(t *domain.Transaction) bool {
		return t.SavingsGoalID != nil && *t.SavingsGoalID == goalID
	}), nil
}

func (r *fakeTransactionRepo) CountByInvestmentID(_ context.Context, _ repository.DBExecutor, investmentID int64) (int64, error) {
	return r.countBy(func(t *domain.Transaction) bool {
		return t.InvestmentID != nil && *t.InvestmentID == investmentID
	}), nil
}

func (r *fakeTransactionRepo) CountByBudgetID(_ context.Context, _ repository.DBExecutor, budgetID int64) (int64, error) {
	return r.countBy(func(t *domain.Transaction) bool {
		return t.BudgetID != nil && *t.BudgetID == budgetID
	}), nil
}

func (r *fakeTransactionRepo) SumByBudgetID(_ context.Context, _ repository.DBExecutor, budgetID int64) (decimal.Decimal, error) {
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	sum := decimal.Zero
	for _, t := range r.b.log {
		if t.BudgetID != nil && *t.BudgetID == budgetID {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

func (r *fakeTransactionRepo) countBy(match func(*domain.Transaction) bool) int64 {
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	var n int64
	for _, t := range r.b.log {
		if match(t) {
			n++
		}
	}
	return n
}

type fakeGoalRepo struct{ b *fakeBackend }

func (r *fakeGoalRepo) CreateGoal(_ context.Context, _ repository.DBExecutor, goal *domain.SavingsGoal) error {
	goal.ID = r.b.id()
	r.b.mu.Lock()
	r.b.goals[goal.ID] = goal
	r.b.mu.Unlock()
	return nil
}

func (r *fakeGoalRepo) GetGoalByID(_ context.Context, q repository.DBExecutor, id, userID int64) (*domain.SavingsGoal, error) {
	if tx, ok := asTx(q); ok {
		if g, found := tx.goals[id]; found && g.UserID == userID {
			return g, nil
		}
	}
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	if g, ok := r.b.goals[id]; ok && g.UserID == userID {
		copied := *g
		return &copied, nil
	}
	return nil, util.ErrGoalNotFound
}

func (r *fakeGoalRepo) GetGoalForUpdate(_ context.Context, q repository.DBExecutor, id, userID int64) (*domain.SavingsGoal, error) {
	tx, ok := asTx(q)
	if !ok {
		return nil, util.ErrGoalNotFound
	}
	if g, found := tx.goals[id]; found && g.UserID == userID {
		return g, nil
	}
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	g, found := r.b.goals[id]
	if !found || g.UserID != userID {
		return nil, util.ErrGoalNotFound
	}
	copied := *g
	tx.goals[id] = &copied
	return &copied, nil
}

func (r *fakeGoalRepo) ListGoalsByUserID(_ context.Context, _ repository.DBExecutor, userID int64) ([]domain.SavingsGoal, error) {
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	var goals []domain.SavingsGoal
	for _, g := range r.b.goals {
		if g.UserID == userID {
			goals = append(goals, *g)
		}
	}
	return goals, nil
}

func (r *fakeGoalRepo) UpdateGoal(_ context.Context, _ repository.DBExecutor, goal *domain.SavingsGoal) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if _, ok := r.b.goals[goal.ID]; !ok {
		return util.ErrGoalNotFound
	}
	r.b.goals[goal.ID] = goal
	return nil
}

func (r *fakeGoalRepo) UpdateGoalProgress(_ context.Context, q repository.DBExecutor, id int64, current decimal.Decimal, completed bool) error {
	tx, ok := asTx(q)
	if !ok {
		return util.ErrGoalNotFound
	}
	g, found := tx.goals[id]
	if !found {
		return util.ErrGoalNotFound
	}
	g.CurrentAmount = current
	g.IsCompleted = completed
	return nil
}

func (r *fakeGoalRepo) DeleteGoal(_ context.Context, _ repository.DBExecutor, id, userID int64) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if g, ok := r.b.goals[id]; ok && g.UserID == userID {
		delete(r.b.goals, id)
		return nil
	}
	return util.ErrGoalNotFound
}

type fakeInvestmentRepo struct{ b *fakeBackend }

func (r *fakeInvestmentRepo) CreateInvestment(_ context.Context, q repository.DBExecutor, investment *domain.Investment) error {
	investment.ID = r.b.id()
	if tx, ok := asTx(q); ok {
		tx.investments[investment.ID] = investment
		return nil
	}
	r.b.mu.Lock()
	r.b.investments[investment.ID] = investment
	r.b.mu.Unlock()
	return nil
}

func (r *fakeInvestmentRepo) GetInvestmentByID(_ context.Context, q repository.DBExecutor, id, userID int64) (*domain.Investment, error) {
	if tx, ok := asTx(q); ok {
		if i, found := tx.investments[id]; found && i.UserID == userID {
			return i, nil
		}
	}
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	if i, ok := r.b.investments[id]; ok && i.UserID == userID {
		copied := *i
		return &copied, nil
	}
	return nil, util.ErrInvestmentNotFound
}

func (r *fakeInvestmentRepo) GetInvestmentForUpdate(_ context.Context, q repository.DBExecutor, id, userID int64) (*domain.Investment, error) {
	tx, ok := asTx(q)
	if !ok {
		return nil, util.ErrInvestmentNotFound
	}
	if i, found := tx.investments[id]; found && i.UserID == userID {
		return i, nil
	}
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	i, found := r.b.investments[id]
	if !found || i.UserID != userID {
		return nil, util.ErrInvestmentNotFound
	}
	copied := *i
	tx.investments[id] = &copied
	return &copied, nil
}

func (r *fakeInvestmentRepo) ListInvestmentsByUserID(_ context.Context, _ repository.DBExecutor, userID int64) ([]domain.Investment, error) {
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	var investments []domain.Investment
	for _, i := range r.b.investments {
		if i.UserID == userID {
			investments = append(investments, *i)
		}
	}
	return investments, nil
}

func (r *fakeInvestmentRepo) UpdateInvestment(_ context.Context, _ repository.DBExecutor, investment *domain.Investment) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if _, ok := r.b.investments[investment.ID]; !ok {
		return util.ErrInvestmentNotFound
	}
	r.b.investments[investment.ID] = investment
	return nil
}

func (r *fakeInvestmentRepo) UpdateInvestmentAmounts(_ context.Context, q repository.DBExecutor, id int64, initial, current decimal.Decimal) error {
	tx, ok := asTx(q)
	if !ok {
		return util.ErrInvestmentNotFound
	}
	i, found := tx.investments[id]
	if !found {
		return util.ErrInvestmentNotFound
	}
	i.InitialAmount = initial
	i.CurrentAmount = current
	return nil
}

func (r *fakeInvestmentRepo) DeleteInvestment(_ context.Context, _ repository.DBExecutor, id, userID int64) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if i, ok := r.b.investments[id]; ok && i.UserID == userID {
		delete(r.b.investments, id)
		return nil
	}
	return util.ErrInvestmentNotFound
}

type fakeBudgetRepo struct{ b *fakeBackend }

func (r *fakeBudgetRepo) CreateBudget(_ context.Context, _ repository.DBExecutor, budget *domain.Budget) error {
	budget.ID = r.b.id()
	r.b.mu.Lock()
	r.b.budgets[budget.ID] = budget
	r.b.mu.Unlock()
	return nil
}

func (r *fakeBudgetRepo) GetBudgetByID(_ context.Context, _ repository.DBExecutor, id, userID int64) (*domain.Budget, error) {
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	if b, ok := r.b.budgets[id]; ok && b.UserID == userID {
		copied := *b
		return &copied, nil
	}
	return nil, util.ErrBudgetNotFound
}

func (r *fakeBudgetRepo) ListBudgetsByUserID(_ context.Context, _ repository.DBExecutor, userID int64) ([]domain.Budget, error) {
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	var budgets []domain.Budget
	for _, b := range r.b.budgets {
		if b.UserID == userID {
			budgets = append(budgets, *b)
		}
	}
	return budgets, nil
}

func (r *fakeBudgetRepo) UpdateBudget(_ context.Context, _ repository.DBExecutor, budget *domain.Budget) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if _, ok := r.b.budgets[budget.ID]; !ok {
		return util.ErrBudgetNotFound
	}
	r.b.budgets[budget.ID] = budget
	return nil
}

func (r *fakeBudgetRepo) DeleteBudget(_ context.Context, _ repository.DBExecutor, id, userID int64) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if b, ok := r.b.budgets[id]; ok && b.UserID == userID {
		delete(r.b.budgets, id)
		return nil
	}
	return util.ErrBudgetNotFound
}

type fakeFundRepo struct{ b *fakeBackend }

func (r *fakeFundRepo) CreateFund(_ context.Context, _ repository.DBExecutor, fund *domain.EmergencyFund) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if _, exists := r.b.funds[fund.UserID]; exists {
		return util.ErrFundExists
	}
	fund.ID = r.b.id()
	r.b.funds[fund.UserID] = fund
	return nil
}

func (r *fakeFundRepo) GetFundByUserID(_ context.Context, _ repository.DBExecutor, userID int64) (*domain.EmergencyFund, error) {
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	if f, ok := r.b.funds[userID]; ok {
		copied := *f
		return &copied, nil
	}
	return nil, util.ErrFundNotFound
}

func (r *fakeFundRepo) GetFundForUpdate(_ context.Context, q repository.DBExecutor, userID int64) (*domain.EmergencyFund, error) {
	tx, ok := asTx(q)
	if !ok {
		return nil, util.ErrFundNotFound
	}
	if f, found := tx.funds[userID]; found {
		return f, nil
	}
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()
	f, found := r.b.funds[userID]
	if !found {
		return nil, util.ErrFundNotFound
	}
	copied := *f
	tx.funds[userID] = &copied
	return &copied, nil
}

func (r *fakeFundRepo) UpdateFundTarget(_ context.Context, _ repository.DBExecutor, userID int64, target decimal.Decimal) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	f, ok := r.b.funds[userID]
	if !ok {
		return util.ErrFundNotFound
	}
	f.TargetAmount = target
	return nil
}

func (r *fakeFundRepo) UpdateFundProgress(_ context.Context, q repository.DBExecutor, id int64, current decimal.Decimal) error {
	tx, ok := asTx(q)
	if !ok {
		return util.ErrFundNotFound
	}
	for _, f := range tx.funds {
		if f.ID == id {
			f.CurrentAmount = current
			return nil
		}
	}
	return util.ErrFundNotFound
}
