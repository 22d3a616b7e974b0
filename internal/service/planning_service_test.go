// internal/service/planning_service_test.go
package service

import (
	"context"
	"testing"

	"thryv-wallet/internal/domain"
	"thryv-wallet/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalContributionAndCompletion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := f.newFundedUser(t, "alice", 200)

	goal, err := f.goals.CreateGoal(ctx, CreateGoalInput{
		CallerUserID: user.ID,
		Name:         "vacation",
		TargetAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.True(t, goal.CurrentAmount.IsZero())
	assert.False(t, goal.IsCompleted)

	t.Run("partial contribution", func(t *testing.T) {
		result, err := f.goals.ContributeToGoal(ctx, GoalMovementInput{
			CallerUserID: user.ID, GoalID: goal.ID, Amount: decimal.NewFromInt(60),
		})
		require.NoError(t, err)
		assert.True(t, result.Wallet.Balance.Equal(decimal.NewFromInt(140)))
		assert.True(t, result.Goal.CurrentAmount.Equal(decimal.NewFromInt(60)))
		assert.False(t, result.Goal.IsCompleted)
		assert.Equal(t, domain.TransactionTypeSavingsContribution, result.Transaction.Type)
		require.NotNil(t, result.Transaction.SavingsGoalID)
		assert.Equal(t, goal.ID, *result.Transaction.SavingsGoalID)
	})

	t.Run("reaching the target completes the goal", func(t *testing.T) {
		result, err := f.goals.ContributeToGoal(ctx, GoalMovementInput{
			CallerUserID: user.ID, GoalID: goal.ID, Amount: decimal.NewFromInt(40),
		})
		require.NoError(t, err)
		assert.True(t, result.Goal.IsCompleted)
		assert.True(t, result.Goal.CurrentAmount.Equal(decimal.NewFromInt(100)))
	})

	t.Run("withdrawal reopens the goal", func(t *testing.T) {
		result, err := f.goals.WithdrawFromGoal(ctx, GoalMovementInput{
			CallerUserID: user.ID, GoalID: goal.ID, Amount: decimal.NewFromInt(10),
		})
		require.NoError(t, err)
		assert.False(t, result.Goal.IsCompleted)
		assert.True(t, result.Goal.CurrentAmount.Equal(decimal.NewFromInt(90)))
		assert.True(t, result.Wallet.Balance.Equal(decimal.NewFromInt(110)))
	})

	t.Run("withdrawal beyond progress rejected", func(t *testing.T) {
		_, err := f.goals.WithdrawFromGoal(ctx, GoalMovementInput{
			CallerUserID: user.ID, GoalID: goal.ID, Amount: decimal.NewFromInt(91),
		})
		assert.ErrorIs(t, err, util.ErrInsufficientDestinationFunds)
	})

	t.Run("contribution beyond balance rejected", func(t *testing.T) {
		_, err := f.goals.ContributeToGoal(ctx, GoalMovementInput{
			CallerUserID: user.ID, GoalID: goal.ID, Amount: decimal.NewFromInt(500),
		})
		assert.ErrorIs(t, err, util.ErrInsufficientFunds)
	})
}

func TestGoalOwnershipScoping(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.newFundedUser(t, "alice", 100)
	bob := f.newFundedUser(t, "bob", 100)

	goal, err := f.goals.CreateGoal(ctx, CreateGoalInput{
		CallerUserID: alice.ID, Name: "house", TargetAmount: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	// Someone else's goal behaves exactly like a missing one.
	_, err = f.goals.GetGoal(ctx, bob.ID, goal.ID)
	assert.ErrorIs(t, err, util.ErrGoalNotFound)

	_, err = f.goals.ContributeToGoal(ctx, GoalMovementInput{
		CallerUserID: bob.ID, GoalID: goal.ID, Amount: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, util.ErrGoalNotFound)
}

func TestGoalDeleteRejectedWithHistory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := f.newFundedUser(t, "alice", 100)

	goal, err := f.goals.CreateGoal(ctx, CreateGoalInput{
		CallerUserID: user.ID, Name: "car", TargetAmount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	t.Run("clean goal deletes", func(t *testing.T) {
		empty, err := f.goals.CreateGoal(ctx, CreateGoalInput{
			CallerUserID: user.ID, Name: "temp", TargetAmount: decimal.NewFromInt(10),
		})
		require.NoError(t, err)
		assert.NoError(t, f.goals.DeleteGoal(ctx, user.ID, empty.ID))
	})

	_, err = f.goals.ContributeToGoal(ctx, GoalMovementInput{
		CallerUserID: user.ID, GoalID: goal.ID, Amount: decimal.NewFromInt(20),
	})
	require.NoError(t, err)

	t.Run("funded goal does not", func(t *testing.T) {
		err := f.goals.DeleteGoal(ctx, user.ID, goal.ID)
		assert.ErrorIs(t, err, util.ErrHasTransactions)
		_, err = f.goals.GetGoal(ctx, user.ID, goal.ID)
		assert.NoError(t, err)
	})
}

func TestCreateInvestmentFundsFromWallet(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := f.newFundedUser(t, "alice", 1000)

	result, err := f.investments.CreateInvestment(ctx, CreateInvestmentInput{
		CallerUserID: user.ID,
		Name:         "index fund",
		Type:         "etf",
		Amount:       decimal.NewFromInt(400),
	})
	require.NoError(t, err)

	assert.True(t, result.Wallet.Balance.Equal(decimal.NewFromInt(600)))
	assert.True(t, result.Investment.InitialAmount.Equal(decimal.NewFromInt(400)))
	assert.True(t, result.Investment.CurrentAmount.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, domain.InvestmentStatusActive, result.Investment.Status)
	require.NotNil(t, result.Transaction.InvestmentID)
	assert.Equal(t, result.Investment.ID, *result.Transaction.InvestmentID)

	t.Run("insufficient balance leaves no position behind", func(t *testing.T) {
		_, err := f.investments.CreateInvestment(ctx, CreateInvestmentInput{
			CallerUserID: user.ID, Name: "gold", Type: "commodity", Amount: decimal.NewFromInt(601),
		})
		assert.ErrorIs(t, err, util.ErrInsufficientFunds)

		investments, err := f.investments.ListInvestments(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, investments, 1)
	})
}

func TestFundInvestmentRaisesBothAmounts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := f.newFundedUser(t, "alice", 1000)

	created, err := f.investments.CreateInvestment(ctx, CreateInvestmentInput{
		CallerUserID: user.ID, Name: "index fund", Type: "etf", Amount: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	result, err := f.investments.FundInvestment(ctx, InvestmentMovementInput{
		CallerUserID: user.ID,
		InvestmentID: created.Investment.ID,
		Amount:       decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	// Additional funding is paid-in capital, not a gain.
	assert.True(t, result.Investment.InitialAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, result.Investment.CurrentAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, result.Wallet.Balance.Equal(decimal.NewFromInt(500)))
}

func TestWithdrawFromInvestment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := f.newFundedUser(t, "alice", 1000)

	created, err := f.investments.CreateInvestment(ctx, CreateInvestmentInput{
		CallerUserID: user.ID, Name: "index fund", Type: "etf", Amount: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	result, err := f.investments.WithdrawFromInvestment(ctx, InvestmentMovementInput{
		CallerUserID: user.ID,
		InvestmentID: created.Investment.ID,
		Amount:       decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	// Withdrawal lowers current value only; initial records what was paid in.
	assert.True(t, result.Investment.InitialAmount.Equal(decimal.NewFromInt(300)))
	assert.True(t, result.Investment.CurrentAmount.Equal(decimal.NewFromInt(200)))
	assert.True(t, result.Wallet.Balance.Equal(decimal.NewFromInt(800)))

	t.Run("beyond current value rejected", func(t *testing.T) {
		_, err := f.investments.WithdrawFromInvestment(ctx, InvestmentMovementInput{
			CallerUserID: user.ID,
			InvestmentID: created.Investment.ID,
			Amount:       decimal.NewFromInt(201),
		})
		assert.ErrorIs(t, err, util.ErrInsufficientDestinationFunds)
	})
}

func TestBudgetPaymentAndSpendSummary(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := f.newFundedUser(t, "alice", 500)

	budget, err := f.budgets.CreateBudget(ctx, CreateBudgetInput{
		CallerUserID: user.ID,
		Name:         "groceries",
		Amount:       decimal.NewFromInt(300),
		Period:       "monthly",
		Category:     "food",
	})
	require.NoError(t, err)

	result, err := f.budgets.PayFromBudget(ctx, BudgetPaymentInput{
		CallerUserID: user.ID,
		BudgetID:     budget.ID,
		Amount:       decimal.NewFromInt(45),
		Description:  "weekly shop",
	})
	require.NoError(t, err)

	assert.True(t, result.Wallet.Balance.Equal(decimal.NewFromInt(455)))
	assert.True(t, result.Spent.Equal(decimal.NewFromInt(45)))
	require.NotNil(t, result.Transaction.Category)
	assert.Equal(t, "food", *result.Transaction.Category, "payment inherits the budget category")

	_, err = f.budgets.PayFromBudget(ctx, BudgetPaymentInput{
		CallerUserID: user.ID, BudgetID: budget.ID, Amount: decimal.NewFromInt(30),
	})
	require.NoError(t, err)

	summary, err := f.budgets.GetBudget(ctx, user.ID, budget.ID)
	require.NoError(t, err)
	assert.True(t, summary.Spent.Equal(decimal.NewFromInt(75)))

	t.Run("delete rejected once payments exist", func(t *testing.T) {
		err := f.budgets.DeleteBudget(ctx, user.ID, budget.ID)
		assert.ErrorIs(t, err, util.ErrHasTransactions)
	})
}

func TestEmergencyFundLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := f.newFundedUser(t, "alice", 300)

	fund, err := f.funds.CreateFund(ctx, user.ID, decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.True(t, fund.CurrentAmount.IsZero())

	t.Run("one fund per user", func(t *testing.T) {
		_, err := f.funds.CreateFund(ctx, user.ID, decimal.NewFromInt(2000))
		assert.ErrorIs(t, err, util.ErrFundExists)
	})

	t.Run("contribute", func(t *testing.T) {
		result, err := f.funds.ContributeToFund(ctx, FundMovementInput{
			CallerUserID: user.ID, Amount: decimal.NewFromInt(120),
		})
		require.NoError(t, err)
		assert.True(t, result.Fund.CurrentAmount.Equal(decimal.NewFromInt(120)))
		assert.True(t, result.Wallet.Balance.Equal(decimal.NewFromInt(180)))
		assert.Equal(t, domain.TransactionTypeEmergencyFundContribution, result.Transaction.Type)
	})

	t.Run("withdraw", func(t *testing.T) {
		result, err := f.funds.WithdrawFromFund(ctx, FundMovementInput{
			CallerUserID: user.ID, Amount: decimal.NewFromInt(50),
		})
		require.NoError(t, err)
		assert.True(t, result.Fund.CurrentAmount.Equal(decimal.NewFromInt(70)))
		assert.True(t, result.Wallet.Balance.Equal(decimal.NewFromInt(230)))
	})

	t.Run("withdraw beyond progress rejected", func(t *testing.T) {
		_, err := f.funds.WithdrawFromFund(ctx, FundMovementInput{
			CallerUserID: user.ID, Amount: decimal.NewFromInt(71),
		})
		assert.ErrorIs(t, err, util.ErrInsufficientDestinationFunds)
	})

	t.Run("retarget", func(t *testing.T) {
		updated, err := f.funds.UpdateFundTarget(ctx, user.ID, decimal.NewFromInt(1500))
		require.NoError(t, err)
		assert.True(t, updated.TargetAmount.Equal(decimal.NewFromInt(1500)))
		assert.True(t, updated.CurrentAmount.Equal(decimal.NewFromInt(70)), "retargeting never touches progress")
	})
}
