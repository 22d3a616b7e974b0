// internal/domain/budget.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a spending cap for a category over a period. Budgets hold no
// balance of their own: spend against a budget is derived by summing the
// budget_payment transactions that reference it.
type Budget struct {
	ID        int64           `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"user_id"`
	Name      string          `db:"name" json:"name"`
	Amount    decimal.Decimal `db:"amount" json:"amount"` // The cap, informational
	Period    string          `db:"period" json:"period"` // weekly | monthly | yearly
	Category  string          `db:"category" json:"category"`
	StartDate time.Time       `db:"start_date" json:"start_date"`
	EndDate   *time.Time      `db:"end_date" json:"end_date"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// NewBudget creates a budget starting now.
func NewBudget(userID int64, name, period, category string, amount decimal.Decimal) *Budget {
	now := time.Now().UTC()
	return &Budget{
		UserID:    userID,
		Name:      name,
		Amount:    amount,
		Period:    period,
		Category:  category,
		StartDate: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
