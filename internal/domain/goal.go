// internal/domain/goal.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsGoal is a named pot of money a user is saving towards.
// CurrentAmount co-moves with savings_contribution / savings_withdrawal
// transactions and equals the sum of their signed amounts for the goal.
type SavingsGoal struct {
	ID            int64           `db:"id" json:"id"`
	UserID        int64           `db:"user_id" json:"user_id"`
	Name          string          `db:"name" json:"name"`
	TargetAmount  decimal.Decimal `db:"target_amount" json:"target_amount"`
	CurrentAmount decimal.Decimal `db:"current_amount" json:"current_amount"` // Never negative
	IsCompleted   bool            `db:"is_completed" json:"is_completed"`     // Set when current reaches target, cleared on withdrawal
	Deadline      *time.Time      `db:"deadline" json:"deadline"`
	Category      *string         `db:"category" json:"category"`
	Description   *string         `db:"description" json:"description"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// NewSavingsGoal creates a goal with no progress.
func NewSavingsGoal(userID int64, name string, target decimal.Decimal) *SavingsGoal {
	now := time.Now().UTC()
	return &SavingsGoal{
		UserID:        userID,
		Name:          name,
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
