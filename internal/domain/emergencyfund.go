// internal/domain/emergencyfund.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmergencyFund is a single rainy-day pot per user. CurrentAmount co-moves
// with emergency_fund_contribution / emergency_fund_withdrawal transactions.
type EmergencyFund struct {
	ID            int64           `db:"id" json:"id"`
	UserID        int64           `db:"user_id" json:"user_id"` // Unique, one fund per user
	TargetAmount  decimal.Decimal `db:"target_amount" json:"target_amount"`
	CurrentAmount decimal.Decimal `db:"current_amount" json:"current_amount"` // Never negative
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// NewEmergencyFund creates an empty fund with the given target.
func NewEmergencyFund(userID int64, target decimal.Decimal) *EmergencyFund {
	now := time.Now().UTC()
	return &EmergencyFund{
		UserID:        userID,
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
