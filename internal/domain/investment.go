// internal/domain/investment.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentStatus tracks whether an investment still holds funds.
type InvestmentStatus string

const (
	InvestmentStatusActive InvestmentStatus = "active"
	InvestmentStatusClosed InvestmentStatus = "closed"
)

// Investment is money moved out of the wallet into a named position.
// InitialAmount is the total ever put in (funding raises both fields);
// CurrentAmount is what is left and co-moves with investment /
// investment_withdrawal transactions.
type Investment struct {
	ID            int64            `db:"id" json:"id"`
	UserID        int64            `db:"user_id" json:"user_id"`
	Name          string           `db:"name" json:"name"`
	Type          string           `db:"type" json:"type"` // e.g. "stocks", "etf", "crypto"
	InitialAmount decimal.Decimal  `db:"initial_amount" json:"initial_amount"`
	CurrentAmount decimal.Decimal  `db:"current_amount" json:"current_amount"` // Never negative
	RiskLevel     string           `db:"risk_level" json:"risk_level"`         // low | medium | high
	TargetReturn  *decimal.Decimal `db:"target_return" json:"target_return"`
	Status        InvestmentStatus `db:"status" json:"status"`
	Description   *string          `db:"description" json:"description"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
}

// NewInvestment creates an active investment seeded with the opening amount.
func NewInvestment(userID int64, name, invType string, amount decimal.Decimal) *Investment {
	now := time.Now().UTC()
	return &Investment{
		UserID:        userID,
		Name:          name,
		Type:          invType,
		InitialAmount: amount,
		CurrentAmount: amount,
		RiskLevel:     "medium",
		Status:        InvestmentStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
