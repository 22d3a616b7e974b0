// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// TransactionType defines the kind of balance movement a transaction records.
// The stored amount is always positive; the direction of the movement is
// derived from the type via Sign.
type TransactionType string

const (
	TransactionTypeDeposit                   TransactionType = "deposit"
	TransactionTypeWithdrawal                TransactionType = "withdrawal"
	TransactionTypeTransfer                  TransactionType = "transfer"
	TransactionTypeInvestment                TransactionType = "investment"
	TransactionTypeInvestmentWithdrawal      TransactionType = "investment_withdrawal"
	TransactionTypeSavingsContribution       TransactionType = "savings_contribution"
	TransactionTypeSavingsWithdrawal         TransactionType = "savings_withdrawal"
	TransactionTypeEmergencyFundContribution TransactionType = "emergency_fund_contribution"
	TransactionTypeEmergencyFundWithdrawal   TransactionType = "emergency_fund_withdrawal"
	TransactionTypeBudgetPayment             TransactionType = "budget_payment"
)

// Sign reports the direction the type moves the wallet balance:
// +1 for credits, -1 for debits. Transfer rows are the exception: the
// direction of a transfer leg depends on which side of the transfer the
// wallet is on, carried by the row's Outgoing flag.
func (t TransactionType) Sign() int {
	switch t {
	case TransactionTypeDeposit,
		TransactionTypeSavingsWithdrawal,
		TransactionTypeInvestmentWithdrawal,
		TransactionTypeEmergencyFundWithdrawal:
		return 1
	default:
		return -1
	}
}

// Valid reports whether the type is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeTransfer,
		TransactionTypeInvestment, TransactionTypeInvestmentWithdrawal,
		TransactionTypeSavingsContribution, TransactionTypeSavingsWithdrawal,
		TransactionTypeEmergencyFundContribution, TransactionTypeEmergencyFundWithdrawal,
		TransactionTypeBudgetPayment:
		return true
	}
	return false
}

// TransactionStatus defines the settlement status of a transaction.
// All operations are synchronous, so rows are written as completed;
// pending and failed exist for the schema contract only.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is an immutable record of a single balance movement.
// Once a row reaches status completed it is never updated or deleted;
// corrections are recorded as new offsetting transactions.
type Transaction struct {
	ID              int64             `db:"id" json:"id"`                               // Primary key, BIGSERIAL in DB
	WalletID        int64             `db:"wallet_id" json:"wallet_id"`                 // Wallet whose balance this row moved
	UserID          int64             `db:"user_id" json:"user_id"`                     // Owner of the wallet at the time of the movement
	Amount          decimal.Decimal   `db:"amount" json:"amount"`                       // Always positive, NUMERIC(20, 4) in DB
	Type            TransactionType   `db:"type" json:"type"`                           // Direction is derived from the type
	Category        *string           `db:"category" json:"category"`                   // Optional free-form label
	Description     string            `db:"description" json:"description"`             // Human-readable context
	Status          TransactionStatus `db:"status" json:"status"`                       // completed | pending | failed
	Outgoing        bool              `db:"outgoing" json:"outgoing"`                   // For transfer rows: true on the sender leg
	TransferGroupID *string           `db:"transfer_group_id" json:"transfer_group_id"` // Links the two legs of one transfer
	BudgetID        *int64            `db:"budget_id" json:"budget_id"`                 // Optional destination references
	InvestmentID    *int64            `db:"investment_id" json:"investment_id"`
	SavingsGoalID   *int64            `db:"savings_goal_id" json:"savings_goal_id"`
	EmergencyFundID *int64            `db:"emergency_fund_id" json:"emergency_fund_id"`
	Date            time.Time         `db:"date" json:"date"`             // Time of the movement
	CreatedAt       time.Time         `db:"created_at" json:"created_at"` // Timestamp of record creation
}

// NewTransaction creates a transaction draft for a wallet movement.
// The ledger finalizes it to completed when the paired balance change commits.
func NewTransaction(walletID, userID int64, amount decimal.Decimal, txType TransactionType, description string) *Transaction {
	now := time.Now().UTC()
	return &Transaction{
		WalletID:    walletID,
		UserID:      userID,
		Amount:      amount,
		Type:        txType,
		Description: description,
		Status:      TransactionStatusPending,
		Date:        now,
		CreatedAt:   now,
	}
}

// SignedAmount returns the amount with the direction the row moved the
// wallet balance: positive for credits, negative for debits.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeTransfer {
		if t.Outgoing {
			return t.Amount.Neg()
		}
		return t.Amount
	}
	if t.Type.Sign() < 0 {
		return t.Amount.Neg()
	}
	return t.Amount
}
