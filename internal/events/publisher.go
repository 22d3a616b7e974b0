// internal/events/publisher.go
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCompleted is emitted after a balance mutation commits. Amount
// carries the signed wallet delta of the emitting leg.
type TransactionCompleted struct {
	TransactionID int64           `json:"transactionId"`
	WalletID      int64           `json:"walletId"`
	UserID        int64           `json:"userId"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// Publisher delivers domain events to interested consumers. Publishing is
// fire-and-forget: the mutation has already committed, so a delivery
// failure is logged by implementations, never propagated.
type Publisher interface {
	PublishTransactionCompleted(ctx context.Context, event TransactionCompleted)
	Close() error
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishTransactionCompleted(context.Context, TransactionCompleted) {}

func (NopPublisher) Close() error { return nil }
