// internal/service/notify.go
package service

import (
	"context"

	"thryv-wallet/internal/cache"
	"thryv-wallet/internal/domain"
	"thryv-wallet/internal/events"
)

// notifyCommitted invalidates cached wallet reads and emits completion
// events for one wallet's side of a committed mutation. It runs after the
// database transaction, so nothing here can fail the operation.
func notifyCommitted(ctx context.Context, c *cache.Cache, publisher events.Publisher, userID, walletID int64, transactions ...*domain.Transaction) {
	c.Delete(ctx, cache.WalletKey(userID), cache.HistoryKey(walletID))
	for _, t := range transactions {
		if t.WalletID != walletID {
			continue
		}
		publisher.PublishTransactionCompleted(ctx, events.TransactionCompleted{
			TransactionID: t.ID,
			WalletID:      t.WalletID,
			UserID:        t.UserID,
			Type:          string(t.Type),
			Amount:        t.SignedAmount(),
			OccurredAt:    t.Date,
		})
	}
}
