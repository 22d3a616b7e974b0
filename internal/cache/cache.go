// internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a cached read survives without invalidation.
const DefaultTTL = 5 * time.Minute

// Cache is a thin JSON read-through layer over Redis. A nil *Cache is valid
// and turns every operation into a no-op, so callers never branch on
// whether caching is configured.
type Cache struct {
	client *redis.Client
	logger *slog.Logger
}

func New(client *redis.Client, logger *slog.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

// Get unmarshals the cached value for key into dest. The boolean reports a
// hit; a miss or decode failure is not an error for the caller.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.logger.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("cache entry corrupt, ignoring", "key", key, "error", err)
		return false
	}
	return true
}

// Set stores value under key as JSON. Failures are logged, never returned:
// the cache must not make a successful read path fail.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

// Delete removes keys after a mutation so the next read refills from the
// store of record.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", "keys", keys, "error", err)
	}
}

// WalletKey is the cache key for a wallet read by owner.
func WalletKey(userID int64) string {
	return fmt.Sprintf("wallet:user:%d", userID)
}

// HistoryKey is the cache key prefix for a wallet's transaction history.
// Filtered pages share the prefix so one delete covers them; go-redis has
// no prefix delete, so history pages use the unfiltered first page only.
func HistoryKey(walletID int64) string {
	return fmt.Sprintf("transactions:wallet:%d", walletID)
}
