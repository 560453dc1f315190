package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atlasfx/fxrates/internal/apperrors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const keyPrefix = "fx_rate:"

// RedisRateCache implements ports RateCache on top of Redis. Values are stored
// as decimal strings so no precision is lost crossing the wire. Expiry is
// handled by Redis TTLs; nothing here evicts entries explicitly.
type RedisRateCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisRateCache creates a new RedisRateCache around an existing client.
func NewRedisRateCache(client *redis.Client, logger *slog.Logger) *RedisRateCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisRateCache{
		client: client,
		logger: logger.With(slog.String("component", "rate_cache")),
	}
}

// CacheKey builds the cache key for a pair. Codes are uppercased so usd/USD
// collide on the same entry.
func CacheKey(baseCurrency, targetCurrency string) string {
	return keyPrefix + strings.ToUpper(baseCurrency) + ":" + strings.ToUpper(targetCurrency)
}

// GetRate returns the cached rate for the pair; a missing key is a miss, not
// an error.
func (c *RedisRateCache) GetRate(ctx context.Context, baseCurrency, targetCurrency string) (decimal.Decimal, bool, error) {
	key := CacheKey(baseCurrency, targetCurrency)

	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Decimal{}, false, nil
	}
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("%w: cache get %s: %v", apperrors.ErrStorage, key, err)
	}

	rate, err := decimal.NewFromString(val)
	if err != nil {
		// A corrupt entry is treated as a miss so resolution falls back to the store.
		c.logger.Warn("Discarding unparseable cache entry", slog.String("key", key), slog.String("value", val))
		return decimal.Decimal{}, false, nil
	}

	return rate, true, nil
}

// PutRate stores the rate with the given TTL; last write wins.
func (c *RedisRateCache) PutRate(ctx context.Context, baseCurrency, targetCurrency string, rate decimal.Decimal, ttl time.Duration) error {
	key := CacheKey(baseCurrency, targetCurrency)

	if err := c.client.Set(ctx, key, rate.String(), ttl).Err(); err != nil {
		return fmt.Errorf("%w: cache set %s: %v", apperrors.ErrStorage, key, err)
	}
	return nil
}
