package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateCache fronts the rate store for recently resolved pairs. Implementations
// are injected into the resolution service so tests can substitute an
// in-memory fake for the real Redis client.
//
// Absence of a rate is never cached; only successfully resolved values are put.
type RateCache interface {
	// GetRate returns the cached rate for the pair and whether it was present.
	// A miss is not an error.
	GetRate(ctx context.Context, baseCurrency, targetCurrency string) (decimal.Decimal, bool, error)
	// PutRate stores the rate with the given TTL, overwriting any prior value.
	PutRate(ctx context.Context, baseCurrency, targetCurrency string, rate decimal.Decimal, ttl time.Duration) error
}
