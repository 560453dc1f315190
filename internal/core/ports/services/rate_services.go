package services

import (
	"context"
	"time"

	"github.com/atlasfx/fxrates/internal/models"
	"github.com/shopspring/decimal"
)

// Resolution is the outcome of a successful rate resolution.
type Resolution struct {
	BaseCurrency   string
	TargetCurrency string
	Rate           decimal.Decimal
	// FromCache reports whether the rate was served from the cache without
	// touching the store.
	FromCache bool
	// TerminalRecord is the latest pivot->target record, the terminal leg of
	// the computation in both the direct and the pivot branch. It is nil when
	// the rate was served from the cache.
	TerminalRecord *models.RateRecord
}

// RateResolverSvc resolves a usable rate for an arbitrary currency pair from a
// store that only holds pivot-denominated records.
type RateResolverSvc interface {
	// Resolve returns the current rate for the pair, computing a cross rate
	// through the pivot when the base is not the pivot currency. Returns
	// apperrors.ErrNotFound when a leg is missing, naming the missing leg.
	Resolve(ctx context.Context, baseCurrency, targetCurrency string) (*Resolution, error)
}

// RateBrowserSvc exposes the stored rate history for administrative browsing.
type RateBrowserSvc interface {
	ListRates(ctx context.Context, baseCurrency, targetCurrency *string, fetchedBefore *time.Time, page, pageSize int) ([]models.RateRecord, int, error)
}

// RateSvcFacade combines all rate-related service interfaces.
type RateSvcFacade interface {
	RateResolverSvc
	RateBrowserSvc
}
