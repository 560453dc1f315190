package repositories

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateProvider is the external source of pivot-denominated rates.
type RateProvider interface {
	// FetchLatestRates returns a mapping of 3-letter currency code to rate,
	// all denominated against the pivot currency. Failures are wrapped in
	// apperrors.ErrExternalSource.
	FetchLatestRates(ctx context.Context) (map[string]decimal.Decimal, error)
	// ProviderName identifies the source, recorded on every ingested record.
	ProviderName() string
}
