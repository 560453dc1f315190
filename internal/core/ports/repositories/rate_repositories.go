package repositories

import (
	"context"
	"time"

	"github.com/atlasfx/fxrates/internal/models"
)

// RateRecordReader defines read operations over the rate history.
type RateRecordReader interface {
	// FindLatestRate returns the record with the greatest fetched_at for the
	// exact (base, target) pair, or apperrors.ErrNotFound.
	FindLatestRate(ctx context.Context, baseCurrency, targetCurrency string) (*models.RateRecord, error)
	// FindRateByID retrieves a single record by its surrogate id.
	FindRateByID(ctx context.Context, rateRecordID string) (*models.RateRecord, error)
	// ListRates retrieves rate history with optional pair filters, newest first.
	ListRates(ctx context.Context, baseCurrency, targetCurrency *string, fetchedBefore *time.Time, page, pageSize int) ([]models.RateRecord, int, error)
}

// RateRecordWriter defines write operations over the rate history.
// The store is append-only: there are no update or delete operations.
type RateRecordWriter interface {
	// InsertRateBatch persists a set of records atomically; all succeed or none do.
	InsertRateBatch(ctx context.Context, records []models.RateRecord) error
}

// RateRecordRepository combines read and write access to the rate history.
type RateRecordRepository interface {
	RateRecordReader
	RateRecordWriter
}
