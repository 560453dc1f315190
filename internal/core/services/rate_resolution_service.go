package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atlasfx/fxrates/internal/apperrors"
	portsrepo "github.com/atlasfx/fxrates/internal/core/ports/repositories"
	portssvc "github.com/atlasfx/fxrates/internal/core/ports/services"
	"github.com/atlasfx/fxrates/internal/metrics"
	"github.com/atlasfx/fxrates/internal/models"
	"github.com/shopspring/decimal"
)

// crossRatePlaces is the fixed precision of a computed cross rate.
const crossRatePlaces = 4

// RateResolutionService resolves a rate for an arbitrary currency pair from a
// store that only holds pivot-denominated records. Lookups are cache-first;
// on a miss the service reads the store, derives a cross rate through the
// pivot when needed and repopulates the cache.
type RateResolutionService struct {
	rateRepo portsrepo.RateRecordReader
	cache    portsrepo.RateCache
	cacheTTL time.Duration
	logger   *slog.Logger
	metrics  *metrics.FxMetrics
}

// NewRateResolutionService creates a new RateResolutionService. The cache is
// an injected capability so tests can substitute an in-memory fake. metrics
// may be nil.
func NewRateResolutionService(
	rateRepo portsrepo.RateRecordReader,
	cache portsrepo.RateCache,
	cacheTTL time.Duration,
	logger *slog.Logger,
	m *metrics.FxMetrics,
) *RateResolutionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateResolutionService{
		rateRepo: rateRepo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With(slog.String("component", "rate_resolution")),
		metrics:  m,
	}
}

// Resolve returns the current rate for the pair. Currency codes are
// normalized to uppercase before any lookup or cache key formation. Callers
// are expected to have rejected identical base/target upstream.
func (s *RateResolutionService) Resolve(ctx context.Context, baseCurrency, targetCurrency string) (*portssvc.Resolution, error) {
	base := strings.ToUpper(baseCurrency)
	target := strings.ToUpper(targetCurrency)

	cached, found, err := s.cache.GetRate(ctx, base, target)
	if err != nil {
		// A broken cache must not take lookups down; fall through to the store.
		s.logger.Warn("Rate cache unavailable, falling back to store",
			slog.String("base", base), slog.String("target", target), slog.String("error", err.Error()))
	}
	if found {
		s.countCacheHit()
		return &portssvc.Resolution{
			BaseCurrency:   base,
			TargetCurrency: target,
			Rate:           cached,
			FromCache:      true,
		}, nil
	}
	s.countCacheMiss()

	var (
		rate     decimal.Decimal
		terminal *models.RateRecord
	)
	if base == models.PivotCurrency {
		rate, terminal, err = s.resolveDirect(ctx, target)
	} else {
		rate, terminal, err = s.resolvePivot(ctx, base, target)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("No resolvable rate for pair",
				slog.String("base", base), slog.String("target", target), slog.String("error", err.Error()))
			s.countResolution("not_found")
			return nil, err
		}
		// Lookup subsystem fault, not an ordinary missing pair: degrade to
		// NotFound for the caller but log loudly for operators.
		s.logger.Error("Storage fault during rate resolution",
			slog.String("base", base), slog.String("target", target), slog.String("error", err.Error()))
		s.countStorageFault()
		s.countResolution("error")
		return nil, fmt.Errorf("%w: no resolvable rate for %s/%s", apperrors.ErrNotFound, base, target)
	}

	if err := s.cache.PutRate(ctx, base, target, rate, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to populate rate cache",
			slog.String("base", base), slog.String("target", target), slog.String("error", err.Error()))
	}

	s.countResolution("ok")
	return &portssvc.Resolution{
		BaseCurrency:   base,
		TargetCurrency: target,
		Rate:           rate,
		TerminalRecord: terminal,
	}, nil
}

// resolveDirect handles the base == pivot case: the latest pivot->target
// record is the answer verbatim.
func (s *RateResolutionService) resolveDirect(ctx context.Context, target string) (decimal.Decimal, *models.RateRecord, error) {
	rec, err := s.rateRepo.FindLatestRate(ctx, models.PivotCurrency, target)
	if err != nil {
		return decimal.Decimal{}, nil, err
	}
	return rec.RateValue, rec, nil
}

// resolvePivot derives base->target through the pivot:
// (1 / (pivot->base)) * (pivot->target), rounded half-up to four places.
// The pivot->target record is the terminal leg of the computation.
func (s *RateResolutionService) resolvePivot(ctx context.Context, base, target string) (decimal.Decimal, *models.RateRecord, error) {
	pivotToBase, err := s.rateRepo.FindLatestRate(ctx, models.PivotCurrency, base)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Decimal{}, nil, fmt.Errorf("%w: missing rate leg %s/%s", apperrors.ErrNotFound, models.PivotCurrency, base)
		}
		return decimal.Decimal{}, nil, err
	}

	pivotToTarget, err := s.rateRepo.FindLatestRate(ctx, models.PivotCurrency, target)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Decimal{}, nil, fmt.Errorf("%w: missing rate leg %s/%s", apperrors.ErrNotFound, models.PivotCurrency, target)
		}
		return decimal.Decimal{}, nil, err
	}

	if pivotToBase.RateValue.IsZero() {
		// Ingestion filters non-positive rates, so this only happens on
		// corrupt data; arithmetic cannot proceed.
		return decimal.Decimal{}, nil, fmt.Errorf("%w: unusable zero rate for leg %s/%s", apperrors.ErrNotFound, models.PivotCurrency, base)
	}

	cross := decimal.NewFromInt(1).
		Div(pivotToBase.RateValue).
		Mul(pivotToTarget.RateValue).
		Round(crossRatePlaces)

	return cross, pivotToTarget, nil
}

// ListRates exposes the stored rate history for administrative browsing.
func (s *RateResolutionService) ListRates(
	ctx context.Context,
	baseCurrency, targetCurrency *string,
	fetchedBefore *time.Time,
	page, pageSize int,
) ([]models.RateRecord, int, error) {
	return s.rateRepo.ListRates(ctx, baseCurrency, targetCurrency, fetchedBefore, page, pageSize)
}

func (s *RateResolutionService) countCacheHit() {
	if s.metrics != nil {
		s.metrics.CacheHitsTotal.Inc()
	}
}

func (s *RateResolutionService) countCacheMiss() {
	if s.metrics != nil {
		s.metrics.CacheMissesTotal.Inc()
	}
}

func (s *RateResolutionService) countResolution(result string) {
	if s.metrics != nil {
		s.metrics.ResolutionsTotal.WithLabelValues(result).Inc()
	}
}

func (s *RateResolutionService) countStorageFault() {
	if s.metrics != nil {
		s.metrics.ResolutionErrorsTotal.Inc()
	}
}
