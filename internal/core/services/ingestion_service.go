package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atlasfx/fxrates/internal/apperrors"
	portsrepo "github.com/atlasfx/fxrates/internal/core/ports/repositories"
	"github.com/atlasfx/fxrates/internal/metrics"
	"github.com/atlasfx/fxrates/internal/models"
	"github.com/google/uuid"
)

// attemptOutcome classifies a single ingestion attempt so the retry loop, not
// the fetch logic, owns the retry decision.
type attemptOutcome int

const (
	outcomeOK attemptOutcome = iota
	outcomeRetryable
	outcomeFatal
)

type attemptResult struct {
	outcome   attemptOutcome
	committed int
	err       error
}

// IngestionService fetches the latest pivot-denominated rates from the
// provider and commits them to the store as one atomic batch per run.
type IngestionService struct {
	provider   portsrepo.RateProvider
	rateRepo   portsrepo.RateRecordWriter
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
	metrics    *metrics.FxMetrics
}

// NewIngestionService creates a new IngestionService. metrics may be nil.
func NewIngestionService(
	provider portsrepo.RateProvider,
	rateRepo portsrepo.RateRecordWriter,
	maxRetries int,
	retryDelay time.Duration,
	logger *slog.Logger,
	m *metrics.FxMetrics,
) *IngestionService {
	if logger == nil {
		logger = slog.Default()
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &IngestionService{
		provider:   provider,
		rateRepo:   rateRepo,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger.With(slog.String("component", "ingestion")),
		metrics:    m,
	}
}

// RunOnce performs a full ingestion run: bounded attempts with a fixed delay
// between them, then the run is reported failed with nothing committed.
func (s *IngestionService) RunOnce(ctx context.Context) (int, error) {
	s.logger.Info("Starting ingestion run")

	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		res := s.attempt(ctx)
		switch res.outcome {
		case outcomeOK:
			s.logger.Info("Ingestion run committed", slog.Int("records", res.committed), slog.Int("attempt", attempt))
			s.countRun("ok")
			return res.committed, nil
		case outcomeFatal:
			s.logger.Error("Ingestion run failed fatally", slog.Int("attempt", attempt), slog.String("error", res.err.Error()))
			s.countRun("fatal")
			return 0, res.err
		case outcomeRetryable:
			lastErr = res.err
			s.logger.Warn("Ingestion attempt failed",
				slog.Int("attempt", attempt), slog.Int("max_attempts", s.maxRetries), slog.String("error", res.err.Error()))
			if attempt < s.maxRetries {
				select {
				case <-time.After(s.retryDelay):
				case <-ctx.Done():
					s.countRun("canceled")
					return 0, ctx.Err()
				}
			}
		}
	}

	s.logger.Error("Ingestion run failed after exhausting retries",
		slog.Int("attempts", s.maxRetries), slog.String("error", lastErr.Error()))
	s.countRun("failed")
	return 0, fmt.Errorf("ingestion failed after %d attempts: %w", s.maxRetries, lastErr)
}

// attempt performs one fetch-and-commit cycle and classifies its result.
// Provider and storage faults are retryable; a payload the provider marked
// valid but that produces no usable records is fatal for the run.
func (s *IngestionService) attempt(ctx context.Context) attemptResult {
	rates, err := s.provider.FetchLatestRates(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrExternalSource) {
			return attemptResult{outcome: outcomeRetryable, err: err}
		}
		return attemptResult{outcome: outcomeFatal, err: err}
	}

	fetchedAt := time.Now().UTC()
	records := make([]models.RateRecord, 0, len(rates))
	for code, rate := range rates {
		if rate.Sign() <= 0 {
			s.logger.Warn("Skipping non-positive rate",
				slog.String("target", code), slog.String("rate", rate.String()))
			s.countSkipped()
			continue
		}
		records = append(records, models.RateRecord{
			RateRecordID:   uuid.NewString(),
			BaseCurrency:   models.PivotCurrency,
			TargetCurrency: code,
			RateValue:      rate,
			ProviderName:   s.provider.ProviderName(),
			FetchedAt:      fetchedAt,
		})
	}

	if len(records) == 0 {
		return attemptResult{
			outcome: outcomeFatal,
			err:     fmt.Errorf("%w: provider returned no usable rates", apperrors.ErrExternalSource),
		}
	}

	if err := s.rateRepo.InsertRateBatch(ctx, records); err != nil {
		return attemptResult{outcome: outcomeRetryable, err: err}
	}

	s.countIngested(len(records))
	return attemptResult{outcome: outcomeOK, committed: len(records)}
}

func (s *IngestionService) countRun(outcome string) {
	if s.metrics != nil {
		s.metrics.IngestionRunsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *IngestionService) countSkipped() {
	if s.metrics != nil {
		s.metrics.RatesSkippedTotal.Inc()
	}
}

func (s *IngestionService) countIngested(n int) {
	if s.metrics != nil {
		s.metrics.RatesIngestedTotal.Add(float64(n))
	}
}
