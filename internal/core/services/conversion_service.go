package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atlasfx/fxrates/internal/apperrors"
	portsrepo "github.com/atlasfx/fxrates/internal/core/ports/repositories"
	portssvc "github.com/atlasfx/fxrates/internal/core/ports/services"
	"github.com/atlasfx/fxrates/internal/dto"
	"github.com/atlasfx/fxrates/internal/metrics"
	"github.com/atlasfx/fxrates/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	adjustedRatePlaces = 4
	amountPlaces       = 2
	marginPlaces       = 4
)

// ConversionService applies the configured margin to a resolved rate and
// records every successful conversion as an immutable audit row. The audit
// always references the latest pivot->target record, the terminal leg of the
// resolution in both the direct and the cross-rate case.
type ConversionService struct {
	resolver  portssvc.RateResolverSvc
	rateRepo  portsrepo.RateRecordReader
	auditRepo portsrepo.ConversionAuditRepository
	margin    decimal.Decimal
	logger    *slog.Logger
	metrics   *metrics.FxMetrics
}

// NewConversionService creates a new ConversionService. metrics may be nil.
func NewConversionService(
	resolver portssvc.RateResolverSvc,
	rateRepo portsrepo.RateRecordReader,
	auditRepo portsrepo.ConversionAuditRepository,
	margin decimal.Decimal,
	logger *slog.Logger,
	m *metrics.FxMetrics,
) *ConversionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConversionService{
		resolver:  resolver,
		rateRepo:  rateRepo,
		auditRepo: auditRepo,
		margin:    margin.Round(marginPlaces),
		logger:    logger.With(slog.String("component", "conversion")),
		metrics:   m,
	}
}

// Convert resolves the pair, applies the margin and persists the audit row.
// The caller only sees success once the audit committed.
func (s *ConversionService) Convert(ctx context.Context, amount decimal.Decimal, baseCurrency, targetCurrency string) (*dto.ConversionResponse, error) {
	if err := validateAmount(amount); err != nil {
		s.countConversion("invalid")
		return nil, err
	}

	resolution, err := s.resolver.Resolve(ctx, baseCurrency, targetCurrency)
	if err != nil {
		s.countConversion("not_found")
		return nil, err
	}

	adjustedRate := resolution.Rate.
		Mul(decimal.NewFromInt(1).Sub(s.margin)).
		Round(adjustedRatePlaces)
	outputAmount := amount.Mul(adjustedRate).Round(amountPlaces)

	terminal := resolution.TerminalRecord
	if terminal == nil {
		// Cache-served resolution carries no record; load the terminal leg so
		// the audit still references the exact row consulted.
		terminal, err = s.rateRepo.FindLatestRate(ctx, models.PivotCurrency, resolution.TargetCurrency)
		if err != nil {
			s.logger.Error("Failed to load terminal rate record for audit",
				slog.String("target", resolution.TargetCurrency), slog.String("error", err.Error()))
			s.countConversion("error")
			return nil, fmt.Errorf("%w: no resolvable rate for %s/%s", apperrors.ErrNotFound, resolution.BaseCurrency, resolution.TargetCurrency)
		}
	}

	audit := models.ConversionAudit{
		AuditID:       uuid.NewString(),
		RateRecordID:  terminal.RateRecordID,
		InputAmount:   amount.Round(amountPlaces),
		OutputAmount:  outputAmount,
		MarginApplied: s.margin,
		ConvertedAt:   time.Now().UTC(),
	}

	if err := s.auditRepo.SaveConversionAudit(ctx, audit); err != nil {
		s.logger.Error("Failed to persist conversion audit",
			slog.String("base", resolution.BaseCurrency), slog.String("target", resolution.TargetCurrency),
			slog.String("error", err.Error()))
		s.countConversion("error")
		return nil, fmt.Errorf("failed to record conversion: %w", err)
	}

	s.logger.Info("Conversion committed",
		slog.String("audit_id", audit.AuditID),
		slog.String("base", resolution.BaseCurrency),
		slog.String("target", resolution.TargetCurrency),
		slog.String("input_amount", audit.InputAmount.String()),
		slog.String("output_amount", audit.OutputAmount.String()),
	)
	s.countConversion("ok")

	return &dto.ConversionResponse{
		AuditID:        audit.AuditID,
		RateRecordID:   audit.RateRecordID,
		BaseCurrency:   resolution.BaseCurrency,
		TargetCurrency: resolution.TargetCurrency,
		InputAmount:    audit.InputAmount,
		OutputAmount:   audit.OutputAmount,
		AdjustedRate:   adjustedRate,
		MarginApplied:  audit.MarginApplied,
		ConvertedAt:    audit.ConvertedAt,
	}, nil
}

// ListConversions exposes stored conversion audits for browsing.
func (s *ConversionService) ListConversions(ctx context.Context, page, pageSize int) ([]models.ConversionAudit, int, error) {
	return s.auditRepo.ListConversionAudits(ctx, page, pageSize)
}

// validateAmount enforces a positive amount with at most two meaningful
// fractional digits.
func validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if amount.Exponent() < -amountPlaces && !amount.Equal(amount.Round(amountPlaces)) {
		return fmt.Errorf("%w: amount must have at most %d fractional digits", apperrors.ErrValidation, amountPlaces)
	}
	return nil
}

func (s *ConversionService) countConversion(result string) {
	if s.metrics != nil {
		s.metrics.ConversionsTotal.WithLabelValues(result).Inc()
	}
}
