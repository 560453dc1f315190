package services

import (
	"context"

	"github.com/atlasfx/fxrates/internal/dto"
	"github.com/atlasfx/fxrates/internal/models"
	"github.com/shopspring/decimal"
)

// ConverterSvc turns a resolved rate plus a requested amount into an audited
// monetary result.
type ConverterSvc interface {
	// Convert resolves the pair, applies the configured margin and persists a
	// ConversionAudit. Success is only reported once the audit row committed.
	Convert(ctx context.Context, amount decimal.Decimal, baseCurrency, targetCurrency string) (*dto.ConversionResponse, error)
}

// ConversionBrowserSvc exposes stored conversion audits for browsing.
type ConversionBrowserSvc interface {
	ListConversions(ctx context.Context, page, pageSize int) ([]models.ConversionAudit, int, error)
}

// ConversionSvcFacade combines all conversion-related service interfaces.
type ConversionSvcFacade interface {
	ConverterSvc
	ConversionBrowserSvc
}
