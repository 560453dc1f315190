package dto

import (
	"time"

	"github.com/atlasfx/fxrates/internal/models"
	"github.com/shopspring/decimal"
)

// ConversionRequest binds the conversion endpoint payload.
type ConversionRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Base   string          `json:"base" binding:"required,currency"`
	Target string          `json:"target" binding:"required,currency"`
}

// ConversionResponse is returned for a committed conversion and mirrors the
// persisted audit row.
type ConversionResponse struct {
	AuditID        string          `json:"auditID"`
	RateRecordID   string          `json:"rateRecordID"`
	BaseCurrency   string          `json:"baseCurrency"`
	TargetCurrency string          `json:"targetCurrency"`
	InputAmount    decimal.Decimal `json:"inputAmount"`
	OutputAmount   decimal.Decimal `json:"outputAmount"`
	AdjustedRate   decimal.Decimal `json:"adjustedRate"`
	MarginApplied  decimal.Decimal `json:"marginApplied"`
	ConvertedAt    time.Time       `json:"convertedAt"`
}

// ConversionAuditResponse is the API view of a stored conversion audit.
type ConversionAuditResponse struct {
	AuditID       string          `json:"auditID"`
	RateRecordID  string          `json:"rateRecordID"`
	InputAmount   decimal.Decimal `json:"inputAmount"`
	OutputAmount  decimal.Decimal `json:"outputAmount"`
	MarginApplied decimal.Decimal `json:"marginApplied"`
	ConvertedAt   time.Time       `json:"convertedAt"`
}

// ListConversionsResponse is the paginated conversion audit listing.
type ListConversionsResponse struct {
	Conversions []ConversionAuditResponse `json:"conversions"`
	Total       int                       `json:"total"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"pageSize"`
}

// ToConversionAuditResponse converts a models.ConversionAudit to its API view.
func ToConversionAuditResponse(audit models.ConversionAudit) ConversionAuditResponse {
	return ConversionAuditResponse{
		AuditID:       audit.AuditID,
		RateRecordID:  audit.RateRecordID,
		InputAmount:   audit.InputAmount,
		OutputAmount:  audit.OutputAmount,
		MarginApplied: audit.MarginApplied,
		ConvertedAt:   audit.ConvertedAt,
	}
}

// ToListConversionsResponse converts a page of audits to the listing DTO.
func ToListConversionsResponse(audits []models.ConversionAudit, total, page, pageSize int) ListConversionsResponse {
	out := make([]ConversionAuditResponse, len(audits))
	for i, audit := range audits {
		out[i] = ToConversionAuditResponse(audit)
	}
	return ListConversionsResponse{Conversions: out, Total: total, Page: page, PageSize: pageSize}
}
