package dto

import (
	"time"

	"github.com/atlasfx/fxrates/internal/models"
	"github.com/shopspring/decimal"
)

// LatestRateQuery binds the query parameters of a rate lookup.
type LatestRateQuery struct {
	Base   string `form:"base" binding:"required,currency"`
	Target string `form:"target" binding:"required,currency"`
}

// LatestRateResponse is returned by the rate lookup endpoint.
type LatestRateResponse struct {
	BaseCurrency   string          `json:"baseCurrency"`
	TargetCurrency string          `json:"targetCurrency"`
	Rate           decimal.Decimal `json:"rate"`
	Margin         decimal.Decimal `json:"margin"`
	FetchedAt      time.Time       `json:"fetchedAt"`
}

// RateRecordResponse is the API view of a stored rate record.
type RateRecordResponse struct {
	RateRecordID   string          `json:"rateRecordID"`
	BaseCurrency   string          `json:"baseCurrency"`
	TargetCurrency string          `json:"targetCurrency"`
	RateValue      decimal.Decimal `json:"rateValue"`
	ProviderName   string          `json:"providerName"`
	FetchedAt      time.Time       `json:"fetchedAt"`
}

// ListRatesResponse is the paginated rate history listing.
type ListRatesResponse struct {
	Rates    []RateRecordResponse `json:"rates"`
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"pageSize"`
}

// ToRateRecordResponse converts a models.RateRecord to its API view.
func ToRateRecordResponse(rec models.RateRecord) RateRecordResponse {
	return RateRecordResponse{
		RateRecordID:   rec.RateRecordID,
		BaseCurrency:   rec.BaseCurrency,
		TargetCurrency: rec.TargetCurrency,
		RateValue:      rec.RateValue,
		ProviderName:   rec.ProviderName,
		FetchedAt:      rec.FetchedAt,
	}
}

// ToListRatesResponse converts a page of rate records to the listing DTO.
func ToListRatesResponse(recs []models.RateRecord, total, page, pageSize int) ListRatesResponse {
	out := make([]RateRecordResponse, len(recs))
	for i, rec := range recs {
		out[i] = ToRateRecordResponse(rec)
	}
	return ListRatesResponse{Rates: out, Total: total, Page: page, PageSize: pageSize}
}
