package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PivotCurrency is the single currency all ingested rates are denominated
// against. Every stored record has BaseCurrency == PivotCurrency.
const PivotCurrency = "EUR"

// RateRecord is an immutable snapshot of an exchange rate at a specific time.
// Records are only ever inserted (batch per ingestion run) and read back;
// history is preserved for audit. No two records share the same
// (base, target, fetched_at) triple.
type RateRecord struct {
	RateRecordID   string          `json:"rateRecordID"`
	BaseCurrency   string          `json:"baseCurrency"`   // 3-letter code, uppercase
	TargetCurrency string          `json:"targetCurrency"` // 3-letter code, uppercase
	RateValue      decimal.Decimal `json:"rateValue"`      // NUMERIC(15,8) in storage
	ProviderName   string          `json:"providerName"`
	FetchedAt      time.Time       `json:"fetchedAt"`
}
