package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConversionAudit is the immutable record written once per successful
// conversion. RateRecordID points at the exact RateRecord consulted: for a
// cross-rate conversion this is the EUR->target record, the terminal leg of
// the computation. MarginApplied is captured at conversion time so the row
// stays self-describing even if the configured margin changes later.
type ConversionAudit struct {
	AuditID       string          `json:"auditID"`
	RateRecordID  string          `json:"rateRecordID"`
	InputAmount   decimal.Decimal `json:"inputAmount"`   // 2 fractional digits
	OutputAmount  decimal.Decimal `json:"outputAmount"`  // 2 fractional digits
	MarginApplied decimal.Decimal `json:"marginApplied"` // 4 fractional digits
	ConvertedAt   time.Time       `json:"convertedAt"`
}
