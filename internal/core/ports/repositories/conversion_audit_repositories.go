package repositories

import (
	"context"

	"github.com/atlasfx/fxrates/internal/models"
)

// ConversionAuditWriter persists conversion audit rows.
type ConversionAuditWriter interface {
	// SaveConversionAudit inserts the audit row in its own transaction. It is
	// the sole write of a conversion; callers only report success after it commits.
	SaveConversionAudit(ctx context.Context, audit models.ConversionAudit) error
}

// ConversionAuditReader reads back conversion audit rows.
type ConversionAuditReader interface {
	// ListConversionAudits returns audits newest first, paginated.
	ListConversionAudits(ctx context.Context, page, pageSize int) ([]models.ConversionAudit, int, error)
}

// ConversionAuditRepository combines audit read and write access.
type ConversionAuditRepository interface {
	ConversionAuditReader
	ConversionAuditWriter
}
