package pgsql

import (
	"context"
	"fmt"

	"github.com/atlasfx/fxrates/internal/apperrors"
	"github.com/atlasfx/fxrates/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxConversionAuditRepository implements ports ConversionAuditRepository
// using pgxpool. Audit rows are immutable once written; the referenced rate
// record is protected by a plain FK, so a rate row cannot be removed while
// audits reference it.
type PgxConversionAuditRepository struct {
	BaseRepository
}

// NewPgxConversionAuditRepository creates a new PgxConversionAuditRepository.
func NewPgxConversionAuditRepository(db *pgxpool.Pool) *PgxConversionAuditRepository {
	return &PgxConversionAuditRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

const conversionAuditColumns = `audit_id, rate_record_id, input_amount, output_amount, margin_applied, converted_at`

// SaveConversionAudit inserts the audit row inside its own transaction. It is
// the only write a conversion performs; the caller reports success only after
// this commits.
func (r *PgxConversionAuditRepository) SaveConversionAudit(ctx context.Context, audit models.ConversionAudit) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to begin audit insert: %v", apperrors.ErrStorage, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO conversion_audits (`+conversionAuditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		audit.AuditID, audit.RateRecordID, audit.InputAmount,
		audit.OutputAmount, audit.MarginApplied, audit.ConvertedAt,
	)
	if err != nil {
		_ = r.Rollback(ctx, tx)
		return fmt.Errorf("%w: failed to save conversion audit: %v", apperrors.ErrStorage, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return fmt.Errorf("%w: failed to commit conversion audit: %v", apperrors.ErrStorage, err)
	}
	return nil
}

// ListConversionAudits returns audits newest first, paginated.
func (r *PgxConversionAuditRepository) ListConversionAudits(ctx context.Context, page, pageSize int) ([]models.ConversionAudit, int, error) {
	var total int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM conversion_audits`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: failed to count conversion audits: %v", apperrors.ErrStorage, err)
	}

	if total == 0 {
		return []models.ConversionAudit{}, 0, nil
	}

	query := `
		SELECT ` + conversionAuditColumns + `
		FROM conversion_audits
		ORDER BY converted_at DESC, audit_id DESC
	`
	args := []interface{}{}
	if pageSize > 0 {
		offset := (page - 1) * pageSize
		query += " LIMIT $1 OFFSET $2"
		args = append(args, pageSize, offset)
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to list conversion audits: %v", apperrors.ErrStorage, err)
	}
	defer rows.Close()

	var audits []models.ConversionAudit
	for rows.Next() {
		var audit models.ConversionAudit
		err := rows.Scan(
			&audit.AuditID, &audit.RateRecordID, &audit.InputAmount,
			&audit.OutputAmount, &audit.MarginApplied, &audit.ConvertedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: failed to scan conversion audit: %v", apperrors.ErrStorage, err)
		}
		audits = append(audits, audit)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: error iterating conversion audits: %v", apperrors.ErrStorage, err)
	}

	return audits, total, nil
}
