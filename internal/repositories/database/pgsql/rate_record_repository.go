package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atlasfx/fxrates/internal/apperrors"
	"github.com/atlasfx/fxrates/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRateRecordRepository implements ports RateRecordRepository using pgxpool.
// The rate_records table is append-only; this repository exposes no update or
// delete operation.
type PgxRateRecordRepository struct {
	BaseRepository
}

// NewPgxRateRecordRepository creates a new PgxRateRecordRepository.
func NewPgxRateRecordRepository(db *pgxpool.Pool) *PgxRateRecordRepository {
	return &PgxRateRecordRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

const rateRecordColumns = `rate_record_id, base_currency, target_currency, rate_value, provider_name, fetched_at`

// InsertRateBatch inserts all records in a single transaction; queries never
// observe a partial batch. Callers filter invalid entries beforehand.
func (r *PgxRateRecordRepository) InsertRateBatch(ctx context.Context, records []models.RateRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to begin batch insert: %v", apperrors.ErrStorage, err)
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(`
			INSERT INTO rate_records (`+rateRecordColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			rec.RateRecordID,
			strings.ToUpper(rec.BaseCurrency),
			strings.ToUpper(rec.TargetCurrency),
			rec.RateValue,
			rec.ProviderName,
			rec.FetchedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	var execErr error
	for range records {
		if _, err := br.Exec(); err != nil {
			execErr = err
			break
		}
	}
	if err := br.Close(); err != nil && execErr == nil {
		execErr = err
	}

	if execErr != nil {
		_ = r.Rollback(ctx, tx)
		return fmt.Errorf("%w: failed to insert rate batch: %v", apperrors.ErrStorage, execErr)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return fmt.Errorf("%w: failed to commit rate batch: %v", apperrors.ErrStorage, err)
	}
	return nil
}

// FindLatestRate retrieves the most recent record for the exact pair. The id
// tiebreak keeps the result stable when two records share a fetched_at.
func (r *PgxRateRecordRepository) FindLatestRate(ctx context.Context, baseCurrency, targetCurrency string) (*models.RateRecord, error) {
	query := `
		SELECT ` + rateRecordColumns + `
		FROM rate_records
		WHERE base_currency = $1 AND target_currency = $2
		ORDER BY fetched_at DESC, rate_record_id DESC
		LIMIT 1;
	`

	var rec models.RateRecord
	err := r.Pool.QueryRow(ctx, query, strings.ToUpper(baseCurrency), strings.ToUpper(targetCurrency)).Scan(
		&rec.RateRecordID, &rec.BaseCurrency, &rec.TargetCurrency,
		&rec.RateValue, &rec.ProviderName, &rec.FetchedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no rate record for %s/%s", apperrors.ErrNotFound, strings.ToUpper(baseCurrency), strings.ToUpper(targetCurrency))
		}
		return nil, fmt.Errorf("%w: failed to find latest rate: %v", apperrors.ErrStorage, err)
	}

	return &rec, nil
}

// FindRateByID retrieves a rate record by its surrogate id.
func (r *PgxRateRecordRepository) FindRateByID(ctx context.Context, rateRecordID string) (*models.RateRecord, error) {
	query := `
		SELECT ` + rateRecordColumns + `
		FROM rate_records
		WHERE rate_record_id = $1;
	`

	var rec models.RateRecord
	err := r.Pool.QueryRow(ctx, query, rateRecordID).Scan(
		&rec.RateRecordID, &rec.BaseCurrency, &rec.TargetCurrency,
		&rec.RateValue, &rec.ProviderName, &rec.FetchedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: rate record %s not found", apperrors.ErrNotFound, rateRecordID)
		}
		return nil, fmt.Errorf("%w: failed to get rate record by ID: %v", apperrors.ErrStorage, err)
	}

	return &rec, nil
}

// ListRates retrieves rate history with optional filtering, newest first.
func (r *PgxRateRecordRepository) ListRates(
	ctx context.Context,
	baseCurrency, targetCurrency *string,
	fetchedBefore *time.Time,
	page, pageSize int,
) ([]models.RateRecord, int, error) {
	baseQuery := `FROM rate_records WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if baseCurrency != nil {
		baseQuery += fmt.Sprintf(" AND base_currency = $%d", argNum)
		args = append(args, strings.ToUpper(*baseCurrency))
		argNum++
	}

	if targetCurrency != nil {
		baseQuery += fmt.Sprintf(" AND target_currency = $%d", argNum)
		args = append(args, strings.ToUpper(*targetCurrency))
		argNum++
	}

	if fetchedBefore != nil {
		baseQuery += fmt.Sprintf(" AND fetched_at <= $%d", argNum)
		args = append(args, *fetchedBefore)
		argNum++
	}

	var total int
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: failed to count rate records: %v", apperrors.ErrStorage, err)
	}

	if total == 0 {
		return []models.RateRecord{}, 0, nil
	}

	baseQuery += " ORDER BY fetched_at DESC, rate_record_id DESC"
	if pageSize > 0 {
		offset := (page - 1) * pageSize
		baseQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argNum, argNum+1)
		args = append(args, pageSize, offset)
	}

	rows, err := r.Pool.Query(ctx, "SELECT "+rateRecordColumns+" "+baseQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to list rate records: %v", apperrors.ErrStorage, err)
	}
	defer rows.Close()

	var recs []models.RateRecord
	for rows.Next() {
		var rec models.RateRecord
		err := rows.Scan(
			&rec.RateRecordID, &rec.BaseCurrency, &rec.TargetCurrency,
			&rec.RateValue, &rec.ProviderName, &rec.FetchedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: failed to scan rate record: %v", apperrors.ErrStorage, err)
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: error iterating rate records: %v", apperrors.ErrStorage, err)
	}

	return recs, total, nil
}
