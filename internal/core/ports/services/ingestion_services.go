package services

import "context"

// IngestionSvc runs one scheduled ingestion cycle: fetch the latest
// pivot-denominated rates from the provider and commit them as one batch.
type IngestionSvc interface {
	// RunOnce performs a full ingestion run including the retry loop. It
	// returns the number of records committed, or an error after retries are
	// exhausted; a failed run commits nothing.
	RunOnce(ctx context.Context) (int, error)
}
