package scheduler

import (
	"context"
	"log/slog"

	portssvc "github.com/atlasfx/fxrates/internal/core/ports/services"
	"github.com/robfig/cron/v3"
)

// IngestionScheduler runs the ingestion job on a cron schedule, decoupled
// from the request-serving workers. A run failure is logged and the next
// schedule slot tries again; there is no cross-run state.
type IngestionScheduler struct {
	cron      *cron.Cron
	ingestion portssvc.IngestionSvc
	spec      string
	logger    *slog.Logger
}

// NewIngestionScheduler creates a scheduler for the given cron spec
// (standard 5-field syntax).
func NewIngestionScheduler(ingestion portssvc.IngestionSvc, spec string, logger *slog.Logger) *IngestionScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestionScheduler{
		cron:      cron.New(),
		ingestion: ingestion,
		spec:      spec,
		logger:    logger.With(slog.String("component", "ingestion_scheduler")),
	}
}

// Start registers the job and starts the cron loop in its own goroutine.
func (s *IngestionScheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.ingestion.RunOnce(ctx); err != nil {
			s.logger.Error("Scheduled ingestion run failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Ingestion scheduler started", slog.String("cron", s.spec))
	return nil
}

// Stop halts the cron loop, waiting for a running job to finish.
func (s *IngestionScheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Ingestion scheduler stopped")
}
