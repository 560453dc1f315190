package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FxMetrics holds the Prometheus counters for the rate pipeline.
type FxMetrics struct {
	RatesIngestedTotal    prometheus.Counter
	RatesSkippedTotal     prometheus.Counter
	IngestionRunsTotal    *prometheus.CounterVec
	CacheHitsTotal        prometheus.Counter
	CacheMissesTotal      prometheus.Counter
	ResolutionsTotal      *prometheus.CounterVec
	ConversionsTotal      *prometheus.CounterVec
	ResolutionErrorsTotal prometheus.Counter
}

// NewFxMetrics registers and returns the service metrics.
func NewFxMetrics() *FxMetrics {
	return &FxMetrics{
		RatesIngestedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fx_rates_ingested_total",
			Help: "Total number of rate records committed by ingestion runs",
		}),
		RatesSkippedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fx_rates_skipped_total",
			Help: "Total number of non-positive rates skipped before batch insert",
		}),
		IngestionRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fx_ingestion_runs_total",
			Help: "Total ingestion runs by outcome",
		}, []string{"outcome"}),
		CacheHitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fx_rate_cache_hits_total",
			Help: "Total rate resolutions served from the cache",
		}),
		CacheMissesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fx_rate_cache_misses_total",
			Help: "Total rate resolutions that fell back to the store",
		}),
		ResolutionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fx_resolutions_total",
			Help: "Total rate resolutions by result",
		}, []string{"result"}),
		ConversionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fx_conversions_total",
			Help: "Total conversion requests by result",
		}, []string{"result"}),
		ResolutionErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fx_resolution_storage_errors_total",
			Help: "Total storage faults observed during rate resolution",
		}),
	}
}
