package service

import (
	"feasibility/internal/platform/metrics"
	"feasibility/internal/services/collector/resultstore"

	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "collector"

// Metrics counts what happens to inbound documents
type Metrics struct {
	Received           prometheus.Counter
	Skipped            *prometheus.CounterVec
	ResolutionFailures prometheus.Counter
	Stored             prometheus.Counter
	Duplicates         prometheus.Counter
	ResolveSeconds     prometheus.Histogram
	Held               prometheus.GaugeFunc
}

// NewMetrics builds the collector metrics and registers them on reg when non nil
// Held reads store on every scrape
func NewMetrics(reg prometheus.Registerer, store *resultstore.Store) *Metrics {
	return &Metrics{
		Received:           metrics.MustRegisterCounter(reg, subsystem, "events_received_total", "Documents delivered by the subscription."),
		Skipped:            metrics.MustRegisterCounterVec(reg, subsystem, "events_skipped_total", "Documents that are not single site feasibility results.", "reason"),
		ResolutionFailures: metrics.MustRegisterCounter(reg, subsystem, "resolution_failures_total", "Result events whose MeasureReport could not be resolved."),
		Stored:             metrics.MustRegisterCounter(reg, subsystem, "results_stored_total", "Site results stored and announced."),
		Duplicates:         metrics.MustRegisterCounter(reg, subsystem, "events_duplicate_total", "Result events for a pair that already had a result."),
		ResolveSeconds:     metrics.MustRegisterHistogram(reg, subsystem, "resolve_duration_seconds", "Time spent fetching MeasureReports.", prometheus.DefBuckets),
		Held:               metrics.MustRegisterGaugeFunc(reg, subsystem, "results_held", "Site results currently held in memory.", func() float64 {
			return float64(store.Len())
		}),
	}
}
