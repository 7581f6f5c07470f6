package performance

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecordedEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_events_recorded_total",
			Help: "Count of recorded product engagement events by event type.",
		},
		[]string{"event"},
	)

	TelemetryFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_telemetry_failures_total",
			Help: "Count of telemetry deliveries that failed, by event type.",
		},
		[]string{"event"},
	)

	StorageFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_metrics_storage_failures_total",
			Help: "Count of swallowed metrics store failures by operation.",
		},
		[]string{"op"},
	)

	OptimizeRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_optimize_runs_total",
		Help: "Total auto-optimize runs.",
	})

	OptimizeStepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_optimize_steps_total",
			Help: "Auto-optimize catalog calls by step and outcome.",
		},
		[]string{"step", "status"},
	)
)

// RegisterMetrics adds the engine counters to the default registry.
// Call it once at startup.
func RegisterMetrics() {
	prometheus.MustRegister(
		RecordedEventsTotal,
		TelemetryFailuresTotal,
		StorageFailuresTotal,
		OptimizeRunsTotal,
		OptimizeStepsTotal,
	)
}
