package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of every HTTP handler, by route template
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latency of HTTP handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// Calls to the external catalog service
	CatalogRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_requests_total",
		Help: "Catalog service calls by operation and outcome",
	}, []string{"op", "outcome"})

	// 0 closed, 1 half-open, 2 open
	CatalogBreakerState = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_circuit_breaker_state",
		Help: "State of the catalog service circuit breaker",
	})
)

func Init() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		CatalogRequests,
		CatalogBreakerState,
	)
}
