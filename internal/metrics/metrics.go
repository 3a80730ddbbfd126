package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	// QueriesTotal counts restaurant queries by operation and outcome.
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restreviews_queries_total",
			Help: "Total number of restaurant queries",
		},
		[]string{"operation", "outcome"},
	)
	// QueryDuration is the latency of restaurant queries.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restreviews_query_duration_seconds",
			Help:    "Restaurant query latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// ObserveQuery records one finished query.
func ObserveQuery(operation, outcome string, started time.Time) {
	QueriesTotal.WithLabelValues(operation, outcome).Inc()
	QueryDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}
