// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smakosz_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "smakosz_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// CommentsCreated counts created comments by moderation outcome
	// ("published" for staff authors, "pending" otherwise).
	CommentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smakosz_comments_created_total",
		Help: "Total number of comments created by moderation outcome",
	}, []string{"state"})

	// CartOperations counts cart mutations by operation and backing store.
	CartOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smakosz_cart_operations_total",
		Help: "Total number of cart operations by operation and store kind",
	}, []string{"operation", "store"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		ObserveQuery(operation, table, start)
	}
}
