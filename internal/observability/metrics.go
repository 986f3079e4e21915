// Package observability wires Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"sync"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parley_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "parley_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// GatewayForwards counts gateway forwards by target service and outcome.
	GatewayForwards = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parley_gateway_forwards_total",
		Help: "Total number of gateway forwards by target service and outcome",
	}, []string{"target", "outcome"})

	// SearchIndexOps counts search index writes by operation and outcome.
	SearchIndexOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parley_search_index_operations_total",
		Help: "Total number of search index operations by type and outcome",
	}, []string{"operation", "outcome"})
)

var (
	httpMetricsMu sync.Mutex
	httpMetrics   = map[string]*fiberprometheus.FiberPrometheus{}
)

// NewHTTPMetrics returns the fiberprometheus middleware for the named service.
// Register it on the app and expose it with RegisterAt(app, "/metrics").
// The middleware is created once per service name; fiberprometheus registers
// collectors globally and a second registration would panic.
func NewHTTPMetrics(service string) *fiberprometheus.FiberPrometheus {
	httpMetricsMu.Lock()
	defer httpMetricsMu.Unlock()

	if prom, ok := httpMetrics[service]; ok {
		return prom
	}
	prom := fiberprometheus.New(service)
	httpMetrics[service] = prom
	return prom
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
