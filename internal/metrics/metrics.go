package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream calls, query cache behavior and degraded responses, partitioned by service or operation.

var (
	// Upstream services
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "swapbridge",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Total outbound requests by service and outcome",
	}, []string{"service", "outcome"})

	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "swapbridge",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Outbound request duration",
		Buckets:   []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"service"})

	RateLimitWaits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "swapbridge",
		Subsystem: "upstream",
		Name:      "rate_limit_waits_total",
		Help:      "Total times an outbound call waited on the local rate limiter",
	}, []string{"service"})

	// Query cache
	QueryCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "swapbridge",
		Subsystem: "query",
		Name:      "cache_total",
		Help:      "Query cache lookups by operation and result (hit, miss, shared)",
	}, []string{"operation", "result"})

	QueryRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "swapbridge",
		Subsystem: "query",
		Name:      "retries_total",
		Help:      "Total retried query loads",
	}, []string{"operation"})

	// Degraded results
	FallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "swapbridge",
		Subsystem: "quote",
		Name:      "fallbacks_total",
		Help:      "Total placeholder results returned because an upstream was unavailable",
	}, []string{"operation"})

	// API
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "swapbridge",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Total API requests by method and status code",
	}, []string{"method", "status"})
)
