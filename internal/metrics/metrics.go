package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_http_requests_total",
			Help: "Total HTTP requests by method, path and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gate_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	EntriesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_entries_created_total",
			Help: "Gate entries created, by kind",
		},
		[]string{"kind"},
	)

	SerialFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gate_serial_fallbacks_total",
			Help: "Serial allocations that fell back to a best-effort value after a storage error",
		},
	)
)
