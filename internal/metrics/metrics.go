package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	// Writes per resource and operation
	RecordWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_record_writes_total",
			Help: "Total number of records created, updated, upserted or deleted",
		},
		[]string{"resource", "op"}, // op: create, update, upsert, delete
	)

	// List cache lookups
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_cache_lookups_total",
			Help: "List cache lookups by result",
		},
		[]string{"resource", "result"}, // result: hit, miss, error
	)
)

func RecordHTTPRequestDuration(method, route, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func IncrementRecordWrite(resource, op string) {
	RecordWrites.WithLabelValues(resource, op).Inc()
}

func IncrementCacheLookup(resource, result string) {
	CacheLookups.WithLabelValues(resource, result).Inc()
}
