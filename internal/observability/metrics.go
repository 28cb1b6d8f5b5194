package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// total requests per endpoint, method and status code
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pubreport_requests_total",
			Help: "Total HTTP requests received",
		},
		[]string{"endpoint", "method", "status"},
	)

	// request latency in seconds per endpoint/method
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pubreport_request_duration_seconds",
			Help:    "Histogram of request latencies",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	// GraphQL operations sent to the Lens API, labelled by outcome
	LensRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pubreport_lens_requests_total",
			Help: "Total Lens API operations",
		},
		[]string{"operation", "outcome"},
	)

	// Latency of Lens API operations
	LensLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pubreport_lens_request_duration_seconds",
			Help:    "Duration of Lens API operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// report submissions labelled by outcome
	ReportCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pubreport_reports_total",
			Help: "Total publication report submissions",
		},
		[]string{"outcome"},
	)

	// visitors turned away by the access guard
	AccessDenied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pubreport_access_denied_total",
			Help: "Requests answered with the not-found view",
		},
		[]string{"reason"},
	)

	// report submissions rejected by the per-viewer limiter
	RateLimitHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pubreport_ratelimit_hits_total",
			Help: "Total report submissions rejected by rate limiting",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestCount,
		RequestLatency,
		LensRequests,
		LensLatency,
		ReportCount,
		AccessDenied,
		RateLimitHits,
	)
}
