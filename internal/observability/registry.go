package observability

import "time"

// MetricsRegistry provides an interface for recording application metrics.
// Components receive it by injection instead of touching the Prometheus globals.
type MetricsRegistry interface {
	// HTTP Request metrics
	IncrementRequests(endpoint, method, status string)
	RecordRequestLatency(endpoint, method string, duration time.Duration)

	// Lens API metrics
	IncrementLensRequests(operation, outcome string)
	RecordLensLatency(operation string, duration time.Duration)

	// Report metrics
	IncrementReports(outcome string)
	IncrementAccessDenied(reason string)
	IncrementRateLimitHits()
}

// PrometheusRegistry implements MetricsRegistry using the global Prometheus metrics
type PrometheusRegistry struct{}

// NewPrometheusRegistry creates a new PrometheusRegistry
func NewPrometheusRegistry() *PrometheusRegistry {
	return &PrometheusRegistry{}
}

// HTTP Request metrics
func (r *PrometheusRegistry) IncrementRequests(endpoint, method, status string) {
	RequestCount.WithLabelValues(endpoint, method, status).Inc()
}

func (r *PrometheusRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {
	RequestLatency.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

// Lens API metrics
func (r *PrometheusRegistry) IncrementLensRequests(operation, outcome string) {
	LensRequests.WithLabelValues(operation, outcome).Inc()
}

func (r *PrometheusRegistry) RecordLensLatency(operation string, duration time.Duration) {
	LensLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// Report metrics
func (r *PrometheusRegistry) IncrementReports(outcome string) {
	ReportCount.WithLabelValues(outcome).Inc()
}

func (r *PrometheusRegistry) IncrementAccessDenied(reason string) {
	AccessDenied.WithLabelValues(reason).Inc()
}

func (r *PrometheusRegistry) IncrementRateLimitHits() {
	RateLimitHits.Inc()
}

// NoOpRegistry implements MetricsRegistry with no-op methods for testing
type NoOpRegistry struct{}

// NewNoOpRegistry creates a new NoOpRegistry
func NewNoOpRegistry() *NoOpRegistry {
	return &NoOpRegistry{}
}

func (r *NoOpRegistry) IncrementRequests(endpoint, method, status string)                    {}
func (r *NoOpRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {}
func (r *NoOpRegistry) IncrementLensRequests(operation, outcome string)                      {}
func (r *NoOpRegistry) RecordLensLatency(operation string, duration time.Duration)           {}
func (r *NoOpRegistry) IncrementReports(outcome string)                                      {}
func (r *NoOpRegistry) IncrementAccessDenied(reason string)                                  {}
func (r *NoOpRegistry) IncrementRateLimitHits()                                              {}
