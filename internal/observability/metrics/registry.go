package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// namespace prefixes every metric name.
const namespace = "selfoss"

var sizeBuckets = prometheus.ExponentialBuckets(100, 10, 6)

func counterVec(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem, Name: name, Help: help,
	}, labels)
}

func histogramVec(subsystem, name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: subsystem, Name: name, Help: help, Buckets: buckets,
	}, labels)
}

func gauge(subsystem, name, help string) prometheus.Gauge {
	return promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: subsystem, Name: name, Help: help,
	})
}

// HTTP server. Paths are route templates, never raw URLs.
var (
	HTTPRequestsTotal = counterVec("http", "requests_total",
		"Total number of HTTP requests", "method", "path", "status")
	HTTPRequestDuration = histogramVec("http", "request_duration_seconds",
		"HTTP request duration in seconds", prometheus.DefBuckets, "method", "path", "status")
	HTTPRequestSize = histogramVec("http", "request_size_bytes",
		"HTTP request body size in bytes", sizeBuckets, "method", "path")
	HTTPResponseSize = histogramVec("http", "response_size_bytes",
		"HTTP response body size in bytes", sizeBuckets, "method", "path")
	HTTPRateLimited = counterVec("http", "rate_limited_total",
		"Requests rejected by the write rate limiter", "method", "path")
)

// Sources and spouts.
var (
	// SourcesTotal and SourcesFailing are refreshed whenever the full list is read.
	SourcesTotal   = gauge("sources", "configured", "Number of configured sources")
	SourcesFailing = gauge("sources", "failing", "Number of sources whose last fetch failed")

	SourceOperationsTotal = counterVec("sources", "operations_total",
		"Source operations by result", "operation", "result")
	SourceValidationErrors = counterVec("sources", "validation_errors_total",
		"Rejected form fields", "field")
	SpoutReloadsTotal = counterVec("spouts", "reloads_total",
		"Reloads of the spout definitions file by result", "result")
)

// Storage.
var (
	DBQueryDuration = histogramVec("db", "query_duration_seconds",
		"Database query duration in seconds", prometheus.ExponentialBuckets(0.001, 2, 10), "operation")
	DBConnectionsActive = gauge("db", "connections_active", "Database connections in use")
	DBConnectionsIdle   = gauge("db", "connections_idle", "Idle database connections")

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "circuit_breaker", Name: "state",
		Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
	}, []string{"name"})
	CircuitBreakerRejections = counterVec("circuit_breaker", "rejections_total",
		"Calls refused without reaching the dependency", "name")
)

// RecordHTTPRequest records one served request. Zero sizes are not observed.
func RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordRateLimited counts a request rejected by the write limiter.
func RecordRateLimited(method, path string) {
	HTTPRateLimited.WithLabelValues(method, path).Inc()
}
