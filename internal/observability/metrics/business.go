package metrics

import (
	"time"
)

// Result labels for SourceOperationsTotal.
const (
	ResultSuccess  = "success"
	ResultInvalid  = "invalid"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// RecordSourceOperation counts one use case call.
// Result should be one of the Result* constants.
func RecordSourceOperation(operation, result string) {
	SourceOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordValidationErrors counts every field that failed validation.
func RecordValidationErrors(fields map[string]string) {
	for field := range fields {
		SourceValidationErrors.WithLabelValues(field).Inc()
	}
}

// UpdateSourceCounts sets the source gauges from a freshly read list.
func UpdateSourceCounts(total, failing int) {
	SourcesTotal.Set(float64(total))
	SourcesFailing.Set(float64(failing))
}

// RecordSpoutReload counts one reload of the spout definitions file.
func RecordSpoutReload(err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	SpoutReloadsTotal.WithLabelValues(result).Inc()
}

// RecordDBQuery records the duration of a database query.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates the database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}

// SetCircuitBreakerState publishes the state of the named breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordCircuitBreakerRejection counts a call refused by an open breaker.
func RecordCircuitBreakerRejection(name string) {
	CircuitBreakerRejections.WithLabelValues(name).Inc()
}
