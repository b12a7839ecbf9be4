// Package observability groups the logging, metrics and tracing packages.
//
// Subpackages:
//   - logging: slog loggers with request id propagation
//   - metrics: Prometheus registry and recorders
//   - tracing: OpenTelemetry tracer, provider setup and HTTP middleware
package observability
