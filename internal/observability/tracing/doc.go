// Package tracing provides OpenTelemetry tracing for the HTTP server and the
// source use cases.
//
// Init installs the W3C propagator and, when an OTLP endpoint is configured,
// an SDK tracer provider exporting over OTLP/HTTP. Without an endpoint spans
// are still created against the global provider but are not exported.
//
//	shutdown, err := tracing.Init(ctx, tracing.Config{Endpoint: "otel-collector:4318", SampleRatio: 0.1})
//	if err != nil {
//	    return err
//	}
//	defer func() { _ = shutdown(context.Background()) }()
package tracing
