package tracing

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/Nike1016/selfoss/pkg/config"
)

// ServiceName identifies this application in traces.
const ServiceName = "selfoss"

// GetTracer returns the tracer of the current global provider, so spans
// follow a provider installed after start-up.
//
//	ctx, span := tracing.GetTracer().Start(ctx, "source.Create")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.Tracer(ServiceName)
}

// Config controls span export.
type Config struct {
	// Endpoint is the OTLP/HTTP collector host:port. Empty disables export.
	Endpoint string
	Insecure bool
	// SampleRatio is the fraction of root traces recorded, in [0, 1].
	SampleRatio float64
	Version     string
}

// Init installs the global tracer provider and the W3C propagator.
// The returned function flushes and stops the provider; it is never nil.
func Init(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if cfg.Endpoint == "" {
		slog.Info("tracing export disabled")
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(cfg.Version),
		),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)
	otel.SetTracerProvider(tp)

	slog.Info("tracing initialized",
		slog.String("endpoint", cfg.Endpoint),
		slog.Float64("sample_ratio", cfg.SampleRatio))

	return tp.Shutdown, nil
}

// LoadConfig reads TRACING_ENDPOINT, TRACING_INSECURE and TRACING_SAMPLE_RATIO.
func LoadConfig(version string) Config {
	ratio := config.GetEnvFloat("TRACING_SAMPLE_RATIO", 1)
	if ratio < 0 || ratio > 1 {
		slog.Warn("TRACING_SAMPLE_RATIO out of range, using 1", slog.Float64("value", ratio))
		ratio = 1
	}
	return Config{
		Endpoint:    config.GetEnvString("TRACING_ENDPOINT", ""),
		Insecure:    config.GetEnvBool("TRACING_INSECURE", false),
		SampleRatio: ratio,
		Version:     version,
	}
}
