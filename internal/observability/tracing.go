package observability

import (
	"context"
	"fmt"
	"github.com/nikolayk812/storefront/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"time"
)

const tracesPath = "/v1/traces"

// SetupTracing installs a global tracer provider that exports spans over OTLP/HTTP.
// When tracing is disabled the global no-op provider stays in place and shutdown does nothing.
func SetupTracing(ctx context.Context, cfg *config.Config) (shutdown func(context.Context) error, err error) {
	shutdown = func(context.Context) error { return nil }

	if !cfg.TracingEnabled() {
		return shutdown, nil
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
	)

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(cfg.OtelEndpoint),
		otlptracehttp.WithURLPath(tracesPath),
	}
	if cfg.OtelAuthHeader != "" {
		opts = append(opts, otlptracehttp.WithHeaders(map[string]string{"Authorization": cfg.OtelAuthHeader}))
	}
	if cfg.OtelInsecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return shutdown, fmt.Errorf("otlptracehttp.New: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithMaxQueueSize(2048),
			sdktrace.WithBatchTimeout(5*time.Second),
		),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}
