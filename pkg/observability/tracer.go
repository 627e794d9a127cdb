package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerName is the instrumentation scope used for Wayfinder spans.
const TracerName = "github.com/matzehuels/wayfinder"

// TracingConfig configures [InitTracing].
type TracingConfig struct {
	Enabled        bool
	Endpoint       string // OTLP/HTTP host:port
	ServiceName    string
	ServiceVersion string
}

// TracerProvider wraps the OpenTelemetry tracer provider with cleanup.
// A disabled provider hands out no-op tracers and shuts down instantly.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	enabled  bool
}

// InitTracing sets up OTLP/HTTP trace export and installs the provider
// globally. With tracing disabled it returns a no-op provider and touches
// no global state.
func InitTracing(ctx context.Context, cfg TracingConfig) (*TracerProvider, error) {
	if !cfg.Enabled {
		return &TracerProvider{}, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithTimeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	return &TracerProvider{provider: tp, enabled: true}, nil
}

// Tracer returns a tracer for name.
func (tp *TracerProvider) Tracer(name string) trace.Tracer {
	if !tp.enabled {
		return noop.NewTracerProvider().Tracer(name)
	}
	return tp.provider.Tracer(name)
}

// Shutdown flushes pending spans and stops the exporter.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if !tp.enabled || tp.provider == nil {
		return nil
	}
	return tp.provider.Shutdown(ctx)
}

// Enabled reports whether spans are exported.
func (tp *TracerProvider) Enabled() bool { return tp.enabled }

// Tracer returns the Wayfinder tracer from the global provider. Until
// [InitTracing] installs a real provider this is a no-op tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
