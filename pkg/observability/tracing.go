// Package observability provides OpenTelemetry tracing and logger
// construction for pcgrid.
package observability

import (
	"context"
	"fmt"

	"github.com/chazu/pcgrid/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the name used for the pcgrid tracer.
	TracerName = "github.com/chazu/pcgrid"

	// ServiceVersion is reported in the trace resource.
	ServiceVersion = "0.1.0"
)

// TracerProvider wraps the OpenTelemetry tracer provider.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// InitTracing initializes OpenTelemetry tracing.
// Returns a no-op tracer if cfg.Endpoint is empty.
func InitTracing(ctx context.Context, cfg config.TracingConfig) (*TracerProvider, error) {
	if cfg.Endpoint == "" {
		return &TracerProvider{
			tracer: otel.Tracer(TracerName),
		}, nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "pcgrid"
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &TracerProvider{
		provider: provider,
		tracer:   provider.Tracer(TracerName),
	}, nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// Shutdown flushes and stops the tracer provider.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.provider != nil {
		return tp.provider.Shutdown(ctx)
	}
	return nil
}

// Tracer returns the underlying tracer.
func (tp *TracerProvider) Tracer() trace.Tracer {
	return tp.tracer
}

// StartCompileSpan starts a span for compiling graph source.
func StartCompileSpan(ctx context.Context, sourceBytes int) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, "pcgrid.compile",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int("pcgrid.source.bytes", sourceBytes),
		),
	)
}

// RecordCompileResult records the outcome of a compilation on a span.
func RecordCompileResult(span trace.Span, bound bool, errorCount int) {
	span.SetAttributes(
		attribute.Bool("pcgrid.compile.bound", bound),
		attribute.Int("pcgrid.compile.error_count", errorCount),
	)
	if errorCount > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d compile errors", errorCount))
	}
}

// StartPreviewSpan starts a span for one preview request.
func StartPreviewSpan(ctx context.Context, keyMode string) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, "pcgrid.preview",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pcgrid.cache.key_mode", keyMode),
		),
	)
}

// RecordPreviewResult records cache and output details on a preview span.
// size is the grid size, or 0 when the result is not a grid.
func RecordPreviewResult(span trace.Span, signature string, cacheHit bool, size int) {
	span.SetAttributes(
		attribute.String("pcgrid.signature", signature),
		attribute.Bool("pcgrid.cache.hit", cacheHit),
		attribute.Int("pcgrid.grid.size", size),
	)
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
