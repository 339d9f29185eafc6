package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/platformbuilds/mirador-alert-panel"

// Options configures the OTLP exporter and sampler.
type Options struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string // host:port of the OTLP gRPC collector
	Insecure       bool
	SampleRatio    float64
}

// TracerProvider manages the lifecycle of the OpenTelemetry tracer
type TracerProvider struct {
	tp *sdktrace.TracerProvider
}

// NewTracerProvider creates a new OpenTelemetry tracer provider and installs
// it as the global provider.
func NewTracerProvider(ctx context.Context, opts Options) (*TracerProvider, error) {
	exporterOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(opts.Endpoint)}
	if opts.Insecure {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(opts.ServiceName),
			semconv.ServiceVersionKey.String(opts.ServiceVersion),
			semconv.ServiceNamespaceKey.String("mirador"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(opts.SampleRatio)),
	)

	otel.SetTracerProvider(tp)

	return &TracerProvider{tp: tp}, nil
}

func newSampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case ratio <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

// Shutdown gracefully shuts down the tracer provider
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	return tp.tp.Shutdown(ctx)
}

// PanelTracer opens the spans of alert panel render passes.
type PanelTracer struct {
	tracer trace.Tracer
}

// NewPanelTracer uses the global tracer provider, which is a no-op until
// NewTracerProvider has run.
func NewPanelTracer() *PanelTracer {
	return NewPanelTracerWithProvider(otel.GetTracerProvider())
}

func NewPanelTracerWithProvider(tp trace.TracerProvider) *PanelTracer {
	return &PanelTracer{tracer: tp.Tracer(instrumentationName)}
}

// StartRenderSpan starts the alertpanel.render span.
func (pt *PanelTracer) StartRenderSpan(ctx context.Context, frames int, sort string, hideTags bool) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "alertpanel.render",
		trace.WithAttributes(
			attribute.Int("alertpanel.frames", frames),
			attribute.String("alertpanel.sort", sort),
			attribute.Bool("alertpanel.hide_tags", hideTags),
			attribute.String("component", "alert-panel"),
		),
	)
}

// RecordRenderMetrics records the outcome of a render pass on its span.
func (pt *PanelTracer) RecordRenderMetrics(span trace.Span, duration time.Duration, rows int, truncated int, allClear bool) {
	span.SetAttributes(
		attribute.Int64("alertpanel.duration_ms", duration.Milliseconds()),
		attribute.Int("alertpanel.rows", rows),
		attribute.Int("alertpanel.truncated_frames", truncated),
		attribute.Bool("alertpanel.all_clear", allClear),
	)
}

// RecordError records an error on a span
func (pt *PanelTracer) RecordError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attrs...)
	span.RecordError(err)
}
