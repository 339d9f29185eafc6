package tracing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer() (*PanelTracer, *tracetest.SpanRecorder) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	return NewPanelTracerWithProvider(tp), rec
}

func attrMap(kvs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestPanelTracer_RenderSpan(t *testing.T) {
	pt, rec := newRecordingTracer()

	_, span := pt.StartRenderSpan(context.Background(), 3, "priority", true)
	pt.RecordRenderMetrics(span, 2*time.Millisecond, 3, 0, false)
	span.End()

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "alertpanel.render", spans[0].Name())

	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, int64(3), attrs["alertpanel.frames"].AsInt64())
	assert.Equal(t, "priority", attrs["alertpanel.sort"].AsString())
	assert.True(t, attrs["alertpanel.hide_tags"].AsBool())
	assert.Equal(t, int64(3), attrs["alertpanel.rows"].AsInt64())
	assert.False(t, attrs["alertpanel.all_clear"].AsBool())
}

func TestPanelTracer_RecordError(t *testing.T) {
	pt, rec := newRecordingTracer()

	_, span := pt.StartRenderSpan(context.Background(), 0, "alert_time", false)
	pt.RecordError(span, errors.New("decode failed"), attribute.String("reason", "bad_json"))
	span.End()

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "decode failed", spans[0].Status().Description)
	assert.Len(t, spans[0].Events(), 1)
}

func TestNewSampler(t *testing.T) {
	assert.Contains(t, newSampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, newSampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, newSampler(0.25).Description(), "TraceIDRatioBased")
}
