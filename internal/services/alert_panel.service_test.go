package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/platformbuilds/mirador-alert-panel/internal/alertpanel"
	"github.com/platformbuilds/mirador-alert-panel/internal/config"
	"github.com/platformbuilds/mirador-alert-panel/internal/models"
	"github.com/platformbuilds/mirador-alert-panel/internal/tracing"
	"github.com/platformbuilds/mirador-alert-panel/pkg/logger"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func alertFrame(id string, severity int, ts int64) models.Frame {
	return models.Frame{Fields: []models.FrameField{
		{Name: "alert_id", Values: []interface{}{id}},
		{Name: "severity", Values: []interface{}{float64(severity)}},
		{Name: "alert_timestamp", Values: []interface{}{float64(ts)}},
		{Name: "state", Values: []interface{}{"ALERTING"}},
	}}
}

func newTestService(t *testing.T, panel config.PanelConfig) (*AlertPanelService, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	svc := NewAlertPanelServiceWithClock(panel, tracing.NewPanelTracerWithProvider(tp),
		func() time.Time { return testNow }, logger.NewNop())
	return svc, rec
}

func TestAlertPanelService_Render(t *testing.T) {
	svc, rec := newTestService(t, config.GetDefaultConfig().Panel)

	frames := []models.Frame{alertFrame("a", 3, 10), alertFrame("b", 1, 30), alertFrame("c", 2, 20)}
	res := svc.Render(context.Background(), frames, models.PanelOptions{Sort: models.SortByPriority})

	require.Len(t, res.Rows, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{res.Rows[0].AlertID, res.Rows[1].AlertID, res.Rows[2].AlertID})
	assert.Equal(t, models.SortByPriority, res.Sort)
	assert.Equal(t, 3, res.FrameCount)
	assert.Zero(t, res.Truncated)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "alertpanel.render", spans[0].Name())
}

func TestAlertPanelService_EmptyIsAllClear(t *testing.T) {
	svc, _ := newTestService(t, config.GetDefaultConfig().Panel)

	res := svc.Render(context.Background(), nil, svc.DefaultOptions())

	require.Len(t, res.Rows, 1)
	assert.True(t, res.Rows[0].AllClear)
	assert.Equal(t, alertpanel.AllClearName, res.Rows[0].Name)
	assert.Equal(t, models.SortByAlertTime, res.Sort)
}

func TestAlertPanelService_TruncatesAboveMaxFrames(t *testing.T) {
	panel := config.GetDefaultConfig().Panel
	panel.MaxFrames = 2
	svc, _ := newTestService(t, panel)

	frames := []models.Frame{alertFrame("a", 1, 1), alertFrame("b", 1, 2), alertFrame("c", 1, 3)}
	res := svc.Render(context.Background(), frames, models.PanelOptions{})

	require.Len(t, res.Rows, 2)
	assert.Equal(t, 1, res.Truncated)
	assert.Equal(t, 2, res.FrameCount)
	assert.Equal(t, "b", res.Rows[0].AlertID)
	assert.Equal(t, "a", res.Rows[1].AlertID)
	assert.Len(t, frames, 3, "caller slice untouched")
}

func TestAlertPanelService_UnknownSortReportsAlertTime(t *testing.T) {
	svc, _ := newTestService(t, config.GetDefaultConfig().Panel)

	res := svc.Render(context.Background(), []models.Frame{alertFrame("a", 1, 1)}, models.PanelOptions{Sort: "sideways"})
	assert.Equal(t, models.SortByAlertTime, res.Sort)
}

func TestAlertPanelService_UpdateConfig(t *testing.T) {
	svc, _ := newTestService(t, config.GetDefaultConfig().Panel)

	cfg := config.GetDefaultConfig()
	cfg.Panel.Defaults = models.PanelOptions{Sort: models.SortByPriority, HideTags: true, Exclude: []string{"env"}}
	cfg.Panel.MaxFrames = 10
	svc.UpdateConfig(cfg)
	svc.UpdateConfig(nil)

	defaults := svc.DefaultOptions()
	assert.Equal(t, models.SortByPriority, defaults.Sort)
	assert.True(t, defaults.HideTags)

	defaults.Exclude[0] = "mutated"
	assert.Equal(t, []string{"env"}, svc.DefaultOptions().Exclude, "defaults are copied")

	schema := svc.OptionsSchema()
	assert.Equal(t, 10, schema.MaxFrames)
	assert.Equal(t, []models.SortMode{models.SortByAlertTime, models.SortByPriority}, schema.SortModes)
}
