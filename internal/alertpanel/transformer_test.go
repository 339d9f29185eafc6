package alertpanel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platformbuilds/mirador-alert-panel/internal/models"
	"github.com/platformbuilds/mirador-alert-panel/pkg/logger"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestTransformer(opts models.PanelOptions) *Transformer {
	return NewTransformer(opts, fixedNow, logger.NewNop())
}

func TestTransform_AlertingRow(t *testing.T) {
	f := frame(
		"state", "ALERTING",
		"severity", float64(1),
		"notes", `{"summary":"{{host}} disk full"}`,
		"metric_name", "disk.used",
		"tags", "host:db-1|env:prod",
		"alert_id", "42",
		"Time", float64(fixedNow.Add(-3*time.Minute).UnixMilli()),
	)

	row := newTestTransformer(models.PanelOptions{Link: "https://alerts.example/{{alert_id}}"}).Transform(f)

	assert.Equal(t, models.AlertStateAlerting, row.State)
	assert.Equal(t, "ALERTING", row.StateLabel)
	assert.Equal(t, GlyphHeartBreak, row.Glyph)
	assert.Equal(t, 1, row.Severity)
	assert.Equal(t, "P1", row.SeverityLabel)
	assert.Equal(t, models.SeverityStyle{Background: "#C13737", Foreground: "white"}, row.SeverityStyle)
	assert.Equal(t, "db-1 disk full", row.Name)
	assert.Equal(t, "https://alerts.example/42", row.Link)
	assert.True(t, row.HasLink())
	assert.Equal(t, int64(180_000), row.ElapsedMs)
	assert.Equal(t, "for 3 minutes", row.TimeText)

	require.Len(t, row.Tags, 2)
	assert.Equal(t, "host:db-1", row.Tags[0].Text)
	assert.Equal(t, "host", row.Tags[0].Category)
	assert.Equal(t, "db-1", row.Tags[0].Value)
	assert.Equal(t, ColorFor("host:db-1").Fill, row.Tags[0].Fill)
	assert.Equal(t, ColorFor("host:db-1").Border, row.Tags[0].Border)
	assert.Equal(t, "env:prod", row.Tags[1].Text)
	assert.Equal(t, "#B240A2", row.Tags[1].Fill)
}

func TestTransform_AcknowledgementOverridesState(t *testing.T) {
	f := frame("state", "ALERTING", "acknowledgement", true, "metric_name", "cpu")

	row := newTestTransformer(models.PanelOptions{}).Transform(f)

	assert.Equal(t, models.AlertStateAcknowledged, row.State)
	assert.Equal(t, "ACKNOWLEDGED", row.StateLabel)
	assert.Equal(t, GlyphBellClock, row.Glyph)
}

func TestTransform_ExcludedTagsStillFeedTemplates(t *testing.T) {
	f := frame("metric_name", "{{env}} down", "tags", "env:prod|team:sre")

	row := newTestTransformer(models.PanelOptions{Exclude: []string{"env"}}).Transform(f)

	assert.Equal(t, "prod down", row.Name)
	require.Len(t, row.Tags, 1)
	assert.Equal(t, "team:sre", row.Tags[0].Text)
}

func TestTransform_HideTags(t *testing.T) {
	f := frame("metric_name", "{{team}} paged", "tags", "env:prod|team:sre")

	row := newTestTransformer(models.PanelOptions{HideTags: true}).Transform(f)

	assert.Equal(t, "sre paged", row.Name)
	assert.NotNil(t, row.Tags)
	assert.Empty(t, row.Tags)
}

func TestTransform_TagParsing(t *testing.T) {
	f := frame("tags", "url:http://host:8080||standalone|env:")

	row := newTestTransformer(models.PanelOptions{}).Transform(f)

	require.Len(t, row.Tags, 3)
	assert.Equal(t, "url", row.Tags[0].Category)
	assert.Equal(t, "http://host:8080", row.Tags[0].Value)
	assert.Equal(t, "standalone", row.Tags[1].Category)
	assert.Equal(t, "", row.Tags[1].Value)
	assert.Equal(t, "env", row.Tags[2].Category)
	assert.Equal(t, "", row.Tags[2].Value)
}

func TestTransform_NameFallbacks(t *testing.T) {
	tr := newTestTransformer(models.PanelOptions{})

	assert.Equal(t, "raw note text", tr.Transform(frame("notes", "raw note text", "metric_name", "m")).Name)
	assert.Equal(t, "m", tr.Transform(frame("notes", `{"owner":"sre"}`, "metric_name", "m")).Name)
	assert.Equal(t, "m", tr.Transform(frame("metric_name", "m")).Name)
	assert.Equal(t, "", tr.Transform(frame("state", "OK")).Name)
}

func TestTransform_MalformedNameTemplateIsVerbatim(t *testing.T) {
	row := newTestTransformer(models.PanelOptions{}).Transform(frame("metric_name", "cpu {{host"))
	assert.Equal(t, "cpu {{host", row.Name)
}

func TestTransform_NoLinkOption(t *testing.T) {
	row := newTestTransformer(models.PanelOptions{}).Transform(frame("alert_id", "7"))
	assert.Equal(t, "", row.Link)
	assert.False(t, row.HasLink())
	assert.Equal(t, "7", row.AlertID)
}

func TestTransform_ClearedTimestampWins(t *testing.T) {
	f := frame(
		"cleared_timestamp", float64(fixedNow.Add(-10*time.Second).UnixMilli()),
		"Time", float64(fixedNow.Add(-2*time.Hour).UnixMilli()),
	)

	row := newTestTransformer(models.PanelOptions{}).Transform(f)

	assert.Equal(t, int64(10_000), row.ElapsedMs)
	assert.Equal(t, "for 10 seconds", row.TimeText)
}

func TestTransform_NullClearedTimestampFallsBackToTime(t *testing.T) {
	f := frame(
		"cleared_timestamp", nil,
		"Time", float64(fixedNow.Add(-2*time.Hour).UnixMilli()),
	)

	row := newTestTransformer(models.PanelOptions{}).Transform(f)

	assert.Equal(t, "for 2 hours", row.TimeText)
}

func TestTransform_MissingTimeAndFutureTime(t *testing.T) {
	tr := newTestTransformer(models.PanelOptions{})

	assert.Equal(t, "for just now", tr.Transform(frame("state", "OK")).TimeText)

	future := tr.Transform(frame("Time", float64(fixedNow.Add(time.Hour).UnixMilli())))
	assert.Equal(t, "for just now", future.TimeText)
	assert.Negative(t, future.ElapsedMs)
}

func TestTransform_UnknownSeverity(t *testing.T) {
	tr := newTestTransformer(models.PanelOptions{})

	row := tr.Transform(frame("severity", float64(7)))
	assert.Equal(t, "P7", row.SeverityLabel)
	assert.Equal(t, "#6818B1", row.SeverityStyle.Background)

	row = tr.Transform(frame("state", "OK"))
	assert.Equal(t, 0, row.Severity)
	assert.Equal(t, "#6818B1", row.SeverityStyle.Background)
}
