package alertpanel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/platformbuilds/mirador-alert-panel/internal/models"
)

func ids(frames []models.Frame) []string {
	out := make([]string, 0, len(frames))
	for _, f := range frames {
		id, _ := StringField(f, FieldAlertID)
		out = append(out, id)
	}
	return out
}

func TestParseSortMode(t *testing.T) {
	mode, ok := ParseSortMode("priority")
	assert.True(t, ok)
	assert.Equal(t, models.SortByPriority, mode)

	mode, ok = ParseSortMode("alert_time")
	assert.True(t, ok)
	assert.Equal(t, models.SortByAlertTime, mode)

	mode, ok = ParseSortMode("newest")
	assert.False(t, ok)
	assert.Equal(t, models.SortByAlertTime, mode)
}

func TestSortFrames_PriorityIsStable(t *testing.T) {
	frames := []models.Frame{
		frame("alert_id", "a", "severity", float64(3)),
		frame("alert_id", "b", "severity", float64(1)),
		frame("alert_id", "c", "severity", float64(2)),
		frame("alert_id", "d", "severity", float64(1)),
	}

	sorted := SortFrames(frames, models.SortByPriority)

	assert.Equal(t, []string{"b", "d", "c", "a"}, ids(sorted))
}

func TestSortFrames_AlertTimeNewestFirst(t *testing.T) {
	frames := []models.Frame{
		frame("alert_id", "a", "alert_timestamp", float64(10)),
		frame("alert_id", "b", "alert_timestamp", float64(30)),
		frame("alert_id", "c", "alert_timestamp", float64(20)),
	}

	sorted := SortFrames(frames, models.SortByAlertTime)

	assert.Equal(t, []string{"b", "c", "a"}, ids(sorted))
}

func TestSortFrames_AlertTimeIsStable(t *testing.T) {
	frames := []models.Frame{
		frame("alert_id", "a", "alert_timestamp", float64(20)),
		frame("alert_id", "b", "alert_timestamp", float64(30)),
		frame("alert_id", "c", "alert_timestamp", float64(20)),
		frame("alert_id", "d", "alert_timestamp", float64(30)),
		frame("alert_id", "e", "alert_timestamp", float64(20)),
	}

	sorted := SortFrames(frames, models.SortByAlertTime)

	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, ids(sorted))
}

func TestSortFrames_FractionalKeys(t *testing.T) {
	frames := []models.Frame{
		frame("alert_id", "a", "alert_timestamp", float64(10)),
		frame("alert_id", "b", "alert_timestamp", float64(10)),
		frame("alert_id", "c", "alert_timestamp", 10.9),
		frame("alert_id", "d", "alert_timestamp", float64(10)),
	}
	assert.Equal(t, []string{"c", "a", "b", "d"}, ids(SortFrames(frames, models.SortByAlertTime)))

	frames = []models.Frame{
		frame("alert_id", "a", "severity", 1.5),
		frame("alert_id", "b", "severity", 1.2),
	}
	assert.Equal(t, []string{"b", "a"}, ids(SortFrames(frames, models.SortByPriority)))
}

func TestSortFrames_MissingKeysSortLast(t *testing.T) {
	frames := []models.Frame{
		frame("alert_id", "a"),
		frame("alert_id", "b", "alert_timestamp", float64(5)),
		frame("alert_id", "c", "alert_timestamp", "not a time"),
		frame("alert_id", "d", "alert_timestamp", float64(50)),
	}

	sorted := SortFrames(frames, models.SortByAlertTime)

	assert.Equal(t, []string{"d", "b", "a", "c"}, ids(sorted))
}

func TestSortFrames_DoesNotMutateInput(t *testing.T) {
	frames := []models.Frame{
		frame("alert_id", "a", "severity", float64(2)),
		frame("alert_id", "b", "severity", float64(1)),
	}

	_ = SortFrames(frames, models.SortByPriority)

	assert.Equal(t, []string{"a", "b"}, ids(frames))
}

func TestSortFrames_Empty(t *testing.T) {
	assert.Empty(t, SortFrames(nil, models.SortByAlertTime))
}
