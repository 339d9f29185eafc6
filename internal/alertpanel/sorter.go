package alertpanel

import (
	"sort"

	"github.com/platformbuilds/mirador-alert-panel/internal/models"
)

// ParseSortMode maps the configured sort value onto a SortMode. Anything other
// than "priority" sorts by alert time; ok is false for unrecognised values.
func ParseSortMode(s string) (mode models.SortMode, ok bool) {
	switch models.SortMode(s) {
	case models.SortByPriority:
		return models.SortByPriority, true
	case models.SortByAlertTime:
		return models.SortByAlertTime, true
	default:
		return models.SortByAlertTime, false
	}
}

type sortKey struct {
	frame models.Frame
	value float64
	ok    bool
}

// SortFrames orders raw frames before they are transformed:
//   - priority: ascending by severity (most urgent first),
//   - alert_time (default): descending by alert_timestamp (newest first).
//
// The sort is stable and works on a copy; frames without a usable key keep
// their relative order after all keyed frames.
func SortFrames(frames []models.Frame, mode models.SortMode) []models.Frame {
	field, descending := FieldAlertTimestamp, true
	if mode == models.SortByPriority {
		field, descending = FieldSeverity, false
	}

	keys := make([]sortKey, len(frames))
	for i, f := range frames {
		var key sortKey
		if v, found := Field(f, field); found {
			key.value, key.ok = toFloat(v)
		}
		key.frame = f
		keys[i] = key
	}

	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.ok != b.ok {
			return a.ok
		}
		if !a.ok {
			return false
		}
		if descending {
			return a.value > b.value
		}
		return a.value < b.value
	})

	sorted := make([]models.Frame, len(keys))
	for i, k := range keys {
		sorted[i] = k.frame
	}
	return sorted
}
