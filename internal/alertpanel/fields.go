package alertpanel

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/platformbuilds/mirador-alert-panel/internal/models"
)

// Column names recognised in an alert frame.
const (
	FieldState            = "state"
	FieldNotes            = "notes"
	FieldSeverity         = "severity"
	FieldMetricName       = "metric_name"
	FieldTags             = "tags"
	FieldClearedTimestamp = "cleared_timestamp"
	FieldTime             = "Time"
	FieldAlertID          = "alert_id"
	FieldAcknowledgement  = "acknowledgement"
	FieldAlertTimestamp   = "alert_timestamp"
)

// Field returns the first value of the column named exactly name. The second
// result is false when the column is missing or carries no values; a present
// column holding null yields (nil, true).
func Field(frame models.Frame, name string) (interface{}, bool) {
	for _, f := range frame.Fields {
		if f.Name != name {
			continue
		}
		if len(f.Values) == 0 {
			return nil, false
		}
		return f.Values[0], true
	}
	return nil, false
}

// StringField returns the column value as text. Missing and null columns
// report false.
func StringField(frame models.Frame, name string) (string, bool) {
	v, ok := Field(frame, name)
	if !ok || v == nil {
		return "", false
	}
	return stringify(v), true
}

// Int64Field coerces the column value to an integer. Numbers are truncated,
// numeric strings parsed, RFC3339 strings and time.Time values become epoch
// milliseconds.
func Int64Field(frame models.Frame, name string) (int64, bool) {
	v, ok := Field(frame, name)
	if !ok {
		return 0, false
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// BoolField reports the truthiness of the column value; missing columns are false.
func BoolField(frame models.Frame, name string) bool {
	v, ok := Field(frame, name)
	if !ok {
		return false
	}
	return truthy(v)
}

func stringify(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(x)
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return x, !math.IsNaN(x)
	case float32:
		return float64(x), !math.IsNaN(float64(x))
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case time.Time:
		return float64(x.UnixMilli()), !x.IsZero()
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, !math.IsNaN(f)
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return float64(t.UnixMilli()), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// truthy interprets acknowledgement-like flags. Strings are parsed with
// strconv.ParseBool first so "false" and "0" stay false.
func truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(x)); err == nil {
			return b
		}
		return x != ""
	default:
		f, ok := toFloat(x)
		return ok && f != 0
	}
}
