package models

import "time"

// Frame is one raw alert record handed over by the dashboard host. Every field
// carries a single-valued sequence; only the first value is meaningful.
type Frame struct {
	Name   string       `json:"name,omitempty" yaml:"name,omitempty"`
	Fields []FrameField `json:"fields" yaml:"fields"`
}

// FrameField is a named column of a Frame.
type FrameField struct {
	Name   string        `json:"name" yaml:"name"`
	Values []interface{} `json:"values" yaml:"values"`
}

// NewFrame builds a Frame from column name/value pairs, mostly useful in tests
// and the CLI. Column order follows the map iteration order of the caller's
// literal, which callers must not rely on.
func NewFrame(columns map[string]interface{}) Frame {
	f := Frame{Fields: make([]FrameField, 0, len(columns))}
	for name, value := range columns {
		f.Fields = append(f.Fields, FrameField{Name: name, Values: []interface{}{value}})
	}
	return f
}

// SortMode selects the ordering policy of a rendered alert list.
type SortMode string

const (
	SortByAlertTime SortMode = "alert_time"
	SortByPriority  SortMode = "priority"
)

// SortModes lists the values accepted for PanelOptions.Sort.
var SortModes = []SortMode{SortByAlertTime, SortByPriority}

// PanelOptions is the per-render configuration snapshot owned by the host.
type PanelOptions struct {
	Link     string   `json:"link" mapstructure:"link" yaml:"link"`
	Sort     SortMode `json:"sort" mapstructure:"sort" yaml:"sort"`
	HideTags bool     `json:"hide_tags" mapstructure:"hide_tags" yaml:"hide_tags"`
	Exclude  []string `json:"exclude" mapstructure:"exclude" yaml:"exclude"`
}

type AlertState string

const (
	AlertStateOK           AlertState = "ok"
	AlertStateAlerting     AlertState = "alerting"
	AlertStateAcknowledged AlertState = "acknowledged"
)

// SeverityStyle is the badge colour pair for a severity level.
type SeverityStyle struct {
	Background string `json:"background" yaml:"background"`
	Foreground string `json:"foreground" yaml:"foreground"`
}

// TagBadge is one rendered tag label.
type TagBadge struct {
	Text     string `json:"text" yaml:"text"`
	Category string `json:"category" yaml:"category"`
	Value    string `json:"value" yaml:"value"`
	Fill     string `json:"fill" yaml:"fill"`
	Border   string `json:"border" yaml:"border"`
}

// AlertRow is the display-ready view-model of a single alert. Rows are built
// once per render pass and never modified afterwards.
type AlertRow struct {
	State         AlertState    `json:"state" yaml:"state"`
	StateLabel    string        `json:"state_label" yaml:"state_label"`
	Glyph         string        `json:"glyph" yaml:"glyph"`
	Severity      int           `json:"severity" yaml:"severity"`
	SeverityLabel string        `json:"severity_label,omitempty" yaml:"severity_label,omitempty"`
	SeverityStyle SeverityStyle `json:"severity_style" yaml:"severity_style"`
	Name          string        `json:"name" yaml:"name"`
	Tags          []TagBadge    `json:"tags" yaml:"tags"`
	ElapsedMs     int64         `json:"elapsed_ms" yaml:"elapsed_ms"`
	TimeText      string        `json:"time_text,omitempty" yaml:"time_text,omitempty"`
	AlertID       string        `json:"alert_id,omitempty" yaml:"alert_id,omitempty"`
	Link          string        `json:"link,omitempty" yaml:"link,omitempty"`
	AllClear      bool          `json:"all_clear,omitempty" yaml:"all_clear,omitempty"`
}

// HasLink reports whether the row name should be rendered as a drill-down link.
func (r AlertRow) HasLink() bool { return r.Link != "" }

// AlertPanelRenderRequest is the body of POST /api/v1/alerts/panel/render.
type AlertPanelRenderRequest struct {
	Frames  []Frame      `json:"frames"`
	Options PanelOptions `json:"options"`
}

// AlertPanelOptionsSchema describes the configurable panel options together
// with their current defaults.
type AlertPanelOptionsSchema struct {
	Defaults  PanelOptions `json:"defaults"`
	SortModes []SortMode   `json:"sort_modes"`
	MaxFrames int          `json:"max_frames"`
}

// AlertPanelRenderResult is the outcome of one service-level render pass.
type AlertPanelRenderResult struct {
	Rows []AlertRow `json:"rows"`
	// Sort is the sort mode actually applied.
	Sort SortMode `json:"sort"`
	// FrameCount is the number of frames rendered after truncation.
	FrameCount int `json:"frame_count"`
	// Truncated counts frames dropped by the max_frames cap.
	Truncated  int           `json:"truncated"`
	RenderTime time.Duration `json:"-"`
}
