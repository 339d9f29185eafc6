package alertpanel

import (
	"strconv"
	"strings"
	"time"

	"github.com/platformbuilds/mirador-alert-panel/internal/models"
	"github.com/platformbuilds/mirador-alert-panel/pkg/logger"
)

const (
	tagSeparator      = "|"
	tagValueSeparator = ":"
	timePrefix        = "for "
)

// Transformer turns raw alert frames into AlertRows for one render pass. The
// reference time is fixed when the Transformer is built so every row of the
// pass is measured against the same instant.
type Transformer struct {
	options  models.PanelOptions
	excluded map[string]struct{}
	now      time.Time
	logger   logger.Logger
}

func NewTransformer(opts models.PanelOptions, now time.Time, log logger.Logger) *Transformer {
	excluded := make(map[string]struct{}, len(opts.Exclude))
	for _, category := range opts.Exclude {
		excluded[category] = struct{}{}
	}
	return &Transformer{
		options:  opts,
		excluded: excluded,
		now:      now,
		logger:   logger.OrNop(log),
	}
}

type tag struct {
	text     string
	category string
	value    string
}

// parseTags splits "cat:value|cat:value". Values keep everything after the
// first colon; a token without a colon has an empty value. Empty tokens are
// dropped.
func parseTags(raw string) []tag {
	if raw == "" {
		return nil
	}
	tokens := strings.Split(raw, tagSeparator)
	tags := make([]tag, 0, len(tokens))
	for _, token := range tokens {
		if token == "" {
			continue
		}
		category, value, _ := strings.Cut(token, tagValueSeparator)
		tags = append(tags, tag{text: token, category: category, value: value})
	}
	return tags
}

// Transform derives the AlertRow of a single frame.
func (t *Transformer) Transform(frame models.Frame) models.AlertRow {
	rawState, _ := StringField(frame, FieldState)
	notes, _ := StringField(frame, FieldNotes)
	metricName, _ := StringField(frame, FieldMetricName)
	rawTags, _ := StringField(frame, FieldTags)
	alertID, _ := StringField(frame, FieldAlertID)
	severity, _ := Int64Field(frame, FieldSeverity)
	acknowledged := BoolField(frame, FieldAcknowledgement)

	icon := IconFor(rawState, acknowledged)
	stateLabel := rawState
	if icon.State == models.AlertStateAcknowledged {
		stateLabel = "ACKNOWLEDGED"
	}

	row := models.AlertRow{
		State:         icon.State,
		StateLabel:    stateLabel,
		Glyph:         icon.Glyph,
		Severity:      int(severity),
		SeverityLabel: "P" + strconv.FormatInt(severity, 10),
		SeverityStyle: SeverityStyleFor(int(severity)),
		AlertID:       alertID,
		Tags:          []models.TagBadge{},
	}

	tags := parseTags(rawTags)
	tagContext := make(map[string]string, len(tags))
	for _, tg := range tags {
		tagContext[tg.category] = tg.value
		if t.options.HideTags {
			continue
		}
		if _, skip := t.excluded[tg.category]; skip {
			continue
		}
		color := ColorFor(tg.text)
		row.Tags = append(row.Tags, models.TagBadge{
			Text:     tg.text,
			Category: tg.category,
			Value:    tg.value,
			Fill:     color.Fill,
			Border:   color.Border,
		})
	}

	name := ParseNotes(notes).DisplayName(metricName)
	if name != "" {
		rendered, err := RenderTemplate(name, tagContext)
		if err != nil {
			t.logger.Debug("Alert name is not a valid template; using it verbatim", "alert_id", alertID, "error", err)
		}
		name = rendered
	}
	row.Name = name

	if t.options.Link != "" {
		link, err := RenderTemplate(t.options.Link, map[string]string{FieldAlertID: alertID})
		if err != nil {
			t.logger.Debug("Drill-down link is not a valid template; using it verbatim", "alert_id", alertID, "error", err)
		}
		row.Link = link
	}

	if ref, ok := t.referenceTime(frame); ok {
		row.ElapsedMs = t.now.UnixMilli() - ref
		row.TimeText = timePrefix + Humanize(row.ElapsedMs)
	} else {
		row.TimeText = timePrefix + Humanize(0)
	}

	return row
}

// referenceTime is cleared_timestamp when the alert has cleared, else Time.
func (t *Transformer) referenceTime(frame models.Frame) (int64, bool) {
	if cleared, ok := Int64Field(frame, FieldClearedTimestamp); ok {
		return cleared, true
	}
	return Int64Field(frame, FieldTime)
}
