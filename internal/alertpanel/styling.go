package alertpanel

import "github.com/platformbuilds/mirador-alert-panel/internal/models"

// Glyph identifiers of the three state icons.
const (
	GlyphHeart      = "heart"
	GlyphHeartBreak = "heart-break"
	GlyphBellClock  = "bell-clock"
)

const (
	defaultSeverityBackground = "#6818B1"
	foregroundLight           = "white"
	foregroundDark            = "black"
)

var severityStyles = map[int]models.SeverityStyle{
	1: {Background: "#C13737", Foreground: foregroundLight},
	2: {Background: "#F9851B", Foreground: foregroundDark},
	3: {Background: "#FCDC01", Foreground: foregroundDark},
	4: {Background: "#2374D9", Foreground: foregroundLight},
}

// SeverityStyleFor returns the badge colours of a severity level. Levels
// outside 1-4 get the default purple badge.
func SeverityStyleFor(level int) models.SeverityStyle {
	if style, ok := severityStyles[level]; ok {
		return style
	}
	return models.SeverityStyle{Background: defaultSeverityBackground, Foreground: foregroundLight}
}

// Icon is the resolved display state of an alert.
type Icon struct {
	State models.AlertState
	Glyph string
}

var glyphs = map[models.AlertState]string{
	models.AlertStateOK:           GlyphHeart,
	models.AlertStateAlerting:     GlyphHeartBreak,
	models.AlertStateAcknowledged: GlyphBellClock,
}

// IconFor resolves the icon of an alert. An acknowledged alert is always shown
// as acknowledged; otherwise only the exact raw state "ALERTING" is alerting.
func IconFor(rawState string, acknowledged bool) Icon {
	state := models.AlertStateOK
	switch {
	case acknowledged:
		state = models.AlertStateAcknowledged
	case rawState == "ALERTING":
		state = models.AlertStateAlerting
	}
	return Icon{State: state, Glyph: glyphs[state]}
}
