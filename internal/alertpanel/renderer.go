// Package alertpanel turns raw alert frames into the ordered, styled rows of
// the alert list panel.
//
// A render pass sorts the raw frames (by alert_timestamp or by severity),
// derives one AlertRow per frame and returns the rows in that order. The pass
// is pure: it reads its inputs, never mutates them and never fails. An empty
// batch renders a single all-clear row.
package alertpanel

import (
	"time"

	"github.com/platformbuilds/mirador-alert-panel/internal/models"
	"github.com/platformbuilds/mirador-alert-panel/pkg/logger"
)

// AllClearName is the name of the synthetic row shown when there are no alerts.
const AllClearName = "All Clear - No active alerts!"

// Renderer runs render passes. It holds no per-pass state and is safe for
// concurrent use.
type Renderer struct {
	clock  func() time.Time
	logger logger.Logger
}

// NewRenderer creates a Renderer. A nil clock means time.Now.
func NewRenderer(clock func() time.Time, log logger.Logger) *Renderer {
	if clock == nil {
		clock = time.Now
	}
	return &Renderer{clock: clock, logger: logger.OrNop(log)}
}

// Render sorts frames according to opts.Sort and transforms them into rows.
func (r *Renderer) Render(frames []models.Frame, opts models.PanelOptions) []models.AlertRow {
	if len(frames) == 0 {
		return []models.AlertRow{AllClearRow()}
	}

	mode, ok := ParseSortMode(string(opts.Sort))
	if !ok && opts.Sort != "" {
		r.logger.Warn("Unknown alert panel sort mode; sorting by alert time", "sort", opts.Sort)
	}

	t := NewTransformer(opts, r.clock(), r.logger)
	sorted := SortFrames(frames, mode)
	rows := make([]models.AlertRow, 0, len(sorted))
	for _, frame := range sorted {
		rows = append(rows, t.Transform(frame))
	}
	return rows
}

// AllClearRow is the placeholder row rendered for an empty batch.
func AllClearRow() models.AlertRow {
	return models.AlertRow{
		State:      models.AlertStateOK,
		StateLabel: "OK",
		Glyph:      GlyphHeart,
		Name:       AllClearName,
		Tags:       []models.TagBadge{},
		AllClear:   true,
	}
}
