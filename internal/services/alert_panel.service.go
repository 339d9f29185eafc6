package services

import (
	"context"
	"sync"
	"time"

	"github.com/platformbuilds/mirador-alert-panel/internal/alertpanel"
	"github.com/platformbuilds/mirador-alert-panel/internal/config"
	"github.com/platformbuilds/mirador-alert-panel/internal/models"
	"github.com/platformbuilds/mirador-alert-panel/internal/monitoring"
	"github.com/platformbuilds/mirador-alert-panel/internal/tracing"
	"github.com/platformbuilds/mirador-alert-panel/pkg/logger"
)

// AlertPanelRenderer exposes the behaviour required by HTTP handlers.
type AlertPanelRenderer interface {
	Render(ctx context.Context, frames []models.Frame, opts models.PanelOptions) *models.AlertPanelRenderResult
	DefaultOptions() models.PanelOptions
	OptionsSchema() models.AlertPanelOptionsSchema
}

// AlertPanelService wraps the alert list renderer with the configured panel
// defaults, the frame cap, tracing and metrics.
type AlertPanelService struct {
	renderer *alertpanel.Renderer
	tracer   *tracing.PanelTracer
	logger   logger.Logger

	mu    sync.RWMutex
	panel config.PanelConfig
}

func NewAlertPanelService(panel config.PanelConfig, tracer *tracing.PanelTracer, log logger.Logger) *AlertPanelService {
	return NewAlertPanelServiceWithClock(panel, tracer, nil, log)
}

// NewAlertPanelServiceWithClock is NewAlertPanelService with an injectable
// clock; a nil clock means time.Now.
func NewAlertPanelServiceWithClock(panel config.PanelConfig, tracer *tracing.PanelTracer, clock func() time.Time, log logger.Logger) *AlertPanelService {
	log = logger.OrNop(log)
	if tracer == nil {
		tracer = tracing.NewPanelTracer()
	}
	return &AlertPanelService{
		renderer: alertpanel.NewRenderer(clock, log),
		tracer:   tracer,
		logger:   log,
		panel:    clonePanelConfig(panel),
	}
}

// UpdateConfig swaps in the panel section of a reloaded configuration. It is
// meant to be registered with config.ConfigWatcher.Subscribe.
func (s *AlertPanelService) UpdateConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	s.mu.Lock()
	s.panel = clonePanelConfig(cfg.Panel)
	s.mu.Unlock()
	s.logger.Info("Alert panel defaults updated",
		"sort", cfg.Panel.Defaults.Sort,
		"hide_tags", cfg.Panel.Defaults.HideTags,
		"exclude", cfg.Panel.Defaults.Exclude,
		"max_frames", cfg.Panel.MaxFrames,
	)
}

// DefaultOptions returns a copy of the configured panel defaults.
func (s *AlertPanelService) DefaultOptions() models.PanelOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePanelConfig(s.panel).Defaults
}

// OptionsSchema describes the panel options and their current defaults.
func (s *AlertPanelService) OptionsSchema() models.AlertPanelOptionsSchema {
	s.mu.RLock()
	panel := clonePanelConfig(s.panel)
	s.mu.RUnlock()

	modes := make([]models.SortMode, len(models.SortModes))
	copy(modes, models.SortModes)
	return models.AlertPanelOptionsSchema{
		Defaults:  panel.Defaults,
		SortModes: modes,
		MaxFrames: panel.MaxFrames,
	}
}

// Render produces the rows of one alert list. Batches larger than max_frames
// are cut to the first max_frames frames before sorting.
func (s *AlertPanelService) Render(ctx context.Context, frames []models.Frame, opts models.PanelOptions) *models.AlertPanelRenderResult {
	start := time.Now()

	s.mu.RLock()
	maxFrames := s.panel.MaxFrames
	s.mu.RUnlock()

	mode, _ := alertpanel.ParseSortMode(string(opts.Sort))
	_, span := s.tracer.StartRenderSpan(ctx, len(frames), string(mode), opts.HideTags)
	defer span.End()

	truncated := 0
	if maxFrames > 0 && len(frames) > maxFrames {
		truncated = len(frames) - maxFrames
		s.logger.Warn("Alert batch exceeds panel.max_frames; extra frames dropped",
			"frames", len(frames), "max_frames", maxFrames, "dropped", truncated)
		frames = frames[:maxFrames]
	}

	rows := s.renderer.Render(frames, opts)
	elapsed := time.Since(start)

	states := make([]string, len(rows))
	for i, row := range rows {
		states[i] = string(row.State)
	}
	allClear := len(rows) == 1 && rows[0].AllClear

	monitoring.RecordRender(string(mode), len(frames), states, elapsed)
	monitoring.RecordTruncation(truncated)
	s.tracer.RecordRenderMetrics(span, elapsed, len(rows), truncated, allClear)
	s.logger.Debug("Alert panel rendered", "frames", len(frames), "rows", len(rows), "sort", mode, "duration", elapsed)

	return &models.AlertPanelRenderResult{
		Rows:       rows,
		Sort:       mode,
		FrameCount: len(frames),
		Truncated:  truncated,
		RenderTime: elapsed,
	}
}

func clonePanelConfig(p config.PanelConfig) config.PanelConfig {
	out := p
	if p.Defaults.Exclude != nil {
		out.Defaults.Exclude = append([]string(nil), p.Defaults.Exclude...)
	}
	return out
}
