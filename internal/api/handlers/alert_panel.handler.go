package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-alert-panel/internal/models"
	"github.com/platformbuilds/mirador-alert-panel/internal/monitoring"
	"github.com/platformbuilds/mirador-alert-panel/internal/services"
	"github.com/platformbuilds/mirador-alert-panel/pkg/logger"
)

// maxRenderBody bounds the accepted render request body.
const maxRenderBody = 32 << 20

// AlertPanelHandler serves the alert list panel endpoints.
type AlertPanelHandler struct {
	service services.AlertPanelRenderer
	logger  logger.Logger
}

func NewAlertPanelHandler(service services.AlertPanelRenderer, log logger.Logger) *AlertPanelHandler {
	return &AlertPanelHandler{service: service, logger: logger.OrNop(log)}
}

// Render renders a batch of alert frames into display rows.
//
// POST /api/v1/alerts/panel/render
//
// Options missing from the body keep the configured defaults.
func (h *AlertPanelHandler) Render(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRenderBody)

	req := models.AlertPanelRenderRequest{Options: h.service.DefaultOptions()}
	if err := c.ShouldBindJSON(&req); err != nil {
		monitoring.RecordRenderError("invalid_request")
		h.logger.Debug("Rejected alert panel render request", "error", err)
		_ = c.Error(fmt.Errorf("invalid render request: %w", err)).SetType(gin.ErrorTypeBind)
		return
	}

	result := h.service.Render(c.Request.Context(), req.Frames, req.Options)

	metadata := gin.H{
		"row_count":      len(result.Rows),
		"frame_count":    result.FrameCount,
		"sort":           result.Sort,
		"render_time_ms": result.RenderTime.Milliseconds(),
	}
	if result.Truncated > 0 {
		metadata["truncated"] = result.Truncated
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"data":     gin.H{"rows": result.Rows},
		"metadata": metadata,
	})
}

// Options describes the panel options and their configured defaults.
//
// GET /api/v1/alerts/panel/options
func (h *AlertPanelHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   h.service.OptionsSchema(),
	})
}
