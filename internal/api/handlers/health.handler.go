package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-alert-panel/internal/config"
	"github.com/platformbuilds/mirador-alert-panel/pkg/cache"
	"github.com/platformbuilds/mirador-alert-panel/pkg/logger"
)

const readinessTimeout = config.DefaultCacheTimeout * time.Millisecond

type HealthHandler struct {
	cache  cache.ValkeyCluster
	logger logger.Logger
}

func NewHealthHandler(c cache.ValkeyCluster, log logger.Logger) *HealthHandler {
	return &HealthHandler{cache: c, logger: logger.OrNop(log)}
}

// GET /health - liveness, never touches dependencies
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   config.ServiceName,
		"version":   config.ServiceVersion,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GET /ready - readiness depends on Valkey. Rendering itself has no
// dependencies, so an unreachable cache reports degraded with 503 to steer
// traffic towards replicas that share rate limit state.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	checks := gin.H{}
	status, httpStatus := "healthy", http.StatusOK

	if h.cache == nil {
		checks["valkey"] = gin.H{"status": "disabled"}
	} else if err := h.cache.HealthCheck(ctx); err != nil {
		h.logger.Warn("Readiness check failed", "component", "valkey", "error", err)
		checks["valkey"] = gin.H{"status": "unhealthy", "error": err.Error()}
		status, httpStatus = "degraded", http.StatusServiceUnavailable
	} else {
		checks["valkey"] = gin.H{"status": "healthy"}
	}

	c.JSON(httpStatus, gin.H{
		"status":    status,
		"service":   config.ServiceName,
		"version":   config.ServiceVersion,
		"checks":    checks,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
