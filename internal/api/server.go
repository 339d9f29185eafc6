package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-alert-panel/internal/api/handlers"
	"github.com/platformbuilds/mirador-alert-panel/internal/api/middleware"
	"github.com/platformbuilds/mirador-alert-panel/internal/config"
	"github.com/platformbuilds/mirador-alert-panel/internal/monitoring"
	"github.com/platformbuilds/mirador-alert-panel/internal/services"
	"github.com/platformbuilds/mirador-alert-panel/pkg/cache"
	"github.com/platformbuilds/mirador-alert-panel/pkg/logger"
)

type Server struct {
	config     *config.Config
	logger     logger.Logger
	cache      cache.ValkeyCluster
	panel      services.AlertPanelRenderer
	router     *gin.Engine
	httpServer *http.Server
}

func NewServer(
	cfg *config.Config,
	log logger.Logger,
	valkeyCache cache.ValkeyCluster,
	panel services.AlertPanelRenderer,
) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &Server{
		config: cfg,
		logger: logger.OrNop(log),
		cache:  valkeyCache,
		panel:  panel,
		router: gin.New(),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.CORSMiddleware(s.config.CORS))

	if s.config.LogLevel == "debug" {
		s.router.Use(middleware.RequestLoggerWithBody(s.logger))
	} else {
		s.router.Use(middleware.RequestLogger(s.logger))
	}

	if s.config.Monitoring.Enabled {
		s.router.Use(middleware.MetricsMiddleware())
	}

	if s.config.RateLimit.Enabled && s.cache != nil {
		s.router.Use(middleware.RateLimiter(s.cache, s.config.RateLimit, s.logger))
	}

	s.router.Use(middleware.ErrorHandler(s.logger))

	if s.config.Monitoring.Enabled && s.config.Monitoring.PrometheusEnabled {
		monitoring.SetupPrometheusMetrics(s.router, s.config.Monitoring.MetricsPath)
	}
}

func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.cache, s.logger)
	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.GET("/ready", healthHandler.ReadinessCheck)

	v1 := s.router.Group("/api/" + config.APIVersion)
	v1.GET("/health", healthHandler.HealthCheck)
	v1.GET("/ready", healthHandler.ReadinessCheck)

	panelHandler := handlers.NewAlertPanelHandler(s.panel, s.logger)
	alerts := v1.Group("/alerts/panel")
	{
		alerts.POST("/render", panelHandler.Render)
		alerts.GET("/options", panelHandler.Options)
	}
}

// Start serves HTTP until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Alert panel API server starting", "port", s.config.Port, "version", config.ServiceVersion)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("Shutting down alert panel API gracefully")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.GetShutdownTimeout())
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler returns the underlying Gin engine so tests (or embedders) can mount it.
func (s *Server) Handler() http.Handler {
	return s.router
}
