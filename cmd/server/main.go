package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/platformbuilds/mirador-alert-panel/internal/api"
	"github.com/platformbuilds/mirador-alert-panel/internal/config"
	"github.com/platformbuilds/mirador-alert-panel/internal/discovery"
	"github.com/platformbuilds/mirador-alert-panel/internal/services"
	"github.com/platformbuilds/mirador-alert-panel/internal/tracing"
	"github.com/platformbuilds/mirador-alert-panel/pkg/cache"
	"github.com/platformbuilds/mirador-alert-panel/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)
	logger.Info("Starting alert panel service",
		"version", config.ServiceVersion,
		"environment", cfg.Environment,
		"config_file", cfg.ConfigFile,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing
	if cfg.Tracing.Enabled {
		tp, err := tracing.NewTracerProvider(ctx, tracing.Options{
			ServiceName:    cfg.Tracing.ServiceName,
			ServiceVersion: config.ServiceVersion,
			Endpoint:       cfg.Tracing.Endpoint,
			Insecure:       cfg.Tracing.Insecure,
			SampleRatio:    cfg.Tracing.SampleRatio,
		})
		if err != nil {
			logger.Warn("Tracing disabled: exporter setup failed", "error", err)
		} else {
			defer func() {
				shutdownCtx, done := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
				defer done()
				if err := tp.Shutdown(shutdownCtx); err != nil {
					logger.Error("Tracer provider shutdown failed", "error", err)
				}
			}()
			logger.Info("OTLP tracing enabled", "endpoint", cfg.Tracing.Endpoint, "sample_ratio", cfg.Tracing.SampleRatio)
		}
	}

	if cfg.Cache.Discovery.Enabled {
		nodes, err := discovery.ResolveValkeyNodes(ctx, cfg.Cache.Discovery, nil, logger)
		if err != nil {
			logger.Warn("Valkey discovery failed; using configured nodes", "error", err, "nodes", cfg.Cache.Nodes)
		} else {
			cfg.Cache.Nodes = nodes
		}
	}

	// Valkey backs rate limiting. Start on the in-memory cache and swap to
	// Valkey once it answers.
	fallback := cache.NewNoopValkeyCache(logger)
	var valkeyCache *cache.AutoSwapCache
	if len(cfg.Cache.Nodes) == 1 {
		valkeyCache = cache.NewAutoSwapForSingle(cfg.Cache.Nodes[0], cfg.Cache.DB, cfg.Cache.Password, cfg.GetCacheTTL(), logger, fallback)
	} else if len(cfg.Cache.Nodes) > 1 {
		valkeyCache = cache.NewAutoSwapForCluster(cfg.Cache.Nodes, cfg.Cache.Password, cfg.GetCacheTTL(), logger, fallback)
	}
	var sharedCache cache.ValkeyCluster = fallback
	if valkeyCache != nil {
		defer valkeyCache.Stop()
		sharedCache = valkeyCache
	} else {
		logger.Warn("No Valkey nodes configured; rate limits are per replica")
	}

	panelService := services.NewAlertPanelService(cfg.Panel, tracing.NewPanelTracer(), logger)

	// Hot reload of the panel defaults
	if cfg.ConfigFile != "" {
		watcher := config.NewConfigWatcher(cfg, cfg.ConfigFile, logger)
		watcher.Subscribe(panelService.UpdateConfig)
		go func() {
			if err := watcher.Start(ctx); err != nil {
				logger.Warn("Configuration hot reload unavailable", "error", err)
			}
		}()
		defer watcher.Stop()
	}

	apiServer := api.NewServer(cfg, logger, sharedCache, panelService)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info("Shutdown signal received")
		cancel()
	}()

	if err := apiServer.Start(ctx); err != nil {
		logger.Error("Server failed", "error", err)
		cancel()
		os.Exit(1)
	}

	logger.Info("Alert panel service shutdown complete")
}
