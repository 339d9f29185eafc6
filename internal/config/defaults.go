package config

import "github.com/platformbuilds/mirador-alert-panel/internal/models"

// GetDefaultConfig returns a configuration with all default values
func GetDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Port:        8010,
		LogLevel:    "info",

		Cache: CacheConfig{
			Nodes: []string{"localhost:6379"},
			TTL:   DefaultCacheTTL,
			DB:    0,
			Discovery: CacheDiscoveryConfig{
				Port: 6379,
			},
		},

		CORS: CORSConfig{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "X-Rate-Limit-Remaining"},
			AllowCredentials: true,
			MaxAge:           3600,
		},

		Monitoring: MonitoringConfig{
			Enabled:           true,
			MetricsPath:       "/metrics",
			PrometheusEnabled: true,
		},

		Tracing: TracingConfig{
			Enabled:     false,
			Endpoint:    "localhost:4317",
			Insecure:    true,
			ServiceName: ServiceName,
			SampleRatio: 1.0,
		},

		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: DefaultRateLimit,
		},

		Panel: PanelConfig{
			Defaults: models.PanelOptions{
				Link:     "",
				Sort:     models.SortByAlertTime,
				HideTags: false,
				Exclude:  []string{},
			},
			MaxFrames: DefaultMaxFrames,
		},
	}
}
