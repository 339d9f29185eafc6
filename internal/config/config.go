package config

import "github.com/platformbuilds/mirador-alert-panel/internal/models"

type Config struct {
	Environment string `mapstructure:"environment" yaml:"environment"`
	Port        int    `mapstructure:"port" yaml:"port"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`

	Cache      CacheConfig      `mapstructure:"cache" yaml:"cache"`
	CORS       CORSConfig       `mapstructure:"cors" yaml:"cors"`
	Monitoring MonitoringConfig `mapstructure:"monitoring" yaml:"monitoring"`
	Tracing    TracingConfig    `mapstructure:"tracing" yaml:"tracing"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit" yaml:"rate_limit"`
	Panel      PanelConfig      `mapstructure:"panel" yaml:"panel"`

	// ConfigFile is the file the configuration was read from, empty when only
	// defaults and environment variables were used.
	ConfigFile string `mapstructure:"-" yaml:"-"`
}

// CacheConfig handles Valkey caching configuration
type CacheConfig struct {
	Nodes    []string `mapstructure:"nodes" yaml:"nodes"`
	TTL      int      `mapstructure:"ttl" yaml:"ttl"` // seconds
	Password string   `mapstructure:"password" yaml:"password"`
	DB       int      `mapstructure:"db" yaml:"db"`

	Discovery CacheDiscoveryConfig `mapstructure:"discovery" yaml:"discovery"`
}

// CacheDiscoveryConfig resolves the Valkey nodes from DNS at startup, e.g.
// from a Kubernetes headless service, instead of listing them in nodes.
type CacheDiscoveryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Service string `mapstructure:"service" yaml:"service"` // valkey-headless.cache.svc.cluster.local
	Port    int    `mapstructure:"port" yaml:"port"`       // ignored with use_srv
	UseSRV  bool   `mapstructure:"use_srv" yaml:"use_srv"` // query _redis._tcp.<service>
}

// CORSConfig handles Cross-Origin Resource Sharing
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods" yaml:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers" yaml:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers" yaml:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" yaml:"max_age"`
}

// MonitoringConfig handles self-monitoring configuration
type MonitoringConfig struct {
	Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
	MetricsPath       string `mapstructure:"metrics_path" yaml:"metrics_path"`
	PrometheusEnabled bool   `mapstructure:"prometheus_enabled" yaml:"prometheus_enabled"`
}

// TracingConfig controls the OTLP trace exporter
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled" yaml:"enabled"`
	Endpoint    string  `mapstructure:"endpoint" yaml:"endpoint"` // host:port of the OTLP gRPC collector
	Insecure    bool    `mapstructure:"insecure" yaml:"insecure"`
	ServiceName string  `mapstructure:"service_name" yaml:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio" yaml:"sample_ratio"`
}

// RateLimitConfig bounds requests per client IP per minute
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled" yaml:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
}

// PanelConfig holds the alert panel options applied when a render request
// leaves an option unset.
type PanelConfig struct {
	Defaults models.PanelOptions `mapstructure:"defaults" yaml:"defaults"`
	// MaxFrames caps the frames rendered per request; 0 disables the cap.
	MaxFrames int `mapstructure:"max_frames" yaml:"max_frames"`
}
