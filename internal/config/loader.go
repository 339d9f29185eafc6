package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from various sources with priority order:
// 1. Environment variables
// 2. Configuration file (CONFIG_PATH, or config.yaml in the search path)
// 3. Default values
func Load() (*Config, error) {
	return LoadFile(os.Getenv("CONFIG_PATH"))
}

// LoadFile is Load with an explicit configuration file. An empty path falls
// back to searching /etc/mirador/, ./configs/ and the working directory.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		if info, err := os.Stat(path); err == nil && info.Size() > MaxConfigFileSize {
			return nil, fmt.Errorf("config file %s exceeds %d bytes", path, MaxConfigFileSize)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/mirador/")
		v.AddConfigPath("./configs/")
		v.AddConfigPath(".")
	}

	// Enable environment variable support
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("MIRADOR")

	setDefaults(v)

	// Read configuration file (optional unless explicitly given)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	overrideWithEnvVars(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.ConfigFile = v.ConfigFileUsed()

	if err := LoadSecrets(&config); err != nil {
		return nil, err
	}

	if err := validateConfig(&config); err != nil {
		RecordValidationError()
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets reasonable default values
func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()

	// Server defaults
	v.SetDefault("environment", d.Environment)
	v.SetDefault("port", d.Port)
	v.SetDefault("log_level", d.LogLevel)

	// Cache defaults (Valkey)
	v.SetDefault("cache.nodes", d.Cache.Nodes)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", d.Cache.DB)
	v.SetDefault("cache.discovery.enabled", d.Cache.Discovery.Enabled)
	v.SetDefault("cache.discovery.service", d.Cache.Discovery.Service)
	v.SetDefault("cache.discovery.port", d.Cache.Discovery.Port)
	v.SetDefault("cache.discovery.use_srv", d.Cache.Discovery.UseSRV)

	// CORS defaults
	v.SetDefault("cors.allowed_origins", d.CORS.AllowedOrigins)
	v.SetDefault("cors.allowed_methods", d.CORS.AllowedMethods)
	v.SetDefault("cors.allowed_headers", d.CORS.AllowedHeaders)
	v.SetDefault("cors.exposed_headers", d.CORS.ExposedHeaders)
	v.SetDefault("cors.allow_credentials", d.CORS.AllowCredentials)
	v.SetDefault("cors.max_age", d.CORS.MaxAge)

	// Monitoring defaults
	v.SetDefault("monitoring.enabled", d.Monitoring.Enabled)
	v.SetDefault("monitoring.metrics_path", d.Monitoring.MetricsPath)
	v.SetDefault("monitoring.prometheus_enabled", d.Monitoring.PrometheusEnabled)

	// Tracing defaults
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.insecure", d.Tracing.Insecure)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("tracing.sample_ratio", d.Tracing.SampleRatio)

	// Rate limiting defaults
	v.SetDefault("rate_limit.enabled", d.RateLimit.Enabled)
	v.SetDefault("rate_limit.requests_per_minute", d.RateLimit.RequestsPerMinute)

	// Alert panel defaults
	v.SetDefault("panel.defaults.link", d.Panel.Defaults.Link)
	v.SetDefault("panel.defaults.sort", string(d.Panel.Defaults.Sort))
	v.SetDefault("panel.defaults.hide_tags", d.Panel.Defaults.HideTags)
	v.SetDefault("panel.defaults.exclude", d.Panel.Defaults.Exclude)
	v.SetDefault("panel.max_frames", d.Panel.MaxFrames)
}

// overrideWithEnvVars explicitly handles environment variable overrides
func overrideWithEnvVars(v *viper.Viper) {
	// Server configuration
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			v.Set("port", p)
		}
	}

	if env := os.Getenv("ENVIRONMENT"); env != "" {
		v.Set("environment", env)
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		v.Set("log_level", logLevel)
	}

	// Valkey cache nodes
	if cacheNodes := os.Getenv("VALKEY_CACHE_NODES"); cacheNodes != "" {
		v.Set("cache.nodes", splitList(cacheNodes))
	}

	if service := os.Getenv("VALKEY_DISCOVERY_SERVICE"); service != "" {
		v.Set("cache.discovery.service", service)
		v.Set("cache.discovery.enabled", true)
	}

	if cacheTTL := os.Getenv("CACHE_TTL"); cacheTTL != "" {
		if ttl, err := strconv.Atoi(cacheTTL); err == nil {
			v.Set("cache.ttl", ttl)
		}
	}

	// OTLP collector
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		hostPort, insecure := normalizeOTLPEndpoint(endpoint)
		v.Set("tracing.endpoint", hostPort)
		v.Set("tracing.insecure", insecure)
		v.Set("tracing.enabled", true)
	}

	// Alert panel defaults
	if sort := os.Getenv("ALERT_PANEL_SORT"); sort != "" {
		v.Set("panel.defaults.sort", sort)
	}

	if link := os.Getenv("ALERT_PANEL_LINK"); link != "" {
		v.Set("panel.defaults.link", link)
	}

	if exclude := os.Getenv("ALERT_PANEL_EXCLUDE"); exclude != "" {
		v.Set("panel.defaults.exclude", splitList(exclude))
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateConfig validates the loaded configuration
func validateConfig(config *Config) error {
	// Validate port range
	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", config.Port)
	}

	validLogLevels := []string{"debug", "info", "warn", "error", "fatal"}
	if !contains(validLogLevels, config.LogLevel) {
		return fmt.Errorf("invalid log level: %s", config.LogLevel)
	}

	validEnvironments := []string{"development", "staging", "production", "test"}
	if !contains(validEnvironments, config.Environment) {
		return fmt.Errorf("invalid environment: %s", config.Environment)
	}

	for _, node := range config.Cache.Nodes {
		if err := ValidateRedisNode(node); err != nil {
			return fmt.Errorf("invalid cache node %q: %w", node, err)
		}
	}

	if err := ValidateCacheDiscovery(config.Cache.Discovery); err != nil {
		return err
	}

	if config.Cache.TTL < 1 {
		return fmt.Errorf("cache TTL must be at least 1 second")
	}

	if config.Tracing.Enabled {
		if err := ValidateGRPCEndpoint(config.Tracing.Endpoint); err != nil {
			return fmt.Errorf("invalid tracing endpoint: %w", err)
		}
	}
	if config.Tracing.SampleRatio < 0 || config.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing sample ratio must be between 0 and 1")
	}

	if config.RateLimit.Enabled && config.RateLimit.RequestsPerMinute < 1 {
		return fmt.Errorf("rate limit must allow at least 1 request per minute")
	}

	if err := ValidatePanelConfig(config.Panel); err != nil {
		return err
	}

	return nil
}
