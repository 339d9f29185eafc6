package config

import (
	"net/url"
	"strings"
	"time"
)

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// normalizeOTLPEndpoint turns an OTEL_EXPORTER_OTLP_ENDPOINT URL into the
// host:port form the gRPC exporter expects. Plain http endpoints, and values
// without a scheme, are dialed without TLS.
func normalizeOTLPEndpoint(endpoint string) (hostPort string, insecure bool) {
	if !strings.Contains(endpoint, "://") {
		return endpoint, true
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint, true
	}
	return u.Host, u.Scheme != "https"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// GetCacheTTL returns the cache TTL as a duration
func (c *Config) GetCacheTTL() time.Duration {
	ttl := c.Cache.TTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return time.Duration(ttl) * time.Second
}

// GetShutdownTimeout returns how long the server waits for in-flight requests
func (c *Config) GetShutdownTimeout() time.Duration {
	return time.Duration(DefaultShutdownTimeout) * time.Millisecond
}
