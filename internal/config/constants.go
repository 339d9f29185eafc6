package config

const (
	// Service information
	ServiceName    = "mirador-alert-panel"
	ServiceVersion = "v0.3.0"
	APIVersion     = "v1"

	// Default timeouts (milliseconds)
	DefaultCacheTimeout    = 5000
	DefaultShutdownTimeout = 30000

	// Rate limiting defaults
	DefaultRateLimit       = 600 // requests per minute per client
	DefaultRateLimitWindow = 60  // seconds

	// Cache settings
	DefaultCacheTTL = 300 // 5 minutes

	// Panel limits
	DefaultMaxFrames = 5000

	// File size limits
	MaxConfigFileSize = 10485760 // 10MB
)
