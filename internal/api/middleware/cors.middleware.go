package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-alert-panel/internal/config"
)

const (
	defaultCORSMethods        = "GET, POST, OPTIONS"
	defaultCORSHeaders        = "Origin, Content-Type, Accept, X-Request-ID"
	defaultCORSExposedHeaders = "X-Rate-Limit-Limit, X-Rate-Limit-Remaining, X-Rate-Limit-Reset, X-Request-ID"
	defaultCORSMaxAge         = "43200"
)

// CORSMiddleware lets dashboard hosts on other origins call the panel API.
func CORSMiddleware(corsConfig config.CORSConfig) gin.HandlerFunc {
	methods := joinOr(corsConfig.AllowedMethods, defaultCORSMethods)
	headers := joinOr(corsConfig.AllowedHeaders, defaultCORSHeaders)
	exposed := joinOr(corsConfig.ExposedHeaders, defaultCORSExposedHeaders)
	maxAge := defaultCORSMaxAge
	if corsConfig.MaxAge > 0 {
		maxAge = strconv.Itoa(corsConfig.MaxAge)
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && isOriginAllowed(origin, corsConfig.AllowedOrigins) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}

		c.Header("Access-Control-Allow-Methods", methods)
		c.Header("Access-Control-Allow-Headers", headers)
		c.Header("Access-Control-Expose-Headers", exposed)
		c.Header("Access-Control-Max-Age", maxAge)
		if corsConfig.AllowCredentials {
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

// isOriginAllowed matches origin against the configured list. "*" allows any
// origin and "*.example.com" allows subdomains of example.com. An empty list
// only admits local development origins.
func isOriginAllowed(origin string, allowedOrigins []string) bool {
	if len(allowedOrigins) == 0 {
		return strings.Contains(origin, "://localhost") || strings.Contains(origin, "://127.0.0.1")
	}

	for _, allowed := range allowedOrigins {
		switch {
		case allowed == "*", allowed == origin:
			return true
		case strings.HasPrefix(allowed, "*."):
			if strings.HasSuffix(origin, allowed[1:]) {
				return true
			}
		}
	}
	return false
}
