package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-alert-panel/internal/config"
	"github.com/platformbuilds/mirador-alert-panel/internal/monitoring"
	"github.com/platformbuilds/mirador-alert-panel/pkg/cache"
	"github.com/platformbuilds/mirador-alert-panel/pkg/logger"
)

const rateLimitWindow = config.DefaultRateLimitWindow * time.Second

// RateLimiter limits each client IP to cfg.RequestsPerMinute requests per
// fixed one-minute window, counted in Valkey so replicas share the budget.
// When the cache is unreachable requests are let through.
func RateLimiter(valkeyCache cache.ValkeyCluster, cfg config.RateLimitConfig, log logger.Logger) gin.HandlerFunc {
	log = logger.OrNop(log)
	maxRequests := int64(cfg.RequestsPerMinute)
	if maxRequests < 1 {
		maxRequests = config.DefaultRateLimit
	}
	limit := strconv.FormatInt(maxRequests, 10)

	return func(c *gin.Context) {
		window := time.Now().Unix() / int64(rateLimitWindow.Seconds())
		reset := strconv.FormatInt((window+1)*int64(rateLimitWindow.Seconds()), 10)
		key := fmt.Sprintf("rate_limit:%s:%d", c.ClientIP(), window)

		count, err := valkeyCache.Incr(c.Request.Context(), key, 2*rateLimitWindow)
		if err != nil {
			log.Warn("Rate limiter unavailable; allowing request", "error", err, "client_ip", c.ClientIP())
			c.Next()
			return
		}

		c.Header("X-Rate-Limit-Limit", limit)
		c.Header("X-Rate-Limit-Reset", reset)

		if count > maxRequests {
			monitoring.RecordRateLimited()
			c.Header("X-Rate-Limit-Remaining", "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":      "error",
				"error":       "Rate limit exceeded",
				"retry_after": int(rateLimitWindow.Seconds()),
			})
			return
		}

		c.Header("X-Rate-Limit-Remaining", strconv.FormatInt(maxRequests-count, 10))
		c.Next()
	}
}
