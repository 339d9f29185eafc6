package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-alert-panel/internal/monitoring"
)

// MetricsMiddleware records request counts, latencies and in-flight requests.
// Requests are labelled by route template, not raw path.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		done := monitoring.TrackConnection()
		defer done()

		c.Next()

		monitoring.RecordHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
