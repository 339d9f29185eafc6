package middleware

import (
	"bytes"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-alert-panel/pkg/logger"
)

// maxLoggedBody bounds the request body excerpt logged in debug mode.
const maxLoggedBody = 1024

// RequestLogger logs one structured line per request.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	log = logger.OrNop(log)
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		requestID, _ := param.Keys[RequestIDKey].(string)

		fields := []interface{}{
			"method", param.Method,
			"path", param.Path,
			"status", param.StatusCode,
			"latency", param.Latency,
			"client_ip", param.ClientIP,
			"user_agent", param.Request.UserAgent(),
			"request_id", requestID,
			"content_length", param.Request.ContentLength,
		}
		if param.ErrorMessage != "" {
			fields = append(fields, "error", param.ErrorMessage)
		}

		logAtStatus(log, param.StatusCode, "HTTP Request", fields...)
		return ""
	})
}

// RequestLoggerWithBody additionally logs a bounded excerpt of the request
// body, and of the response body for failed requests. Meant for debug level.
func RequestLoggerWithBody(log logger.Logger) gin.HandlerFunc {
	log = logger.OrNop(log)
	return func(c *gin.Context) {
		start := time.Now()

		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(requestBody))
		}

		writer := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(RequestIDKey),
			"request_body", excerpt(requestBody),
		}
		if status >= 400 {
			fields = append(fields, "response_body", excerpt(writer.body.Bytes()))
		}

		logAtStatus(log, status, "HTTP Request", fields...)
	}
}

func logAtStatus(log logger.Logger, status int, msg string, fields ...interface{}) {
	switch {
	case status >= 500:
		log.Error(msg, fields...)
	case status >= 400:
		log.Warn(msg, fields...)
	default:
		log.Info(msg, fields...)
	}
}

func excerpt(b []byte) string {
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + "...(truncated)"
	}
	return string(b)
}

// responseBodyWriter tees the response body for logging
type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseBodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}
