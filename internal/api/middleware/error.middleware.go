package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-alert-panel/pkg/logger"
)

// ErrorResponse is the body of every error the API returns.
type ErrorResponse struct {
	Status    string      `json:"status"`
	Error     string      `json:"error"`
	Code      string      `json:"code,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

// ErrorHandler turns errors attached with c.Error, and bare error statuses
// such as unmatched routes, into an ErrorResponse. Handlers mark client
// errors with gin.ErrorTypeBind.
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	log = logger.OrNop(log)
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if len(c.Errors) > 0 {
			ginErr := c.Errors.Last()
			status := determineStatusCode(ginErr)
			resp := ErrorResponse{
				Status:    "error",
				Error:     ginErr.Err.Error(),
				Code:      determineErrorCodeFromStatus(status),
				RequestID: c.GetString(RequestIDKey),
				Details:   ginErr.Meta,
			}
			logError(log, status, ginErr.Err, c)
			c.JSON(status, resp)
			return
		}

		if status := c.Writer.Status(); status >= 400 {
			resp := ErrorResponse{
				Status:    "error",
				Error:     http.StatusText(status),
				Code:      determineErrorCodeFromStatus(status),
				RequestID: c.GetString(RequestIDKey),
			}
			log.Warn("HTTP Error Response",
				"status", status,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP(),
			)
			c.JSON(status, resp)
		}
	}
}

// determineStatusCode maps a gin error to an HTTP status.
func determineStatusCode(err *gin.Error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case err.IsType(gin.ErrorTypeBind):
		return http.StatusBadRequest
	case errors.Is(err.Err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err.Err, context.Canceled):
		return 499
	default:
		return http.StatusInternalServerError
	}
}

// determineErrorCodeFromStatus creates a machine-readable code from a status
func determineErrorCodeFromStatus(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return "INVALID_REQUEST"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case 499:
		return "CLIENT_CLOSED_REQUEST"
	case http.StatusInternalServerError:
		return "INTERNAL_ERROR"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	case http.StatusGatewayTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN_ERROR"
	}
}

func logError(log logger.Logger, statusCode int, err error, c *gin.Context) {
	fields := []interface{}{
		"status", statusCode,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"client_ip", c.ClientIP(),
		"error", err.Error(),
	}
	if requestID := c.GetString(RequestIDKey); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}

	if statusCode >= 500 {
		log.Error("HTTP Error", fields...)
	} else {
		log.Warn("HTTP Error", fields...)
	}
}
