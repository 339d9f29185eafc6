// Package monitoring provides the Prometheus metrics of the alert panel service.
//
// Usage:
//
//  1. Setup metrics in your main function:
//     router := gin.New()
//     monitoring.SetupPrometheusMetrics(router, "/metrics")
//
//  2. HTTP metrics are collected by middleware.MetricsMiddleware, which calls
//     RecordHTTPRequest.
//
//  3. Record domain metrics where the work happens:
//
//     monitoring.RecordCacheOperation("get", "hit")
//     monitoring.RecordRender("priority", frames, rows, time.Since(start))
//
// Available Metrics:
//
// HTTP Metrics:
//   - mirador_alert_panel_http_requests_total{method, endpoint, status_code}
//   - mirador_alert_panel_http_request_duration_seconds{method, endpoint}
//   - mirador_alert_panel_active_connections
//
// Cache Metrics:
//   - mirador_alert_panel_cache_operations_total{operation, result}
//
// Render Metrics:
//   - mirador_alert_panel_renders_total{sort}
//   - mirador_alert_panel_render_duration_seconds{sort}
//   - mirador_alert_panel_render_frames
//   - mirador_alert_panel_rendered_rows_total{state}
//   - mirador_alert_panel_truncated_frames_total
//
// Rate Limiting:
//   - mirador_alert_panel_rate_limited_total
//
// Error Metrics:
//   - mirador_alert_panel_errors_total{type, component}
//
// Build Info:
//   - mirador_alert_panel_build_info{version, component, go_version}
package monitoring

import (
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/platformbuilds/mirador-alert-panel/internal/config"
)

var (
	// HTTP request metrics
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirador_alert_panel_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mirador_alert_panel_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	activeConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mirador_alert_panel_active_connections",
			Help: "Number of active connections",
		},
	)

	// Cache metrics
	cacheOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirador_alert_panel_cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"}, // result: hit, miss, success, error
	)

	// Render metrics
	rendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirador_alert_panel_renders_total",
			Help: "Total number of alert list render passes",
		},
		[]string{"sort"},
	)

	renderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mirador_alert_panel_render_duration_seconds",
			Help:    "Alert list render duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"sort"},
	)

	renderFrames = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mirador_alert_panel_render_frames",
			Help:    "Number of alert frames per render pass",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		},
	)

	renderedRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirador_alert_panel_rendered_rows_total",
			Help: "Total number of rendered alert rows by display state",
		},
		[]string{"state"},
	)

	truncatedFramesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mirador_alert_panel_truncated_frames_total",
			Help: "Frames dropped because a request exceeded panel.max_frames",
		},
	)

	rateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mirador_alert_panel_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	// Error rate metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirador_alert_panel_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type", "component"}, // type: http, cache, render
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		activeConnections,
		cacheOperationsTotal,
		rendersTotal,
		renderDuration,
		renderFrames,
		renderedRowsTotal,
		truncatedFramesTotal,
		rateLimitedTotal,
		errorsTotal,
	)
}

// SetupPrometheusMetrics exposes the default registry on path (default /metrics).
func SetupPrometheusMetrics(router gin.IRoutes, path string) {
	if path == "" {
		path = "/metrics"
	}

	// Register build info (ignore if already registered)
	_ = prometheus.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "mirador_alert_panel_build_info",
		Help: "Build information for the alert panel service",
		ConstLabels: prometheus.Labels{
			"version":    config.ServiceVersion,
			"component":  "mirador-alert-panel",
			"go_version": runtime.Version(),
		},
	}, func() float64 { return 1 }))

	router.GET(path, gin.WrapH(promhttp.Handler()))
}

// TrackConnection increments the active connection gauge and returns the
// matching decrement.
func TrackConnection() func() {
	activeConnections.Inc()
	return activeConnections.Dec
}

// RecordHTTPRequest records one served request. endpoint should be the route
// template; unmatched routes are normalized.
func RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	if endpoint == "" {
		endpoint = "unmatched"
	}
	endpoint = normalizeEndpoint(endpoint)
	httpRequestsTotal.WithLabelValues(method, endpoint, statusLabel(status)).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	if status >= 500 {
		errorsTotal.WithLabelValues("http", endpoint).Inc()
	}
}

// RecordCacheOperation records cache operation metrics
func RecordCacheOperation(operation, result string) {
	cacheOperationsTotal.WithLabelValues(operation, result).Inc()
	if result == "error" {
		errorsTotal.WithLabelValues("cache", operation).Inc()
	}
}

// RecordRender records one render pass. rowStates holds the display state of
// every produced row.
func RecordRender(sort string, frames int, rowStates []string, duration time.Duration) {
	rendersTotal.WithLabelValues(sort).Inc()
	renderDuration.WithLabelValues(sort).Observe(duration.Seconds())
	renderFrames.Observe(float64(frames))
	for _, state := range rowStates {
		renderedRowsTotal.WithLabelValues(state).Inc()
	}
}

// RecordTruncation records frames dropped by the max_frames cap.
func RecordTruncation(dropped int) {
	if dropped > 0 {
		truncatedFramesTotal.Add(float64(dropped))
	}
}

// RecordRenderError counts requests that could not be rendered, e.g.
// undecodable bodies.
func RecordRenderError(reason string) {
	errorsTotal.WithLabelValues("render", reason).Inc()
}

// RecordRateLimited counts a request rejected by the rate limiter.
func RecordRateLimited() {
	rateLimitedTotal.Inc()
}

func statusLabel(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status)
}

// normalizeEndpoint normalizes API endpoints for consistent metrics
func normalizeEndpoint(path string) string {
	// Replace numeric segments with :id so raw paths do not explode cardinality.
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if isNumeric(part) && i > 0 {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

// isNumeric checks if a string is numeric
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
