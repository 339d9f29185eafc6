package config

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConfigReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirador_alert_panel_config_reloads_total",
			Help: "Total number of configuration reloads",
		},
		[]string{"status"}, // success, error
	)

	ConfigValidationErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mirador_alert_panel_config_validation_errors_total",
			Help: "Total number of configuration validation errors",
		},
	)
)

// RecordConfigReload records a configuration reload event
func RecordConfigReload(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	ConfigReloads.WithLabelValues(status).Inc()
}

// RecordValidationError records a configuration validation error
func RecordValidationError() {
	ConfigValidationErrors.Inc()
}
