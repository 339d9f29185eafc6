package config

import (
	"fmt"
	"net"
	"strconv"

	"github.com/platformbuilds/mirador-alert-panel/internal/models"
)

// ValidateGRPCEndpoint validates gRPC endpoint format
func ValidateGRPCEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("gRPC endpoint cannot be empty")
	}

	host, port, err := net.SplitHostPort(endpoint)
	if err != nil {
		return fmt.Errorf("gRPC endpoint must include port: %w", err)
	}

	if host == "" {
		return fmt.Errorf("gRPC endpoint must include host")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("port number must be between 1 and 65535")
	}

	return nil
}

// ValidateRedisNode validates Valkey node format
func ValidateRedisNode(node string) error {
	if node == "" {
		return fmt.Errorf("Valkey node cannot be empty")
	}

	// Check format: host:port
	host, port, err := net.SplitHostPort(node)
	if err != nil {
		return fmt.Errorf("Valkey node must be in format host:port: %w", err)
	}

	if host == "" {
		return fmt.Errorf("Valkey node must include host")
	}

	if _, err := strconv.Atoi(port); err != nil {
		return fmt.Errorf("invalid Valkey port: %w", err)
	}

	return nil
}

// ValidateCacheDiscovery checks the DNS discovery target when enabled.
func ValidateCacheDiscovery(d CacheDiscoveryConfig) error {
	if !d.Enabled {
		return nil
	}
	if d.Service == "" {
		return fmt.Errorf("cache discovery requires a service name")
	}
	if !d.UseSRV && (d.Port < 1 || d.Port > 65535) {
		return fmt.Errorf("cache discovery port must be between 1 and 65535")
	}
	return nil
}

// ValidatePanelConfig checks the alert panel defaults. An empty sort mode is
// accepted and means alert time.
func ValidatePanelConfig(panel PanelConfig) error {
	if s := panel.Defaults.Sort; s != "" {
		valid := false
		for _, mode := range models.SortModes {
			if s == mode {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid panel sort mode: %s", s)
		}
	}

	if panel.MaxFrames < 0 {
		return fmt.Errorf("panel max_frames cannot be negative")
	}

	for _, category := range panel.Defaults.Exclude {
		if category == "" {
			return fmt.Errorf("panel exclude list cannot contain empty categories")
		}
	}

	return nil
}
