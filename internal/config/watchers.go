package config

import (
	"context"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/platformbuilds/mirador-alert-panel/pkg/logger"
)

// ConfigWatcher reloads the configuration file when it changes and hands the
// new configuration to every subscriber. A reload that fails to load or
// validate keeps the previous configuration.
type ConfigWatcher struct {
	config     *Config
	configPath string
	logger     logger.Logger
	mu         sync.RWMutex
	watchers   []func(*Config)
	stopCh     chan struct{}
	stopOnce   sync.Once
}

func NewConfigWatcher(initial *Config, configPath string, log logger.Logger) *ConfigWatcher {
	return &ConfigWatcher{
		config:     initial,
		configPath: configPath,
		logger:     logger.OrNop(log),
		watchers:   make([]func(*Config), 0),
		stopCh:     make(chan struct{}),
	}
}

// Start begins watching for configuration file changes. It blocks until ctx
// is cancelled or Stop is called.
func (w *ConfigWatcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.configPath); err != nil {
		return fmt.Errorf("failed to watch config file: %w", err)
	}

	w.logger.Info("Configuration watcher started", "configPath", w.configPath)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.logger.Info("Configuration file changed, reloading...", "file", event.Name)
				if err := w.Reload(); err != nil {
					w.logger.Error("Failed to reload configuration", "error", err)
				}
			}

			// Editors that replace the file drop the watch; re-arm it.
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				if err := watcher.Add(w.configPath); err != nil {
					w.logger.Warn("Configuration file is gone; keeping current configuration", "error", err)
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Configuration watcher error", "error", err)

		case <-ctx.Done():
			w.logger.Info("Configuration watcher stopping")
			return nil

		case <-w.stopCh:
			w.logger.Info("Configuration watcher stopped")
			return nil
		}
	}
}

// Subscribe adds a callback for configuration changes
func (w *ConfigWatcher) Subscribe(callback func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.watchers = append(w.watchers, callback)
}

// Current returns the current configuration (thread-safe)
func (w *ConfigWatcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// Stop stops the configuration watcher
func (w *ConfigWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

// Reload re-reads the watched file and notifies subscribers on success.
func (w *ConfigWatcher) Reload() error {
	newConfig, err := LoadFile(w.configPath)
	if err != nil {
		RecordConfigReload(false)
		return err
	}

	w.mu.Lock()
	w.config = newConfig
	w.mu.Unlock()

	RecordConfigReload(true)
	w.logger.Info("Configuration reloaded successfully")
	w.notifyWatchers(newConfig)
	return nil
}

func (w *ConfigWatcher) notifyWatchers(config *Config) {
	w.mu.RLock()
	watchers := make([]func(*Config), len(w.watchers))
	copy(watchers, w.watchers)
	w.mu.RUnlock()

	for _, watcher := range watchers {
		func(fn func(*Config)) {
			defer func() {
				if r := recover(); r != nil {
					w.logger.Error("Configuration subscriber panicked", "panic", r)
				}
			}()
			fn(config)
		}(watcher)
	}
}
