package cache

import (
	"context"
	"sync"
	"time"

	"github.com/platformbuilds/mirador-alert-panel/pkg/logger"
)

// AutoSwapCache wraps a ValkeyCluster implementation and can swap from a
// fallback (e.g., in-memory noop) to a real Valkey client once it becomes
// available. It satisfies the ValkeyCluster interface by delegating all calls
// to the currently active implementation.
type AutoSwapCache struct {
	mu      sync.RWMutex
	current ValkeyCluster
	swapped bool
	logger  logger.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
}

// newAutoSwapCache creates an auto-swapping cache that starts with `fallback`
// and keeps trying `dialReal` every interval until it succeeds, then swaps.
func newAutoSwapCache(
	fallback ValkeyCluster,
	log logger.Logger,
	interval time.Duration,
	dialReal func() (ValkeyCluster, error),
) *AutoSwapCache {
	a := &AutoSwapCache{
		current: fallback,
		logger:  logger.OrNop(log),
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-a.stopCh:
				return
			case <-ticker.C:
				real, err := dialReal()
				if err != nil {
					a.logger.Warn("Valkey connection attempt failed; will retry", "error", err)
					continue
				}
				a.mu.Lock()
				a.current = real
				a.swapped = true
				a.mu.Unlock()
				a.logger.Info("Valkey connection established; switched from in-memory to real cache")
				return // stop after first successful swap
			}
		}
	}()

	return a
}

// Stop stops the background connector (used if the parent context is cancelled).
func (a *AutoSwapCache) Stop() { a.stopOnce.Do(func() { close(a.stopCh) }) }

// Swapped reports whether the real Valkey client is in use.
func (a *AutoSwapCache) Swapped() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.swapped
}

func (a *AutoSwapCache) active() ValkeyCluster {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

func (a *AutoSwapCache) Get(ctx context.Context, key string) ([]byte, error) {
	return a.active().Get(ctx, key)
}

func (a *AutoSwapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return a.active().Set(ctx, key, value, ttl)
}

func (a *AutoSwapCache) Delete(ctx context.Context, key string) error {
	return a.active().Delete(ctx, key)
}

func (a *AutoSwapCache) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	return a.active().Incr(ctx, key, ttl)
}

func (a *AutoSwapCache) HealthCheck(ctx context.Context) error {
	return a.active().HealthCheck(ctx)
}

// NewAutoSwapForSingle creates an auto-swapping cache that upgrades from
// in-memory to a single-node Valkey client when reachable.
func NewAutoSwapForSingle(addr string, db int, password string, ttl time.Duration, log logger.Logger, fallback ValkeyCluster) *AutoSwapCache {
	return newAutoSwapCache(fallback, log, 5*time.Second, func() (ValkeyCluster, error) {
		return NewValkeySingle(addr, db, password, ttl)
	})
}

// NewAutoSwapForCluster creates an auto-swapping cache that upgrades from
// in-memory to a Valkey cluster client when reachable.
func NewAutoSwapForCluster(nodes []string, password string, ttl time.Duration, log logger.Logger, fallback ValkeyCluster) *AutoSwapCache {
	return newAutoSwapCache(fallback, log, 5*time.Second, func() (ValkeyCluster, error) {
		return NewValkeyCluster(nodes, password, ttl)
	})
}
