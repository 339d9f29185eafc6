package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/platformbuilds/mirador-alert-panel/pkg/logger"
)

// ErrNoopCache is returned by the in-memory fallback's HealthCheck so
// readiness probes can tell it apart from a real Valkey connection.
var ErrNoopCache = errors.New("noop cache in use")

type noopEntry struct {
	data    []byte
	expires time.Time // zero means no expiry
}

// noopValkeyCache provides an in-memory, process-local fallback that satisfies
// ValkeyCluster when the external cache is unavailable. It is best-effort and
// intended for development and degraded operation; data is not shared across
// replicas and is lost on restart.
type noopValkeyCache struct {
	m      map[string]noopEntry
	mu     sync.Mutex
	now    func() time.Time
	logger logger.Logger
}

func NewNoopValkeyCache(log logger.Logger) ValkeyCluster {
	log = logger.OrNop(log)
	log.Warn("Valkey cache unavailable; using in-memory fallback (noop)")
	return &noopValkeyCache{m: make(map[string]noopEntry), now: time.Now, logger: log}
}

// lookup returns a live entry, dropping it when expired. Callers hold mu.
func (n *noopValkeyCache) lookup(key string) (noopEntry, bool) {
	e, ok := n.m[key]
	if !ok {
		return noopEntry{}, false
	}
	if !e.expires.IsZero() && !n.now().Before(e.expires) {
		delete(n.m, key)
		return noopEntry{}, false
	}
	return e, true
}

func (n *noopValkeyCache) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return n.now().Add(ttl)
}

func (n *noopValkeyCache) Get(ctx context.Context, key string) ([]byte, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	e, ok := n.lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return e.data, nil
}

func (n *noopValkeyCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := encodeValue(value)
	if err != nil {
		return err
	}
	n.mu.Lock()
	n.m[key] = noopEntry{data: b, expires: n.expiry(ttl)}
	n.mu.Unlock()
	return nil
}

func (n *noopValkeyCache) Delete(ctx context.Context, key string) error {
	n.mu.Lock()
	delete(n.m, key)
	n.mu.Unlock()
	return nil
}

func (n *noopValkeyCache) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	var count int64
	if e, ok := n.lookup(key); ok {
		c, err := strconv.ParseInt(string(e.data), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("value of %s is not an integer", key)
		}
		count = c
	}
	count++
	n.m[key] = noopEntry{data: []byte(strconv.FormatInt(count, 10)), expires: n.expiry(ttl)}
	return count, nil
}

func (n *noopValkeyCache) HealthCheck(ctx context.Context) error {
	return ErrNoopCache
}
