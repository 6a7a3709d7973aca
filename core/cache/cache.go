// Package cache implements the two-tier snapshot cache.
//
// Reads try the distributed tier first, then the process-local tier, whose TTL is
// tracked independently. Writes always update the local tier and attempt the
// distributed one. The distributed tier never surfaces errors: when it is
// unreachable the cache quietly serves from the local tier or reports a miss.
package cache

import (
	"context"
	"path"
	"sync"
	"time"

	"token-aggregator/core/metrics"
	"token-aggregator/core/token"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Tier names the layer that served a read.
type Tier string

const (
	TierRemote Tier = "remote"
	TierLocal  Tier = "local"
)

// Remote is the distributed tier. core/redis.Client satisfies it.
type Remote interface {
	Available() bool
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool
	Keys(ctx context.Context, pattern string) []string
	Del(ctx context.Context, keys ...string) int64
}

type localEntry struct {
	snapshot *token.Snapshot
	storedAt time.Time
	ttl      time.Duration
}

// Cache is a tiered snapshot cache. The zero value is not usable; use New.
type Cache struct {
	remote  Remote
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu    sync.RWMutex
	local map[string]localEntry
}

// New creates a cache. remote may be nil, leaving only the local tier.
func New(remote Remote, logger *zap.Logger, m *metrics.Metrics) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		remote:  remote,
		logger:  logger,
		metrics: m,
		now:     time.Now,
		local:   make(map[string]localEntry),
	}
}

// Read returns the cached snapshot for key and the tier that served it.
func (c *Cache) Read(ctx context.Context, key string) (*token.Snapshot, Tier, bool) {
	if c.remote != nil && c.remote.Available() {
		if raw, ok := c.remote.Get(ctx, key); ok {
			var snap token.Snapshot
			err := json.Unmarshal(raw, &snap)
			if err == nil {
				c.metrics.RecordCacheRead(string(TierRemote), "hit")
				return &snap, TierRemote, true
			}
			c.logger.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		}
		c.metrics.RecordCacheRead(string(TierRemote), "miss")
	}

	c.mu.RLock()
	entry, ok := c.local[key]
	c.mu.RUnlock()

	if ok && c.now().Sub(entry.storedAt) < entry.ttl {
		c.metrics.RecordCacheRead(string(TierLocal), "hit")
		return entry.snapshot, TierLocal, true
	}
	c.metrics.RecordCacheRead(string(TierLocal), "miss")
	return nil, "", false
}

// Write stores snap under key in both tiers.
// The local copy is refreshed even when the distributed write is skipped or fails.
func (c *Cache) Write(ctx context.Context, key string, snap *token.Snapshot, ttl time.Duration) {
	if snap == nil {
		return
	}

	c.mu.Lock()
	c.local[key] = localEntry{snapshot: snap, storedAt: c.now(), ttl: ttl}
	c.mu.Unlock()

	if c.remote == nil || !c.remote.Available() {
		return
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		c.logger.Error("Failed to encode snapshot for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if !c.remote.Set(ctx, key, raw, ttl) {
		c.logger.Debug("Distributed cache write skipped", zap.String("key", key))
	}
}

// Invalidate removes every key matching pattern from both tiers.
// Patterns use glob syntax, e.g. "tokens:*".
func (c *Cache) Invalidate(ctx context.Context, pattern string) (remote int64, local int) {
	if c.remote != nil && c.remote.Available() {
		if keys := c.remote.Keys(ctx, pattern); len(keys) > 0 {
			remote = c.remote.Del(ctx, keys...)
		}
	}

	c.mu.Lock()
	for key := range c.local {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.local, key)
			local++
		}
	}
	c.mu.Unlock()

	return remote, local
}
