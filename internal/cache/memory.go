package cache

import (
	"context"
	"sync"
	"time"

	"github.com/kavyamurthy/logscope/pkg/models"
)

// MemoryCache implements the Cache interface with an in-process map. Used for
// single-node deployments and as the fresh cache tests inject to assert
// hit/miss behavior without Redis.
type MemoryCache struct {
	mu       sync.RWMutex
	entries  map[string]memoryEntry
	counters map[string]counterEntry
}

type memoryEntry struct {
	value   []byte
	expires time.Time // zero means no expiry
}

type counterEntry struct {
	n       int64
	expires time.Time
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries:  make(map[string]memoryEntry),
		counters: make(map[string]counterEntry),
	}
}

func (c *MemoryCache) Ping(context.Context) error { return nil }

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) IncrWithExpiry(_ context.Context, key string, expiry time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	e, ok := c.counters[key]
	if !ok || now.After(e.expires) {
		e = counterEntry{expires: now.Add(expiry)}
	}
	e.n++
	c.counters[key] = e
	return e.n, nil
}

func (c *MemoryCache) GetTimeline(ctx context.Context, fingerprint string, width time.Duration) (*models.Timeline, bool, error) {
	return getTimeline(ctx, c, fingerprint, width)
}

func (c *MemoryCache) SetTimeline(ctx context.Context, tl *models.Timeline) error {
	return setTimeline(ctx, c, tl)
}

// Compile-time check that both implementations satisfy the interface.
var (
	_ Cache = (*MemoryCache)(nil)
	_ Cache = (*RedisCache)(nil)
)
