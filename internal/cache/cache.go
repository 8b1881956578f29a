// Package cache holds derived analysis results keyed by input fingerprint,
// so recomputation is avoided when a view changes without the input changing.
// A miss is always safe; keys carry enough of the input identity that a stale
// hit would require a fingerprint collision.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kavyamurthy/logscope/pkg/models"
)

// timelineTTL bounds how long a cached bucket series outlives its input.
const timelineTTL = 30 * time.Minute

// Cache is the caching interface. All cache operations go through here.
// Implementations must be safe for concurrent use.
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	IncrWithExpiry(ctx context.Context, key string, expiry time.Duration) (int64, error)

	GetTimeline(ctx context.Context, fingerprint string, width time.Duration) (*models.Timeline, bool, error)
	SetTimeline(ctx context.Context, tl *models.Timeline) error
}

// RedisCache implements the Cache interface using go-redis/v9.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new RedisCache from a Redis URL.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

// Close releases the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *RedisCache) IncrWithExpiry(ctx context.Context, key string, expiry time.Duration) (int64, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, expiry)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (c *RedisCache) GetTimeline(ctx context.Context, fingerprint string, width time.Duration) (*models.Timeline, bool, error) {
	return getTimeline(ctx, c, fingerprint, width)
}

func (c *RedisCache) SetTimeline(ctx context.Context, tl *models.Timeline) error {
	return setTimeline(ctx, c, tl)
}

// The timeline entry is stored under the (fingerprint, width) it was
// requested as, and carries its own fingerprint so callers can detect a
// collision. The JSON codec is shared between implementations.
func getTimeline(ctx context.Context, c Cache, fingerprint string, width time.Duration) (*models.Timeline, bool, error) {
	raw, ok, err := c.Get(ctx, TimelineKey(fingerprint, width))
	if err != nil || !ok {
		return nil, false, err
	}
	var tl models.Timeline
	if err := json.Unmarshal(raw, &tl); err != nil {
		return nil, false, err
	}
	return &tl, true, nil
}

func setTimeline(ctx context.Context, c Cache, tl *models.Timeline) error {
	raw, err := json.Marshal(tl)
	if err != nil {
		return err
	}
	return c.Set(ctx, TimelineKey(tl.Fingerprint, tl.Width), raw, timelineTTL)
}
