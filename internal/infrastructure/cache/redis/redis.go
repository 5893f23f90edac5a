// Package redis provides the Redis-backed implementation of the analysis
// cache, for deployments that share analysis results across replicas.
package redis

import (
	"context"
	"math/rand"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/geowild/ConserveIQ/internal/infrastructure/cache"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
	"github.com/geowild/ConserveIQ/pkg/errors"
)

const (
	defaultPrefix  = "conserviq:"
	defaultTTL     = 15 * time.Minute
	scanBatchCount = 100
)

type redisCache struct {
	client     goredis.UniversalClient
	logger     logging.Logger
	prefix     string
	defaultTTL time.Duration
	serializer cache.Serializer
	group      singleflight.Group
}

// Option configures the Redis cache.
type Option func(*redisCache)

// WithPrefix overrides the key namespace prefix.
func WithPrefix(prefix string) Option {
	return func(c *redisCache) { c.prefix = prefix }
}

// WithDefaultTTL overrides the TTL applied when Set receives zero.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *redisCache) { c.defaultTTL = ttl }
}

// WithSerializer overrides the value serializer.
func WithSerializer(s cache.Serializer) Option {
	return func(c *redisCache) { c.serializer = s }
}

// New constructs a Redis-backed Cache over an existing client.
func New(client goredis.UniversalClient, logger logging.Logger, opts ...Option) cache.Cache {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	c := &redisCache{
		client:     client,
		logger:     logger.Named("cache.redis"),
		prefix:     defaultPrefix,
		defaultTTL: defaultTTL,
		serializer: cache.JSONSerializer{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *redisCache) fullKey(key string) string { return c.prefix + key }

// jitterTTL spreads expirations +/-10% so cached analyses do not all expire
// in the same instant.
func (c *redisCache) jitterTTL(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return 0
	}
	jitter := float64(ttl) * 0.1 * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, c.fullKey(key)).Bytes()
	if err == goredis.Nil {
		return cache.ErrMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache get failed")
	}
	return c.serializer.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	data, err := c.serializer.Marshal(value)
	if err != nil {
		return cache.ErrSerializationFailed
	}
	return c.client.Set(ctx, c.fullKey(key), data, c.jitterTTL(ttl)).Err()
}

func (c *redisCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration,
	loader func(ctx context.Context) (interface{}, error)) error {

	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		return err
	}

	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		v, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if setErr := c.Set(ctx, key, v, ttl); setErr != nil {
			c.logger.Warn("failed to populate cache", logging.String("key", key), logging.Err(setErr))
		}
		return v, nil
	})
	if err != nil {
		return err
	}

	data, err := c.serializer.Marshal(val)
	if err != nil {
		return cache.ErrSerializationFailed
	}
	return c.serializer.Unmarshal(data, dest)
}

// InvalidateAll scans the cache namespace and deletes every key.  Fresh
// input invalidates all analyses, never a subset.
func (c *redisCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	match := c.prefix + "*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, match, scanBatchCount).Result()
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeCacheError, "cache invalidation scan failed")
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return errors.Wrap(err, errors.ErrCodeCacheError, "cache invalidation delete failed")
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
