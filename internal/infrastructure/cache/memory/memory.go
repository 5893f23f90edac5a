// Package memory provides the default in-process implementation of the
// analysis cache.  It is the zero-dependency backend used when no Redis
// endpoint is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/geowild/ConserveIQ/internal/infrastructure/cache"
)

const defaultTTL = 15 * time.Minute

type entry struct {
	data      []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

type memoryCache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
	serializer cache.Serializer
	group      singleflight.Group

	// now is swappable for expiry tests.
	now func() time.Time
}

// Option configures the memory cache.
type Option func(*memoryCache)

// WithDefaultTTL overrides the TTL applied when Set receives zero.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *memoryCache) { c.defaultTTL = ttl }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *memoryCache) { c.now = now }
}

// New constructs an in-memory Cache.
func New(opts ...Option) cache.Cache {
	c := &memoryCache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		serializer: cache.JSONSerializer{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || e.expired(c.now()) {
		return cache.ErrMiss
	}
	return c.serializer.Unmarshal(e.data, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	data, err := c.serializer.Marshal(value)
	if err != nil {
		return cache.ErrSerializationFailed
	}
	c.mu.Lock()
	c.entries[key] = entry{data: data, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration,
	loader func(ctx context.Context) (interface{}, error)) error {

	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}

	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		v, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if setErr := c.Set(ctx, key, v, ttl); setErr != nil {
			return nil, setErr
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

func (c *memoryCache) InvalidateAll(context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Ping(context.Context) error { return nil }
