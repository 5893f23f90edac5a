// Package cache defines the analysis-result cache contract shared by the
// in-memory and Redis backends.  Values are serialized to JSON bytes so both
// backends behave identically with respect to type fidelity.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/geowild/ConserveIQ/pkg/errors"
)

// Sentinel cache errors.
var (
	ErrMiss                = errors.New(errors.ErrCodeNotFound, "cache miss")
	ErrSerializationFailed = errors.New(errors.ErrCodeSerialization, "cache serialization failed")
)

// Cache is the memoized analysis-result store.  Invalidation is all-or-
// nothing: fresh input data invalidates every cached analysis atomically,
// never a subset.
type Cache interface {
	// Get unmarshals the cached value for key into dest.  Returns ErrMiss
	// when absent or expired.
	Get(ctx context.Context, key string, dest interface{}) error

	// Set stores value under key for ttl (backend default when zero).
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// GetOrSet returns the cached value or computes it with loader, storing
	// the result.  Concurrent callers for the same key share one load.
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration,
		loader func(ctx context.Context) (interface{}, error)) error

	// InvalidateAll removes every cached analysis result atomically.
	InvalidateAll(ctx context.Context) error

	// Ping reports backend reachability.
	Ping(ctx context.Context) error
}

// Serializer converts cached values to and from bytes.
type Serializer interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// JSONSerializer is the default Serializer.
type JSONSerializer struct{}

func (JSONSerializer) Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func (JSONSerializer) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }
