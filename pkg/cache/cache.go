// Package cache stores computed diagrams, relation summaries and rendered
// artifacts between runs.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory; the CLI default
//   - [RedisCache]: a shared Redis instance, for several processes
//   - [NullCache]: stores nothing; used when caching is disabled
//
// # Keys
//
// A [Keyer] derives keys from content hashes, so a key changes whenever the
// graph, the diagram options or the rules it was computed from change.
// Entries never need explicit invalidation. [ScopedKeyer] prefixes every key,
// which keeps stores that share one cache apart.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value cache with per-entry expiry.
//
// Get reports a miss with ok=false and a nil error. A ttl of zero means the
// entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// DefaultTTL is the expiry used when none is configured.
const DefaultTTL = 24 * time.Hour
