// Package cache stores color assignments between runs.
//
// [Cache] is a small byte-oriented key/value interface with optional
// expiry. Four backends implement it:
//
//   - [FileCache]: one JSON file per key under a directory (CLI default)
//   - [MemoryCache]: an in-process map (tests and the HTTP server)
//   - [RedisCache]: a shared Redis instance
//   - [MongoCache]: a MongoDB collection
//
// [NullCache] disables caching and [Scoped] namespaces any backend behind a
// key prefix. [ColorStore] layers typed color entries and per-key
// compare-and-persist on top of a Cache.
//
// A backend failure is never fatal to a layout run: callers treat errors
// from Get as a miss.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get returns the value stored under key. A missing or expired entry is
	// reported with ok == false and a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of zero keeps the entry forever.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
