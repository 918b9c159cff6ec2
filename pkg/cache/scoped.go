package cache

import (
	"context"
	"time"
)

// Scoped wraps a Cache so that every key is prefixed. It separates
// namespaces (for example per-tenant color caches in the HTTP server)
// that share one backend.
//
//	tenant := cache.NewScoped(shared, "tenant:abc123:")
type Scoped struct {
	inner  Cache
	prefix string
}

// NewScoped returns inner with prefix prepended to every key. A nil inner
// becomes a NullCache.
func NewScoped(inner Cache, prefix string) *Scoped {
	if inner == nil {
		inner = NewNullCache()
	}
	return &Scoped{inner: inner, prefix: prefix}
}

func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close closes the wrapped cache.
func (s *Scoped) Close() error {
	return s.inner.Close()
}

var _ Cache = (*Scoped)(nil)
