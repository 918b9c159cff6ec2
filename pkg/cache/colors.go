package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/setgrid/pkg/observability"
)

// ColorEntry is a persisted color assignment: Assignment[i] indexes Palette
// for the i-th colorable entity.
type ColorEntry struct {
	Key        string    `json:"key" bson:"key"`
	Assignment []int     `json:"assignment" bson:"assignment"`
	Palette    []string  `json:"palette" bson:"palette"`
	Energy     float64   `json:"energy" bson:"energy"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// ColorKey identifies a set of colorable entities by their names in order.
func ColorKey(names []string) string {
	return strings.Join(names, "|")
}

// ColorStore persists color entries in a Cache. Updates to the same key are
// serialized so a slower writer cannot replace a better assignment that
// landed in between.
type ColorStore struct {
	cache Cache
	ttl   time.Duration

	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewColorStore stores entries in c. A ttl of zero keeps them forever.
func NewColorStore(c Cache, ttl time.Duration) *ColorStore {
	if c == nil {
		c = NewNullCache()
	}
	return &ColorStore{cache: c, ttl: ttl, locks: make(map[string]*keyLock)}
}

func storageKey(key string) string {
	return Key("colors", key)
}

// Get loads the entry for key. Entries that fail to decode, or that were
// stored for a different key, are reported as misses.
func (s *ColorStore) Get(ctx context.Context, key string) (ColorEntry, bool, error) {
	data, ok, err := s.cache.Get(ctx, storageKey(key))
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "colors")
		return ColorEntry{}, false, err
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, "colors")
		return ColorEntry{}, false, nil
	}

	var e ColorEntry
	if err := json.Unmarshal(data, &e); err != nil || e.Key != key {
		observability.Cache().OnCacheMiss(ctx, "colors")
		return ColorEntry{}, false, nil
	}
	observability.Cache().OnCacheHit(ctx, "colors")
	return e, true, nil
}

// Put stores e under key unconditionally.
func (s *ColorStore) Put(ctx context.Context, key string, e ColorEntry) error {
	e.Key = key
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, storageKey(key), data, s.ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, "colors", len(data))
	return nil
}

// UpdateFunc receives the stored entry (ok reports whether one exists) and
// returns the entry to persist, or write == false to leave the store as is.
type UpdateFunc func(cur ColorEntry, ok bool) (next ColorEntry, write bool, err error)

// Update runs fn under the key's lock and persists its result. It returns
// the entry that is stored afterwards.
func (s *ColorStore) Update(ctx context.Context, key string, fn UpdateFunc) (ColorEntry, error) {
	unlock := s.lock(key)
	defer unlock()

	cur, ok, err := s.Get(ctx, key)
	if err != nil {
		ok = false
	}

	next, write, err := fn(cur, ok)
	if err != nil {
		return cur, err
	}
	if !write {
		return cur, nil
	}
	next.UpdatedAt = time.Now().UTC()
	if err := s.Put(ctx, key, next); err != nil {
		return cur, err
	}
	next.Key = key
	return next, nil
}

// Delete removes the entry for key.
func (s *ColorStore) Delete(ctx context.Context, key string) error {
	return s.cache.Delete(ctx, storageKey(key))
}

func (s *ColorStore) lock(key string) func() {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &keyLock{}
		s.locks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}
