package cache

import (
	"context"
	"errors"
	"os"
	"slices"
	"sync"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get() = %q, %v, %v, want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

// backends returns fresh instances of the local backends.
func backends(t *testing.T) map[string]Cache {
	t.Helper()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	return map[string]Cache{
		"file":   fc,
		"memory": NewMemoryCache(),
		"scoped": NewScoped(NewMemoryCache(), "tenant:"),
	}
}

func TestBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer c.Close()

			if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
				t.Fatalf("Get() on empty cache = hit %v, err %v", hit, err)
			}
			if err := c.Set(ctx, "k", []byte("v1"), 0); err != nil {
				t.Fatalf("Set() error: %v", err)
			}
			if err := c.Set(ctx, "k", []byte("v2"), time.Hour); err != nil {
				t.Fatalf("Set() overwrite error: %v", err)
			}

			data, hit, err := c.Get(ctx, "k")
			if err != nil || !hit || string(data) != "v2" {
				t.Errorf("Get() = %q, %v, %v, want v2", data, hit, err)
			}

			if err := c.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete() error: %v", err)
			}
			if _, hit, _ := c.Get(ctx, "k"); hit {
				t.Error("Get() after Delete() hit")
			}
			if err := c.Delete(ctx, "missing"); err != nil {
				t.Errorf("Delete(missing) error: %v", err)
			}
		})
	}
}

func TestBackendExpiry(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
				t.Fatalf("Set() error: %v", err)
			}
			time.Sleep(5 * time.Millisecond)
			if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
				t.Errorf("Get() expired entry = hit %v, err %v", hit, err)
			}
		})
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	if err := fc.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := os.WriteFile(fc.path("k"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := fc.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get() corrupt entry = hit %v, err %v, want clean miss", hit, err)
	}
	if _, err := os.Stat(fc.path("k")); !os.IsNotExist(err) {
		t.Error("corrupt entry not removed")
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	for name, c := range map[string]interface {
		Cache
		Clearer
	}{"file": fc, "memory": NewMemoryCache()} {
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{"a", "b", "c"} {
				if err := c.Set(ctx, k, []byte(k), 0); err != nil {
					t.Fatalf("Set(%q) error: %v", k, err)
				}
			}
			if err := c.Clear(ctx); err != nil {
				t.Fatalf("Clear() error: %v", err)
			}
			for _, k := range []string{"a", "b", "c"} {
				if _, hit, _ := c.Get(ctx, k); hit {
					t.Errorf("Get(%q) hit after Clear()", k)
				}
			}
		})
	}
}

func TestScopedIsolation(t *testing.T) {
	ctx := context.Background()
	shared := NewMemoryCache()
	a, b := NewScoped(shared, "a:"), NewScoped(shared, "b:")

	if err := a.Set(ctx, "k", []byte("from a"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := b.Get(ctx, "k"); hit {
		t.Error("scope b sees scope a's key")
	}
	if data, hit, _ := shared.Get(ctx, "a:k"); !hit || string(data) != "from a" {
		t.Errorf("shared Get(a:k) = %q, %v, want prefixed entry", data, hit)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"file", Config{Dir: t.TempDir()}, false},
		{"file without dir", Config{Backend: BackendFile}, true},
		{"memory", Config{Backend: BackendMemory}, false},
		{"none", Config{Backend: BackendNone}, false},
		{"redis without addr", Config{Backend: BackendRedis}, true},
		{"mongo without uri", Config{Backend: BackendMongo}, true},
		{"unknown", Config{Backend: "etcd"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Open(ctx, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if c != nil {
				c.Close()
			}
		})
	}

	if _, err := Open(ctx, Config{Backend: "etcd"}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open(etcd) error = %v, want ErrUnknownBackend", err)
	}
}

func TestHash(t *testing.T) {
	h1, h2, h3 := Hash([]byte("hello")), Hash([]byte("hello")), Hash([]byte("world"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestKey(t *testing.T) {
	k1 := Key("colors", "a", 1)
	k2 := Key("colors", "a", 2)
	if k1 == k2 {
		t.Error("Key() ignores parts")
	}
	if len(k1) != len("colors:")+64 || k1[:7] != "colors:" {
		t.Errorf("Key() = %q, want colors:<sha256>", k1)
	}
}

func TestColorStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := NewColorStore(c, 0)
			key := ColorKey([]string{"Alice", "Bob"})

			if _, ok, err := s.Get(ctx, key); ok || err != nil {
				t.Fatalf("Get() on empty store = %v, %v", ok, err)
			}

			want := ColorEntry{Assignment: []int{1, 0}, Palette: []string{"#4E79A7", "#E15759"}, Energy: 0.25}
			if err := s.Put(ctx, key, want); err != nil {
				t.Fatalf("Put() error: %v", err)
			}

			got, ok, err := s.Get(ctx, key)
			if err != nil || !ok {
				t.Fatalf("Get() = %v, %v", ok, err)
			}
			if got.Key != key || !slices.Equal(got.Assignment, want.Assignment) ||
				!slices.Equal(got.Palette, want.Palette) || got.Energy != want.Energy {
				t.Errorf("Get() = %+v, want %+v", got, want)
			}
			if got.UpdatedAt.IsZero() {
				t.Error("Put() did not stamp UpdatedAt")
			}
		})
	}
}

func TestColorKey(t *testing.T) {
	if got := ColorKey([]string{"a", "b c"}); got != "a|b c" {
		t.Errorf("ColorKey() = %q, want %q", got, "a|b c")
	}
}

func TestColorStoreUpdateKeepsBetter(t *testing.T) {
	ctx := context.Background()
	s := NewColorStore(NewMemoryCache(), 0)
	key := "k"

	better := func(energy float64) UpdateFunc {
		return func(cur ColorEntry, ok bool) (ColorEntry, bool, error) {
			if ok && cur.Energy <= energy {
				return cur, false, nil
			}
			return ColorEntry{Assignment: []int{0}, Palette: []string{"#000000"}, Energy: energy}, true, nil
		}
	}

	var wg sync.WaitGroup
	for _, e := range []float64{5, 3, 4, 1, 2} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Update(ctx, key, better(e)); err != nil {
				t.Errorf("Update(%v) error: %v", e, err)
			}
		}()
	}
	wg.Wait()

	got, ok, _ := s.Get(ctx, key)
	if !ok || got.Energy != 1 {
		t.Errorf("stored energy = %v (ok=%v), want 1", got.Energy, ok)
	}
	if len(s.locks) != 0 {
		t.Errorf("%d key locks leaked", len(s.locks))
	}
}

func TestColorStoreUpdateError(t *testing.T) {
	ctx := context.Background()
	s := NewColorStore(NewMemoryCache(), 0)
	boom := errors.New("boom")

	_, err := s.Update(ctx, "k", func(ColorEntry, bool) (ColorEntry, bool, error) {
		return ColorEntry{}, true, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Update() error = %v, want boom", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Error("failed Update() persisted an entry")
	}
}

func TestColorStoreForeignEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryCache()
	s := NewColorStore(mem, 0)
	if err := mem.Set(ctx, storageKey("k"), []byte(`{"key":"other"}`), 0); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := s.Get(ctx, "k"); ok || err != nil {
		t.Errorf("Get() = %v, %v, want clean miss", ok, err)
	}
}

func TestBackoffPing(t *testing.T) {
	b := backoff{attempts: 3, initial: time.Millisecond}
	down := errors.New("connection refused")

	tests := []struct {
		name      string
		failures  int
		wantCalls int
		wantErr   bool
	}{
		{"first try", 0, 1, false},
		{"recovers", 2, 3, false},
		{"gives up", 5, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := b.ping(context.Background(), "redis", func(context.Context) error {
				calls++
				if calls <= tt.failures {
					return down
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("ping() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnavailable) {
				t.Errorf("ping() error = %v, want ErrUnavailable", err)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestBackoffPingCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := backoff{attempts: 3, initial: time.Hour}
	err := b.ping(ctx, "mongo", func(context.Context) error { return ErrUnavailable })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ping() error = %v, want context.Canceled", err)
	}
}
