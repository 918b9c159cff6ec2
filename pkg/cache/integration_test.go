package cache

import (
	"context"
	"os"
	"slices"
	"testing"
	"time"
)

// Remote backends are exercised only when their address is configured:
//
//	SETGRID_REDIS_ADDR=localhost:6379 go test ./pkg/cache
//	SETGRID_MONGO_URI=mongodb://localhost:27017 go test ./pkg/cache
func remoteBackends(t *testing.T) map[string]Cache {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out := make(map[string]Cache)
	if addr := os.Getenv("SETGRID_REDIS_ADDR"); addr != "" {
		c, err := NewRedisCache(ctx, addr)
		if err != nil {
			t.Fatalf("NewRedisCache(%q) error: %v", addr, err)
		}
		out["redis"] = c
	}
	if uri := os.Getenv("SETGRID_MONGO_URI"); uri != "" {
		c, err := NewMongoCache(ctx, uri)
		if err != nil {
			t.Fatalf("NewMongoCache(%q) error: %v", uri, err)
		}
		out["mongo"] = c
	}
	if len(out) == 0 {
		t.Skip("set SETGRID_REDIS_ADDR or SETGRID_MONGO_URI to run remote cache tests")
	}
	return out
}

func TestRemoteColorStore(t *testing.T) {
	ctx := context.Background()
	for name, c := range remoteBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer c.Close()
			s := NewColorStore(NewScoped(c, "test:"+t.Name()+":"), time.Minute)
			key := ColorKey([]string{"Alice", "Bob"})
			defer s.Delete(ctx, key)

			want := ColorEntry{Assignment: []int{0, 1}, Palette: []string{"#4E79A7", "#E15759"}, Energy: 0.5}
			if err := s.Put(ctx, key, want); err != nil {
				t.Fatalf("Put() error: %v", err)
			}
			got, ok, err := s.Get(ctx, key)
			if err != nil || !ok {
				t.Fatalf("Get() = %v, %v", ok, err)
			}
			if !slices.Equal(got.Assignment, want.Assignment) || got.Energy != want.Energy {
				t.Errorf("Get() = %+v, want %+v", got, want)
			}
		})
	}
}
