package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Config selects and addresses a backend.
type Config struct {
	Backend   string `json:"backend" toml:"backend"`
	Dir       string `json:"dir,omitempty" toml:"dir"`
	RedisAddr string `json:"redis_addr,omitempty" toml:"redis_addr"`
	MongoURI  string `json:"mongo_uri,omitempty" toml:"mongo_uri"`
}

// Open creates the backend described by cfg. An empty backend name means
// the file cache.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache: no directory")
		}
		return NewFileCache(cfg.Dir)
	case BackendMemory:
		return NewMemoryCache(), nil
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis cache: no address")
		}
		return NewRedisCache(ctx, cfg.RedisAddr)
	case BackendMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("mongo cache: no uri")
		}
		return NewMongoCache(ctx, cfg.MongoURI)
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
