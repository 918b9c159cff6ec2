package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/setgrid/pkg/cache"
	"github.com/matzehuels/setgrid/pkg/pipeline"
	"github.com/matzehuels/setgrid/pkg/render"
)

// Environment variables that override the config file.
const (
	envRedisAddr = "SETGRID_REDIS_ADDR"
	envMongoURI  = "SETGRID_MONGO_URI"
)

// Config is the contents of config.toml.
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[pipeline]
//	mode = "transparent"
//	headers = true
//
//	[pipeline.colors]
//	iterations = 20000
//
//	[pipeline.style]
//	corner_radius = 6
//
//	[server]
//	addr = ":8080"
type Config struct {
	Cache    cache.Config     `toml:"cache"`
	Pipeline pipeline.Options `toml:"pipeline"`
	Server   ServerConfig     `toml:"server"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
	// Namespace prefixes every cache key the server writes.
	Namespace string `toml:"namespace"`
}

const defaultAddr = ":8080"

// defaultConfig returns the settings used when no file overrides them.
func defaultConfig() Config {
	style := render.DefaultStyle()
	return Config{
		Cache: cache.Config{Backend: cache.BackendFile},
		Pipeline: pipeline.Options{
			Mode:    pipeline.DefaultMode,
			Headers: true,
			Style:   &style,
		},
		Server: ServerConfig{Addr: defaultAddr},
	}
}

// configPaths lists the files searched for a config, most specific first.
// An explicit path is the only candidate.
func configPaths(explicit string) []string {
	if explicit != "" {
		return []string{explicit}
	}
	var paths []string
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		paths = append(paths, filepath.Join(dir, appName, "config.toml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}
	return paths
}

// loadConfig decodes the first config file found over the defaults and
// applies environment overrides. It returns the path used, or "" when no
// file exists. A missing explicit file is an error.
func loadConfig(explicit string) (Config, string, error) {
	cfg := defaultConfig()
	used := ""

	for _, path := range configPaths(explicit) {
		md, err := toml.DecodeFile(path, &cfg)
		if errors.Is(err, fs.ErrNotExist) && explicit == "" {
			continue
		}
		if err != nil {
			return cfg, path, fmt.Errorf("config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, path, fmt.Errorf("config %s: unknown keys %v", path, undecoded)
		}
		used = path
		break
	}

	if addr := os.Getenv(envRedisAddr); addr != "" {
		cfg.Cache.RedisAddr = addr
	}
	if uri := os.Getenv(envMongoURI); uri != "" {
		cfg.Cache.MongoURI = uri
	}
	return cfg, used, nil
}
