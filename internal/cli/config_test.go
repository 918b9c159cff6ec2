package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/setgrid/pkg/cache"
	"github.com/matzehuels/setgrid/pkg/pipeline"
	"github.com/matzehuels/setgrid/pkg/render"
)

// isolate points every config and cache location at empty temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv(envRedisAddr, "")
	t.Setenv(envMongoURI, "")
	return dir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	cfg, used, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if used != "" {
		t.Errorf("used = %q, want none", used)
	}
	if cfg.Cache.Backend != cache.BackendFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, cache.BackendFile)
	}
	if cfg.Pipeline.Mode != pipeline.DefaultMode {
		t.Errorf("Pipeline.Mode = %q, want %q", cfg.Pipeline.Mode, pipeline.DefaultMode)
	}
	if !cfg.Pipeline.Headers {
		t.Error("Pipeline.Headers = false, want true")
	}
	if cfg.Server.Addr != defaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, defaultAddr)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config", appName, "config.toml")
	writeConfig(t, path, `
[cache]
backend = "memory"

[pipeline]
mode = "transparent"
palette = ["#112233", "#445566"]
deadline = "2s"

[pipeline.colors]
iterations = 500

[pipeline.style]
corner_radius = 6
highlight = "background"

[server]
addr = ":9090"
namespace = "team-a"
`)

	cfg, used, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if used != path {
		t.Errorf("used = %q, want %q", used, path)
	}
	if cfg.Cache.Backend != cache.BackendMemory {
		t.Errorf("Cache.Backend = %q, want memory", cfg.Cache.Backend)
	}
	if cfg.Pipeline.Mode != "transparent" {
		t.Errorf("Pipeline.Mode = %q, want transparent", cfg.Pipeline.Mode)
	}
	if len(cfg.Pipeline.Palette) != 2 {
		t.Errorf("Pipeline.Palette = %v, want 2 colors", cfg.Pipeline.Palette)
	}
	if cfg.Pipeline.Deadline != 2*time.Second {
		t.Errorf("Pipeline.Deadline = %v, want 2s", cfg.Pipeline.Deadline)
	}
	if cfg.Pipeline.Colors.Iterations != 500 {
		t.Errorf("Colors.Iterations = %d, want 500", cfg.Pipeline.Colors.Iterations)
	}
	if !cfg.Pipeline.Headers {
		t.Error("Pipeline.Headers = false, want default true kept")
	}

	st := cfg.Pipeline.Style
	if st.CornerRadius != 6 || st.Highlight != render.HighlightBackground {
		t.Errorf("Style = %+v, want radius 6 and background highlight", st)
	}
	if !st.Outline {
		t.Error("Style.Outline = false, want default true kept")
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.Namespace != "team-a" {
		t.Errorf("Server = %+v", cfg.Server)
	}
}

func TestLoadConfigExplicit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	writeConfig(t, path, "[pipeline]\nheaders = false\n")

	cfg, used, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if used != path {
		t.Errorf("used = %q, want %q", used, path)
	}
	if cfg.Pipeline.Headers {
		t.Error("Pipeline.Headers = true, want false")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := isolate(t)

	tests := []struct {
		name    string
		content string
	}{
		{"missing explicit file", ""},
		{"unknown key", "[pipeline]\nwidth = 3\n"},
		{"malformed", "[pipeline\n"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "c"+string(rune('0'+i))+".toml")
			if tt.content != "" {
				writeConfig(t, path, tt.content)
			}
			if _, _, err := loadConfig(path); err == nil {
				t.Error("loadConfig() error = nil, want error")
			}
		})
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(envRedisAddr, "redis:6379")
	t.Setenv(envMongoURI, "mongodb://mongo:27017")

	cfg, _, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("RedisAddr = %q, want redis:6379", cfg.Cache.RedisAddr)
	}
	if cfg.Cache.MongoURI != "mongodb://mongo:27017" {
		t.Errorf("MongoURI = %q, want mongodb://mongo:27017", cfg.Cache.MongoURI)
	}
}

func TestCopyOptions(t *testing.T) {
	style := render.DefaultStyle()
	orig := pipeline.Options{Formats: []string{"svg"}, Palette: []string{"#000000"}, Style: &style}

	cp := copyOptions(orig)
	cp.Formats[0] = "png"
	cp.Palette[0] = "#FFFFFF"
	cp.Style.Shadow = true

	if orig.Formats[0] != "svg" || orig.Palette[0] != "#000000" || orig.Style.Shadow {
		t.Errorf("copyOptions() shares state with the original: %+v", orig)
	}
}
