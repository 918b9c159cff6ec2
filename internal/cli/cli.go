// Package cli implements the setgrid command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/setgrid/pkg/buildinfo"
	"github.com/matzehuels/setgrid/pkg/cache"
	"github.com/matzehuels/setgrid/pkg/observability"
	"github.com/matzehuels/setgrid/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "setgrid"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	config     *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Setgrid draws grid solutions of overlapping sets",
		Long: `Setgrid lays out named entities drawn on a grid, colors them so that
overlapping sets stay distinguishable, and renders the result with the
statements placed in between.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			observability.Install(observability.NewLogHooks(c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log debug output, including stage hooks")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/setgrid/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.stackCommand())
	root.AddCommand(c.colorsCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// loadedConfig reads the config file once per process.
func (c *CLI) loadedConfig() (*Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	cfg, path, err := loadConfig(c.configPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	c.config = &cfg
	return c.config, nil
}

// options returns the pipeline options from the config with the command's
// flags applied on top.
func (c *CLI) options(cmd *cobra.Command, flags *pipelineFlags) (pipeline.Options, error) {
	cfg, err := c.loadedConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := copyOptions(cfg.Pipeline)
	if flags != nil {
		flags.apply(cmd, &opts)
	}
	opts.Logger = c.Logger
	return opts, nil
}

// copyOptions duplicates the slices and style so that flag overrides do not
// leak into the loaded config.
func copyOptions(o pipeline.Options) pipeline.Options {
	o.Formats = append([]string(nil), o.Formats...)
	o.Palette = append([]string(nil), o.Palette...)
	if o.Style != nil {
		s := *o.Style
		o.Style = &s
	}
	return o
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, c.Logger), nil
}

// openCache opens the configured backend. A file cache whose directory
// cannot be determined degrades to no caching.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg, err := c.loadedConfig()
	if err != nil {
		return nil, err
	}
	cc := cfg.Cache
	if (cc.Backend == "" || cc.Backend == cache.BackendFile) && cc.Dir == "" {
		dir, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		cc.Dir = dir
	}
	opened, err := cache.Open(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cc.Backend, err)
	}
	return opened, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/setgrid/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Output Helpers
// =============================================================================

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
