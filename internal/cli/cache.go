package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/setgrid/pkg/cache"
)

// cacheCommand groups the color store maintenance subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear stored color assignments",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every stored color assignment",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.runCacheClear(cmd)
			},
		},
		&cobra.Command{
			Use:     "path",
			Aliases: []string{"info"},
			Short:   "Show where color assignments are stored",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.runCachePath(cmd)
			},
		},
	)
	return cmd
}

func (c *CLI) runCacheClear(cmd *cobra.Command) error {
	store, err := c.openCache(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer store.Close()

	switch s := store.(type) {
	case *cache.NullCache:
		printWarning("Caching is disabled")
		return nil
	case cache.Clearer:
		if err := s.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
	default:
		return errors.New("the configured cache backend cannot be cleared")
	}

	printSuccess("Cleared stored color assignments")
	if fc, ok := store.(*cache.FileCache); ok {
		printDetail("%s", fc.Dir())
	}
	return nil
}

// runCachePath prints the file cache directory on stdout for scripting.
// For remote backends the address goes to stdout instead.
func (c *CLI) runCachePath(cmd *cobra.Command) error {
	cfg, err := c.loadedConfig()
	if err != nil {
		return err
	}

	location := ""
	switch cfg.Cache.Backend {
	case cache.BackendRedis:
		location = cfg.Cache.RedisAddr
	case cache.BackendMongo:
		location = cfg.Cache.MongoURI
	case cache.BackendMemory, cache.BackendNone:
		location = "(" + cfg.Cache.Backend + ")"
	default:
		if location = cfg.Cache.Dir; location == "" {
			if location, err = cacheDir(); err != nil {
				return fmt.Errorf("resolve cache dir: %w", err)
			}
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), location)
	return nil
}
