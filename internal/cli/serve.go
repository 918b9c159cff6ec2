package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/setgrid/internal/server"
	"github.com/matzehuels/setgrid/pkg/cache"
	"github.com/matzehuels/setgrid/pkg/pipeline"
)

// serveCommand creates the serve command, which exposes the pipeline over
// HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		namespace string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Long: `Serve the layout pipeline over HTTP.

Endpoints:
  GET  /healthz
  POST /v1/layout
  POST /v1/render/{format}
  POST /v1/colors/reoptimize

Request options are merged over the [pipeline] section of the config file.
A namespace prefixes every cache key, so several servers can share one
Redis or MongoDB backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadedConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("namespace") {
				cfg.Server.Namespace = namespace
			}

			cc, err := c.openCache(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			if cfg.Server.Namespace != "" {
				cc = cache.NewScoped(cc, cfg.Server.Namespace+":")
			}
			runner := pipeline.NewRunner(cc, c.Logger)
			defer runner.Close()

			defaults := copyOptions(cfg.Pipeline)
			srv := server.New(runner, defaults, c.Logger)

			return srv.ListenAndServe(cmd.Context(), cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&namespace, "namespace", "", "cache key prefix")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the color cache")

	return cmd
}
