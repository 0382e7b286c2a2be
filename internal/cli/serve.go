package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/barpack/internal/server"
)

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve generated bars over HTTP",
		Long: `Serve generated bars over HTTP.

  GET /healthz
  GET /v1/packing?density=&size_variation=&overlap=&width=&height=&seed=&format=
  GET /v1/grid?rows=&density=&size_variation_x=&size_variation_y=&overlap=&layout=&width=&height=&format=

Layouts are cached with the configured backend; use --cache redis to share
them between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			printInfo("Serving on %s %s", addr, StyleDim.Render("(cache: "+c.Config.Cache.Backend+")"))
			return server.New(runner, c.Logger).Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
