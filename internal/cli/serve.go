package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taxotree/pkg/observability"
	"github.com/matzehuels/taxotree/pkg/server"
)

// serveCommand creates the serve command, which exposes configured sources
// over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve configured sources over HTTP",
		Long: `Serve the configured sources as a JSON and diagram API.

Routes:
  GET /healthz
  GET /api/sources
  GET /api/sources/{name}/tree
  GET /api/sources/{name}/hierarchy
  GET /api/sources/{name}/diagram?format=svg|png|dot&detailed=true`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default [server] addr)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}
	if len(cfg.Sources) == 0 {
		printWarning("No sources configured; only /healthz will be useful")
	}

	counters := &observability.Counters{}
	observability.SetPipelineHooks(counters)
	if !c.verbose {
		observability.SetCacheHooks(counters)
		observability.SetHTTPHooks(counters)
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	catalog := server.ConfigCatalog{Config: cfg, Deps: c.sourceDeps(runner.Cache)}
	srv := server.New(catalog, runner, counters, c.Logger)

	printSuccess("Serving %d sources", len(cfg.Sources))
	printKeyValue("Address", StyleLink.Render("http://"+addr))
	if cfg.Path != "" {
		printKeyValue("Config", cfg.Path)
	}
	err = srv.ListenAndServe(ctx, addr)
	if errors.Is(err, context.Canceled) {
		c.Logger.Info("Server stopped")
		return nil
	}
	return err
}
