package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/taxotree/pkg/buildinfo"
	"github.com/matzehuels/taxotree/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Logging:
//   - Default: the [log] level from the config file, else info
//   - With --verbose (-v): debug, plus cache and HTTP events
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Taxotree rebuilds cell-type taxonomy hierarchies",
		Long: `Taxotree reads cell-type taxonomy records from nomenclature files, SQLite or
MongoDB, reconstructs the parent/child hierarchy (repairing multi-inheritance
where declared children-sets overlap) and shows it as a tree, a diagram or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				hooks := newLogHooks(c.Logger)
				observability.SetCacheHooks(hooks)
				observability.SetHTTPHooks(hooks)
			} else {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				if cfg.Log.Level != "" {
					level, err := log.ParseLevel(cfg.Log.Level)
					if err != nil {
						return err
					}
					c.SetLogLevel(level)
				}
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVarP(&c.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/taxotree/config.toml)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the payload cache")
	flags.BoolVar(&c.refresh, "refresh", false, "bypass cached data and fetch again")
	flags.StringVar(&c.shape, "shape", "", "record shape override: parent or children")

	root.AddCommand(c.inferCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.sourcesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
