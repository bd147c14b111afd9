package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/taxotree/pkg/config"
	"github.com/matzehuels/taxotree/pkg/source"
)

// sourcesCommand creates the sources command, which lists the configured
// sources.
func (c *CLI) sourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List configured sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if len(cfg.Sources) == 0 {
				printInfo("No sources configured")
				if cfg.Path == "" {
					path, _ := config.DefaultPath()
					printDetail("Add [[sources]] entries to %s", path)
				}
				return nil
			}
			printSources(cmd.OutOrStdout(), cfg.Sources)
			return nil
		},
	}
}

func printSources(w io.Writer, sources []config.Source) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("NAME", "KIND", "SHAPE", "LOCATION").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Inherit(StyleTitle)
			}
			if col == 0 {
				return s.Inherit(StyleHighlight)
			}
			return s
		})
	for _, s := range sources {
		t.Row(s.Name, s.Kind, sourceShape(s), sourceLocation(s))
	}
	fmt.Fprintln(w, t.Render())
}

func sourceShape(s config.Source) string {
	if s.Shape != "" {
		return s.Shape
	}
	return string(source.DefaultShape(s.Kind))
}

// sourceLocation describes where a source reads from. DSNs and URIs are
// shown as configured.
func sourceLocation(s config.Source) string {
	switch s.Kind {
	case config.KindSQLite:
		if s.Table != "" {
			return s.DSN + " (" + s.Table + ")"
		}
		return s.DSN
	case config.KindNomenclature:
		return s.URL
	case config.KindFile:
		return s.Path
	case config.KindMongo:
		return s.MongoURI + " " + s.Database + "." + s.Collection
	}
	return ""
}
