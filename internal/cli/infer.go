package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taxotree/pkg/graph"
)

// inferCommand creates the infer command, which prints the reconstructed
// hierarchy as JSON.
func (c *CLI) inferCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "infer <source>",
		Short: "Reconstruct a hierarchy and print it as JSON",
		Long: `Reconstruct the (child, parent) hierarchy of a source.

Children-set sources go through minimal-superset inference with
multi-inheritance repair; explicit-parent sources are taken as given.

Examples:
  taxotree infer human-mtg                 # configured source
  taxotree infer nomenclature_table.tsv    # local file
  taxotree infer human-mtg -o mtg.json     # write to file`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInfer(cmd.Context(), cmd.OutOrStdout(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func (c *CLI) runInfer(ctx context.Context, stdout io.Writer, arg, output string) error {
	res, err := c.run(ctx, arg)
	if err != nil {
		return err
	}
	g := res.Graph()

	if output == "" {
		return graph.WriteGraph(g, stdout)
	}
	if err := graph.WriteGraphFile(g, output); err != nil {
		return err
	}
	printSuccess("Inferred %s", res.Source)
	printStats(res)
	reportMulti(res)
	printFile(output)
	printNextStep("Render it", fmt.Sprintf("%s render %s", appName, output))
	return nil
}
