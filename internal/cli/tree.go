package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltree "github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

// treeOpts holds the command-line flags for the tree command.
type treeOpts struct {
	json      bool // print the forest as JSON instead of drawing it
	depth     int  // maximum depth to draw (0 = unlimited)
	collapsed bool // respect the expanded hints, like the initial browse view
}

var styleMulti = lipgloss.NewStyle().Foreground(colorYellow)

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var opts treeOpts

	cmd := &cobra.Command{
		Use:   "tree <source>",
		Short: "Print the display tree of a source",
		Long: `Print the display tree of a source.

Entities with several parents appear once under each parent and are
highlighted. Pass --json for the raw forest with expanded hints.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the forest as JSON")
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "maximum depth to draw (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.collapsed, "collapsed", false, "only descend into nodes marked expanded")
	return cmd
}

func (c *CLI) runTree(ctx context.Context, w io.Writer, arg string, opts treeOpts) error {
	res, err := c.run(ctx, arg)
	if err != nil {
		return err
	}

	if opts.json {
		forest := res.Forest
		if forest == nil {
			forest = []*taxonomy.TreeNode{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(forest)
	}

	if len(res.Forest) == 0 {
		printInfo("%s has no entities", res.Source)
		return nil
	}
	fmt.Fprintln(w, renderForest(res.Forest, taxonomy.NewSet(res.MultiInheritance...), opts))
	return nil
}

// renderForest draws the forest with lipgloss/tree. Multi-inheritance
// entities are highlighted wherever they appear.
func renderForest(forest []*taxonomy.TreeNode, multi taxonomy.Set, opts treeOpts) string {
	var b strings.Builder
	for i, root := range forest {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(branch(root, 1, multi, opts).String())
	}
	return b.String()
}

func branch(n *taxonomy.TreeNode, depth int, multi taxonomy.Set, opts treeOpts) *ltree.Tree {
	t := ltree.Root(nodeLabel(n, multi)).
		Enumerator(ltree.RoundedEnumerator).
		EnumeratorStyle(StyleDim).
		RootStyle(StyleTitle)
	if opts.depth > 0 && depth >= opts.depth {
		return t
	}
	if opts.collapsed && !n.Expanded {
		return t
	}
	for _, ch := range n.Children {
		if len(ch.Children) == 0 {
			t.Child(nodeLabel(ch, multi))
			continue
		}
		t.Child(branch(ch, depth+1, multi, opts).RootStyle(lipgloss.NewStyle()))
	}
	return t
}

func nodeLabel(n *taxonomy.TreeNode, multi taxonomy.Set) string {
	if multi.Contains(n.ID) {
		return styleMulti.Render(n.Text + " *")
	}
	return n.Text
}
