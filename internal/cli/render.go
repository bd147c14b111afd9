package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taxotree/pkg/pipeline"
	"github.com/matzehuels/taxotree/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file (single format) or base path (multiple)
	formats  []string // output formats: "svg", "png", "dot", "json"
	detailed bool     // show ids and synonyms in node labels
}

// renderCommand creates the render command for generating node-link
// diagrams of the inferred hierarchy.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <source>",
		Short: "Render the hierarchy as a node-link diagram",
		Long: `Render the hierarchy of a source as a Graphviz node-link diagram.

Edges point from parent to child. Multi-inheritance entities are drawn
dashed and highlighted.

Examples:
  taxotree render human-mtg                  # writes human-mtg.svg
  taxotree render human-mtg -o mtg.png       # format from extension
  taxotree render mtg.json -f svg,dot        # writes mtg.svg and mtg.dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := resolveFormats(formatsStr, opts.output)
			if err != nil {
				return err
			}
			opts.formats = formats
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show ids and synonyms in node labels")

	return cmd
}

// resolveFormats parses the --format flag. Without it the format follows
// the output extension, falling back to svg.
func resolveFormats(flag, output string) ([]string, error) {
	if flag != "" {
		formats := strings.Split(flag, ",")
		for i, f := range formats {
			formats[i] = strings.TrimSpace(f)
		}
		return formats, pipeline.ValidateFormats(formats)
	}
	if output != "" && filepath.Ext(output) != "" {
		f, err := pipeline.FormatFromPath(output)
		if err != nil {
			return nil, err
		}
		return []string{f}, nil
	}
	return []string{pipeline.FormatSVG}, nil
}

// basePath derives the base output path. Without an output it is the
// source name; a known format extension on output is stripped.
func basePath(output, name string) string {
	if output == "" {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(strings.ToLower(ext), ".")] || ext == ".gv" {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to the file it is written to.
func outputPaths(output, name string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, name)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

func (c *CLI) runRender(ctx context.Context, arg string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	res, err := c.run(ctx, arg)
	if err != nil {
		return err
	}
	logger.Infof("Rendering %s: %d nodes, %d edges", res.Source, res.Nodes.Len(), len(res.Edges))

	prog := newProgress(logger)
	artifacts, err := pipeline.Render(ctx, res, opts.formats, nodelink.Options{Detailed: opts.detailed})
	if err != nil {
		return err
	}

	name := res.Source
	if strings.HasSuffix(strings.ToLower(arg), ".json") {
		name = filepath.Base(arg)
	}
	paths := outputPaths(opts.output, name, opts.formats)
	for _, f := range opts.formats {
		path := paths[f]
		if err := writeOutput(path, artifacts[f]); err != nil {
			return err
		}
		logger.Debugf("Generated %s: %d bytes", f, len(artifacts[f]))
		printFile(path)
	}
	prog.done(fmt.Sprintf("Rendered %s", res.Source))
	printStats(res)
	reportMulti(res)
	return nil
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
