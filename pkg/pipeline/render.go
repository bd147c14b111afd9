package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/taxotree/pkg/graph"
	"github.com/matzehuels/taxotree/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, res *Result, formats []string, opts nodelink.Options) (map[string][]byte, error) {
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}

	var dot string
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		if format != FormatJSON && dot == "" {
			dot = nodelink.ToDOT(res.Nodes, res.Edges, res.MultiInheritance, opts)
		}

		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot)
		case FormatJSON:
			data, err = graph.MarshalGraph(res.Graph())
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
