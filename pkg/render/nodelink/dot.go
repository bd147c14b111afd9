package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the accession id and synonyms to node labels.
	// When false, only the display name is shown.
	Detailed bool
}

// ToDOT converts a hierarchy to Graphviz DOT. Edges are given as
// (child, parent) pairs and drawn parent -> child, top-down.
//
// Entities listed in multi are drawn with a dashed, shaded outline so
// repaired multi-inheritance nodes stand out. Edge endpoints missing
// from nodes are still drawn, labelled with their id.
func ToDOT(nodes *taxonomy.NodeTable, edges []taxonomy.Edge, multi []string, opts Options) string {
	if nodes == nil {
		nodes = taxonomy.NewNodeTable()
	}
	highlight := taxonomy.NewSet(multi...)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	drawn := make(map[string]bool, nodes.Len())
	draw := func(r taxonomy.NodeRecord) {
		if drawn[r.ID] {
			return
		}
		drawn[r.ID] = true
		attrs := fmtAttrs(fmtLabel(r, opts.Detailed), highlight.Contains(r.ID))
		fmt.Fprintf(&buf, "  %q [%s];\n", r.ID, strings.Join(attrs, ", "))
	}
	for _, r := range nodes.Records() {
		draw(r)
	}
	for _, e := range edges {
		for _, id := range []string{e.Parent, e.Child} {
			if !nodes.Has(id) {
				draw(taxonomy.NodeRecord{ID: id})
			}
		}
	}

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Parent, e.Child)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(r taxonomy.NodeRecord, detailed bool) string {
	if !detailed {
		return r.Text()
	}
	parts := []string{r.ID}
	if r.Name != "" {
		parts = append(parts, r.Name)
	}
	if len(r.Synonyms) > 0 {
		parts = append(parts, "aka "+strings.Join(r.Synonyms, ", "))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(label string, multi bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if multi {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgoldenrod1", "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales from
// the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
