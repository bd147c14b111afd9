// Package nodelink renders taxonomy hierarchies as node-link diagrams.
//
// # Usage
//
// Convert a hierarchy to DOT, then render it:
//
//	dot := nodelink.ToDOT(nodes, edges, multi, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT source can also be written out and processed with external
// Graphviz tools.
//
// # Layout
//
// The diagram flows top to bottom (rankdir=TB): roots on top, leaves at
// the bottom. A multi-inheritance entity keeps every parent edge, so it
// is drawn once with several incoming arrows rather than duplicated as
// in the tree view.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz
// compiled to WebAssembly; no system Graphviz install is needed.
package nodelink
