// Package render holds the visual output formats for taxonomy hierarchies.
//
// The [nodelink] subpackage draws the inferred hierarchy as a Graphviz
// diagram. Terminal views (plain tree, interactive browser) live with the
// CLI because they depend on terminal styling.
package render
