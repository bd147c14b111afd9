// Package pipeline runs the fetch → infer → assemble sequence shared by the
// CLI and the HTTP API.
//
// # Stages
//
//  1. Fetch: read a [records.Batch] from a [source.Source], optionally via
//     the batch cache
//  2. Infer: normalize the batch and reconstruct (child, parent) edges,
//     either from declared children-sets or from explicit parents
//  3. Assemble: build the display forest from nodes and edges
//
// Rendering to DOT, SVG, PNG or JSON is a separate step ([Render]) so
// callers that only need the tree skip it.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Run(ctx, src, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(len(result.Forest), "roots")
//
// Each run gets a fresh RunID (a UUID) that appears in logs and in the
// serialized hierarchy.
package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/taxotree/pkg/graph"
	"github.com/matzehuels/taxotree/pkg/records"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

// Format constants for rendered outputs.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// Options controls a single run.
type Options struct {
	// Refresh skips cached batches and downloads and stores fresh ones.
	Refresh bool

	// TTL bounds cached batches; zero uses cache.DefaultTTL.
	TTL time.Duration
}

// Result contains the outputs of a run.
type Result struct {
	RunID  string
	Source string
	Shape  records.Shape

	Nodes            *taxonomy.NodeTable
	Edges            []taxonomy.Edge
	MultiInheritance []string
	Roots            []string
	Leaves           []string
	Uncovered        map[string][]string

	Forest []*taxonomy.TreeNode

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	RowCount     int
	EdgeCount    int
	TreeNodes    int
	FetchTime    time.Duration
	InferTime    time.Duration
	AssembleTime time.Duration
}

// CacheInfo tracks which stages hit the cache.
type CacheInfo struct {
	FetchHit bool
}

// Graph returns the serializable form of the inferred hierarchy.
func (r *Result) Graph() graph.Graph {
	g := graph.Graph{
		Source:           r.Source,
		RunID:            r.RunID,
		Edges:            r.Edges,
		MultiInheritance: r.MultiInheritance,
		Roots:            r.Roots,
		Leaves:           r.Leaves,
		Uncovered:        r.Uncovered,
	}
	if r.Nodes != nil {
		g.Nodes = r.Nodes.Records()
	}
	return g
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// FormatFromPath derives the output format from a file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "gv" {
		ext = FormatDOT
	}
	if err := ValidateFormat(ext); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return ext, nil
}
