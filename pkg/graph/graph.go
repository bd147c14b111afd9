package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

// Graph is the serialized form of one inferred hierarchy.
type Graph struct {
	Source           string                `json:"source,omitempty"`
	RunID            string                `json:"run_id,omitempty"`
	Nodes            []taxonomy.NodeRecord `json:"nodes"`
	Edges            []taxonomy.Edge       `json:"edges"`
	MultiInheritance []string              `json:"multi_inheritance,omitempty"`
	Roots            []string              `json:"roots,omitempty"`
	Leaves           []string              `json:"leaves,omitempty"`
	Uncovered        map[string][]string   `json:"uncovered,omitempty"`
}

// NodeTable rebuilds the node table. Duplicate or empty ids are rejected.
func (g Graph) NodeTable() (*taxonomy.NodeTable, error) {
	t := taxonomy.NewNodeTable()
	for i, n := range g.Nodes {
		if err := t.Add(n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %d", i)
		}
	}
	return t, nil
}

// Validate checks that every edge names both endpoints.
func (g Graph) Validate() error {
	for i, e := range g.Edges {
		if e.Child == "" || e.Parent == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "edge %d: child and parent are required", i)
		}
	}
	return nil
}

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a graph to a JSON file.
func WriteGraphFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteGraph(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteGraph writes a graph as JSON to w.
func WriteGraph(g Graph, w io.Writer) error {
	if g.Nodes == nil {
		g.Nodes = []taxonomy.NodeRecord{}
	}
	if g.Edges == nil {
		g.Edges = []taxonomy.Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGraphFile reads and validates a JSON graph file.
func ReadGraphFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// ReadGraph decodes and validates a JSON graph.
func ReadGraph(r io.Reader) (Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}
	if err := g.Validate(); err != nil {
		return Graph{}, err
	}
	return g, nil
}
