package graph

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

func sample() Graph {
	return Graph{
		Source: "mtg",
		Nodes: []taxonomy.NodeRecord{
			{ID: "CS:1", Name: "All cells"},
			{ID: "CS:2", Synonyms: []string{"n"}},
		},
		Edges:  []taxonomy.Edge{{Child: "CS:2", Parent: "CS:1"}},
		Roots:  []string{"CS:1"},
		Leaves: []string{"CS:2"},
	}
}

func TestRoundTripFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.json")
	if err := WriteGraphFile(sample(), path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	g, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if g.Source != "mtg" || len(g.Nodes) != 2 || len(g.Edges) != 1 || g.Nodes[1].Synonyms[0] != "n" {
		t.Errorf("round trip = %+v", g)
	}

	nodes, err := g.NodeTable()
	if err != nil {
		t.Fatalf("NodeTable: %v", err)
	}
	if r, ok := nodes.Get("CS:1"); !ok || r.Name != "All cells" {
		t.Errorf("NodeTable lookup = %+v, %v", r, ok)
	}
}

func TestWriteGraph_EmptyArrays(t *testing.T) {
	data, err := MarshalGraph(Graph{})
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, `"nodes": []`) || !strings.Contains(s, `"edges": []`) {
		t.Errorf("empty graph should encode empty arrays, got %s", s)
	}
	if strings.Contains(s, "multi_inheritance") || strings.Contains(s, "uncovered") {
		t.Errorf("empty optional fields should be omitted, got %s", s)
	}
}

func TestReadGraph_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"malformed", `{"nodes": [`},
		{"edge without parent", `{"nodes": [], "edges": [{"child": "a"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGraph(bytes.NewBufferString(tt.in))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ReadGraph() = %v, want INVALID_FORMAT", err)
			}
		})
	}

	if _, err := ReadGraphFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ReadGraphFile(missing) should fail")
	}
}

func TestNodeTable_Duplicate(t *testing.T) {
	g := Graph{Nodes: []taxonomy.NodeRecord{{ID: "a"}, {ID: "a"}}}
	if _, err := g.NodeTable(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("NodeTable(duplicate) = %v", err)
	}
}
