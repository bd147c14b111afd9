package taxonomy

import (
	"slices"
	"testing"

	"github.com/matzehuels/taxotree/pkg/errors"
)

func TestNodeRecord_Text(t *testing.T) {
	tests := []struct {
		name string
		rec  NodeRecord
		want string
	}{
		{"with name", NodeRecord{ID: "CS:1", Name: "L2/3 IT"}, "L2/3 IT [CS:1]"},
		{"without name", NodeRecord{ID: "CS:2"}, "CS:2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSet(t *testing.T) {
	a := NewSet("x", "y")
	b := NewSet("x", "y", "z")

	if !a.SubsetOf(b) {
		t.Error("a should be a subset of b")
	}
	if b.SubsetOf(a) {
		t.Error("b should not be a subset of a")
	}
	if !a.SubsetOf(a) {
		t.Error("a set is a subset of itself")
	}
	if !NewSet().SubsetOf(a) {
		t.Error("empty set is a subset of everything")
	}

	diff := b.Minus(a)
	if got := diff.Sorted(); !slices.Equal(got, []string{"z"}) {
		t.Errorf("Minus() = %v, want [z]", got)
	}
	if b.Len() != 3 {
		t.Error("Minus must not modify its receiver")
	}
}

func TestEdgeSet(t *testing.T) {
	var s EdgeSet
	if !s.Add(Edge{Child: "a", Parent: "b"}) {
		t.Error("first Add should report true")
	}
	if s.Add(Edge{Child: "a", Parent: "b"}) {
		t.Error("duplicate Add should report false")
	}
	s.Add(Edge{Child: "c", Parent: "b"})

	want := []Edge{{"a", "b"}, {"c", "b"}}
	if got := s.Edges(); !slices.Equal(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
	if !s.Contains(Edge{Child: "c", Parent: "b"}) {
		t.Error("Contains() = false for present edge")
	}
}

func TestNodeTable(t *testing.T) {
	tbl := NewNodeTable()
	for _, id := range []string{"c", "a", "b"} {
		if err := tbl.Add(NodeRecord{ID: id}); err != nil {
			t.Fatalf("Add(%s): %v", id, err)
		}
	}

	if got := tbl.IDs(); !slices.Equal(got, []string{"c", "a", "b"}) {
		t.Errorf("IDs() = %v, want insertion order", got)
	}

	err := tbl.Add(NodeRecord{ID: "a"})
	if !errors.Is(err, errors.ErrCodeInvalidRecord) {
		t.Errorf("duplicate Add error = %v, want INVALID_RECORD", err)
	}
	if err := tbl.Add(NodeRecord{}); !errors.Is(err, errors.ErrCodeInvalidRecord) {
		t.Errorf("empty id Add error = %v, want INVALID_RECORD", err)
	}

	syn := []string{"x"}
	_ = tbl.Add(NodeRecord{ID: "d", Synonyms: syn})
	syn[0] = "mutated"
	if r, _ := tbl.Get("d"); r.Synonyms[0] != "x" {
		t.Error("table must not share synonym slices with callers")
	}
}
