package tree

import (
	"testing"

	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

func sampleForest() []*taxonomy.TreeNode {
	return []*taxonomy.TreeNode{
		{ID: "r", Expanded: true, Children: []*taxonomy.TreeNode{
			{ID: "a", Children: []*taxonomy.TreeNode{{ID: "hidden"}}},
			{ID: "b", Expanded: true, Children: []*taxonomy.TreeNode{{ID: "shown"}}},
		}},
		{ID: "s"},
	}
}

func TestFlatten(t *testing.T) {
	lines := Flatten(sampleForest())
	want := []struct {
		id    string
		depth int
	}{{"r", 0}, {"a", 1}, {"b", 1}, {"shown", 2}, {"s", 0}}

	if len(lines) != len(want) {
		t.Fatalf("Flatten() returned %d lines, want %d", len(lines), len(want))
	}
	for i, w := range want {
		if lines[i].Node.ID != w.id || lines[i].Depth != w.depth {
			t.Errorf("line %d = %s@%d, want %s@%d", i, lines[i].Node.ID, lines[i].Depth, w.id, w.depth)
		}
	}
}

func TestCountAndDepth(t *testing.T) {
	f := sampleForest()
	if got := Count(f); got != 6 {
		t.Errorf("Count() = %d, want 6", got)
	}
	if got := Depth(f); got != 3 {
		t.Errorf("Depth() = %d, want 3", got)
	}
	if Count(nil) != 0 || Depth(nil) != 0 {
		t.Error("empty forest should have zero count and depth")
	}
}
