package tree

import "github.com/matzehuels/taxotree/pkg/taxonomy"

// Walk visits every node of the forest depth-first, parents before
// children. depth is 0 for roots. Returning false from fn skips the
// node's children.
func Walk(forest []*taxonomy.TreeNode, fn func(n *taxonomy.TreeNode, depth int) bool) {
	var visit func(n *taxonomy.TreeNode, depth int)
	visit = func(n *taxonomy.TreeNode, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	for _, root := range forest {
		visit(root, 0)
	}
}

// Count returns the number of tree nodes in the forest, counting each
// duplicated multi-parent entity once per occurrence.
func Count(forest []*taxonomy.TreeNode) int {
	n := 0
	Walk(forest, func(*taxonomy.TreeNode, int) bool {
		n++
		return true
	})
	return n
}

// Depth returns the number of levels in the forest.
func Depth(forest []*taxonomy.TreeNode) int {
	deepest := 0
	Walk(forest, func(_ *taxonomy.TreeNode, d int) bool {
		deepest = max(deepest, d+1)
		return true
	})
	return deepest
}

// Line is one row of a flattened forest.
type Line struct {
	Node  *taxonomy.TreeNode
	Depth int
}

// Flatten lists the visible rows of the forest: a node's children are
// included only when the node is expanded.
func Flatten(forest []*taxonomy.TreeNode) []Line {
	var out []Line
	Walk(forest, func(n *taxonomy.TreeNode, d int) bool {
		out = append(out, Line{Node: n, Depth: d})
		return n.Expanded
	})
	return out
}
