package tree

import (
	"github.com/matzehuels/taxotree/pkg/dag"
	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

// Build assembles a display forest from a node table and (child, parent)
// edges.
//
// Roots are the table entries never named as a child, in table order.
// Children appear in edge order. An entity with several parents is
// rendered once under each of them, so the result is a forest even when
// the edges form a DAG.
//
// Expanded is set on every root and on every non-root node with exactly
// one child.
//
// Build validates all edge endpoints before constructing anything and
// returns [errors.UnknownEntityError] for the first unknown one. Edges
// that form a cycle yield [errors.CyclicHierarchyError]. An empty table
// yields an empty forest.
func Build(nodes *taxonomy.NodeTable, edges []taxonomy.Edge) ([]*taxonomy.TreeNode, error) {
	if nodes == nil {
		nodes = taxonomy.NewNodeTable()
	}
	for _, e := range edges {
		if !nodes.Has(e.Child) {
			return nil, &errors.UnknownEntityError{EntityID: e.Child}
		}
		if !nodes.Has(e.Parent) {
			return nil, &errors.UnknownEntityError{EntityID: e.Parent}
		}
	}

	g := dag.New()
	for _, id := range nodes.IDs() {
		_ = g.EnsureNode(id)
	}
	for _, e := range edges {
		_ = g.AddEdge(dag.Edge{From: e.Parent, To: e.Child})
	}
	if cycle := g.FindCycle(); cycle != nil {
		return nil, &errors.CyclicHierarchyError{Cycle: cycle}
	}

	b := builder{nodes: nodes, g: g}
	var forest []*taxonomy.TreeNode
	for _, root := range g.Sources() {
		forest = append(forest, b.subtree(root, true))
	}
	return forest, nil
}

type builder struct {
	nodes *taxonomy.NodeTable
	g     *dag.DAG
}

// subtree materializes a fresh copy of the subtree below id. The graph is
// acyclic, so recursion terminates.
func (b builder) subtree(id string, root bool) *taxonomy.TreeNode {
	rec, _ := b.nodes.Get(id)
	kids := b.g.Children(id)
	n := &taxonomy.TreeNode{
		ID:       id,
		Text:     rec.Text(),
		Expanded: root || len(kids) == 1,
	}
	for _, c := range kids {
		n.Children = append(n.Children, b.subtree(c, false))
	}
	return n
}
