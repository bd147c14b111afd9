package hierarchy

import (
	"cmp"
	"slices"

	"github.com/matzehuels/taxotree/pkg/dag"
	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

// Result is the outcome of one inference run.
type Result struct {
	// Edges is the final (child, parent) edge set: single-inheritance edges
	// first, in size order, followed by repair edges.
	Edges []taxonomy.Edge

	// MultiInheritance lists entities whose declared children were not
	// explained by the single-inheritance pass, in size order.
	MultiInheritance []string

	// Roots lists entities without a parent after the single-inheritance
	// pass, in size order.
	Roots []string

	// Leaves lists entities that are a child in some single-inheritance
	// edge and never a parent.
	Leaves []string

	// Uncovered maps a multi-inheritance entity to the declared children
	// that the repair pass could not attribute to any smaller record.
	// Nil when every declared child was covered.
	Uncovered map[string][]string
}

// Infer reconstructs a (child, parent) edge set from declared children-sets.
//
// # Single-Inheritance Pass
//
// Records are stable-sorted by children-set cardinality. For the record at
// sorted position i, the records at positions i+1, i+2, ... are scanned for
// the first one whose children-set contains the record's children-set; that
// record becomes the parent. The scan starts after the record's own position,
// never at the start of the list, so among equal-sized candidates the one
// that came later in the input wins. A record with no such candidate is a
// root.
//
// # Multi-Inheritance Repair
//
// A record is flagged when one of its declared children is neither the
// record itself nor reachable below it through single-inheritance edges.
// For each flagged record, the smaller records are scanned largest first;
// every candidate whose children-set fits into the still-unexplained
// children gets an extra edge to the flagged record, and its children are
// removed from the unexplained set.
//
// # Errors
//
// Infer returns an [errors.InvalidRecordError] for records with an empty id,
// an empty children-set, or a duplicate id, and an
// [errors.AmbiguousHierarchyError] when a record without a parent candidate
// is declared as a child by another record, unless it alone holds the
// largest children-set; such a record is a root.
//
// Infer does not modify records.
func Infer(records []taxonomy.ChildSetRecord) (*Result, error) {
	if err := validate(records); err != nil {
		return nil, err
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b taxonomy.ChildSetRecord) int {
		return cmp.Compare(a.Children.Len(), b.Children.Len())
	})

	var edges taxonomy.EdgeSet
	res := &Result{}

	claims := claimsByChild(sorted)
	for i, r := range sorted {
		p := minimalSuperset(sorted, i)
		if p < 0 {
			if by := claims[r.ID]; len(by) > 0 && !uniqueLargest(sorted, i) {
				return nil, &errors.AmbiguousHierarchyError{EntityID: r.ID, ClaimedBy: by}
			}
			res.Roots = append(res.Roots, r.ID)
			continue
		}
		edges.Add(taxonomy.Edge{Child: r.ID, Parent: sorted[p].ID})
	}

	single := edges.Edges()
	g := reachability(sorted, single)
	res.Leaves = leaves(single)

	for k, r := range sorted {
		if !explained(g, r) {
			res.MultiInheritance = append(res.MultiInheritance, r.ID)
			if left := repair(sorted, k, &edges); len(left) > 0 {
				if res.Uncovered == nil {
					res.Uncovered = make(map[string][]string)
				}
				res.Uncovered[r.ID] = left
			}
		}
	}

	res.Edges = edges.Edges()
	return res, nil
}

func validate(records []taxonomy.ChildSetRecord) error {
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if r.ID == "" {
			return &errors.InvalidRecordError{Index: i, Reason: "missing entity id"}
		}
		if r.Children.Len() == 0 {
			return &errors.InvalidRecordError{Index: i, EntityID: r.ID, Reason: "empty children-set"}
		}
		if _, ok := seen[r.ID]; ok {
			return &errors.InvalidRecordError{Index: i, EntityID: r.ID, Reason: "duplicate entity id"}
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}

// minimalSuperset returns the position of the first record after i whose
// children-set contains sorted[i]'s, or -1.
func minimalSuperset(sorted []taxonomy.ChildSetRecord, i int) int {
	for j := i + 1; j < len(sorted); j++ {
		if sorted[i].Children.SubsetOf(sorted[j].Children) {
			return j
		}
	}
	return -1
}

// uniqueLargest reports whether sorted[i] is the only record with the
// largest children-set.
func uniqueLargest(sorted []taxonomy.ChildSetRecord, i int) bool {
	if i != len(sorted)-1 {
		return false
	}
	return i == 0 || sorted[i-1].Children.Len() < sorted[i].Children.Len()
}

// claimsByChild maps each entity to the other entities declaring it as a child.
func claimsByChild(sorted []taxonomy.ChildSetRecord) map[string][]string {
	claims := make(map[string][]string)
	for _, r := range sorted {
		for _, c := range r.Children.Sorted() {
			if c != r.ID {
				claims[c] = append(claims[c], r.ID)
			}
		}
	}
	return claims
}

// reachability builds a parent -> child graph for descendant queries.
func reachability(sorted []taxonomy.ChildSetRecord, edges []taxonomy.Edge) *dag.DAG {
	g := dag.New()
	for _, r := range sorted {
		_ = g.EnsureNode(r.ID)
	}
	for _, e := range edges {
		_ = g.AddEdge(dag.Edge{From: e.Parent, To: e.Child})
	}
	return g
}

func leaves(edges []taxonomy.Edge) []string {
	parents := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		parents[e.Parent] = struct{}{}
	}
	var out []string
	seen := make(map[string]struct{})
	for _, e := range edges {
		if _, isParent := parents[e.Child]; isParent {
			continue
		}
		if _, dup := seen[e.Child]; dup {
			continue
		}
		seen[e.Child] = struct{}{}
		out = append(out, e.Child)
	}
	return out
}

// explained reports whether every declared child of r is r itself or a
// descendant of r in g.
func explained(g *dag.DAG, r taxonomy.ChildSetRecord) bool {
	desc := g.Descendants(r.ID)
	for c := range r.Children {
		if c == r.ID {
			continue
		}
		if _, ok := desc[c]; !ok {
			return false
		}
	}
	return true
}

// repair covers the children of sorted[k] with smaller records, largest
// first, adding an edge for every record used. It returns the children
// left uncovered, sorted.
func repair(sorted []taxonomy.ChildSetRecord, k int, edges *taxonomy.EdgeSet) []string {
	mi := sorted[k]
	remaining := mi.Children.Clone()
	for j := k - 1; j >= 0 && remaining.Len() > 0; j-- {
		c := sorted[j]
		if c.Children.SubsetOf(remaining) {
			edges.Add(taxonomy.Edge{Child: c.ID, Parent: mi.ID})
			remaining = remaining.Minus(c.Children)
		}
	}
	if remaining.Len() == 0 {
		return nil
	}
	return remaining.Sorted()
}
