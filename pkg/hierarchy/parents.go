package hierarchy

import "github.com/matzehuels/taxotree/pkg/taxonomy"

// FromParents builds a Result from explicitly declared (child, parent)
// pairs. Pairs with an empty child or parent are skipped and duplicates
// collapse to their first occurrence; the remaining edges keep input order.
//
// No inference takes place, so Uncovered is always nil. MultiInheritance
// lists children declared under more than one parent.
func FromParents(pairs []taxonomy.Edge) *Result {
	var edges taxonomy.EdgeSet
	for _, p := range pairs {
		if p.Child == "" || p.Parent == "" {
			continue
		}
		edges.Add(p)
	}
	list := edges.Edges()

	res := &Result{Edges: list, Leaves: leaves(list)}

	parentCount := make(map[string]int)
	isChild := make(map[string]bool)
	for _, e := range list {
		parentCount[e.Child]++
		isChild[e.Child] = true
	}

	seenMI := make(map[string]bool)
	seenRoot := make(map[string]bool)
	for _, e := range list {
		if parentCount[e.Child] > 1 && !seenMI[e.Child] {
			seenMI[e.Child] = true
			res.MultiInheritance = append(res.MultiInheritance, e.Child)
		}
		if !isChild[e.Parent] && !seenRoot[e.Parent] {
			seenRoot[e.Parent] = true
			res.Roots = append(res.Roots, e.Parent)
		}
	}
	return res
}
