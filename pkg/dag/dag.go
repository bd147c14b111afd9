package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Edge is a directed connection between two entities. Hierarchy graphs
// store it parent→child.
type Edge struct {
	From string
	To   string
}

// DAG is a directed graph with insertion-ordered nodes and edges.
//
// Despite the name, AddEdge does not reject cycles: graphs are built from
// untrusted input and [DAG.FindCycle] reports cycles after the fact.
//
// The zero value is not usable; use New.
type DAG struct {
	order    []string
	known    map[string]struct{}
	outgoing map[string][]string // nodeID -> target IDs
	incoming map[string]int      // nodeID -> number of sources
}

// New creates an empty graph.
func New() *DAG {
	return &DAG{
		known:    make(map[string]struct{}),
		outgoing: make(map[string][]string),
		incoming: make(map[string]int),
	}
}

// AddNode adds a node to the graph.
// Returns ErrInvalidNodeID if id is empty, or ErrDuplicateNodeID if it
// already exists.
func (d *DAG) AddNode(id string) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.known[id]; exists {
		return ErrDuplicateNodeID
	}
	d.known[id] = struct{}{}
	d.order = append(d.order, id)
	return nil
}

// EnsureNode adds a node with the given ID unless it already exists.
func (d *DAG) EnsureNode(id string) error {
	if _, ok := d.known[id]; ok {
		return nil
	}
	return d.AddNode(id)
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode if the From node doesn't exist, or
// ErrUnknownTargetNode if the To node doesn't exist. Adding an edge that
// already exists is a no-op.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.known[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.known[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if d.HasEdge(e.From, e.To) {
		return nil
	}
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To]++
	return nil
}

// HasEdge reports whether the edge from→to exists.
func (d *DAG) HasEdge(from, to string) bool {
	return slices.Contains(d.outgoing[from], to)
}

// Children returns the IDs of nodes that this node has edges to, in edge
// insertion order. The returned slice should not be modified.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Sources returns the IDs of nodes with no incoming edges, in insertion
// order.
func (d *DAG) Sources() []string {
	var sources []string
	for _, id := range d.order {
		if d.incoming[id] == 0 {
			sources = append(sources, id)
		}
	}
	return sources
}

// Descendants returns the set of nodes reachable from id through one or
// more edges. The node itself is included only if it lies on a cycle.
// Returns an empty set for unknown IDs.
func (d *DAG) Descendants(id string) map[string]struct{} {
	seen := make(map[string]struct{})
	stack := slices.Clone(d.outgoing[id])
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		stack = append(stack, d.outgoing[n]...)
	}
	return seen
}

// FindCycle returns the node IDs of one directed cycle, with the first ID
// repeated at the end, or nil if the graph is acyclic. Nodes are visited in
// insertion order so the reported cycle is deterministic.
//
// Cycle detection runs in O(N+E) time using depth-first search.
func (d *DAG) FindCycle() []string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.order))
	var path []string
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		path = append(path, id)
		for _, child := range d.outgoing[id] {
			switch color[child] {
			case white:
				if dfs(child) {
					return true
				}
			case gray:
				start := slices.Index(path, child)
				cycle = append(slices.Clone(path[start:]), child)
				return true
			}
		}
		path = path[:len(path)-1]
		color[id] = black
		return false
	}

	for _, id := range d.order {
		if color[id] == white && dfs(id) {
			return cycle
		}
	}
	return nil
}
