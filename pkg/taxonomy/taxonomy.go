package taxonomy

import (
	"slices"

	"github.com/matzehuels/taxotree/pkg/errors"
)

// NodeRecord describes one entity (cell set) of a taxonomy.
// Records are immutable once added to a [NodeTable].
type NodeRecord struct {
	ID       string   `json:"id" bson:"id"`
	Name     string   `json:"name,omitempty" bson:"name,omitempty"`
	Synonyms []string `json:"synonyms,omitempty" bson:"synonyms,omitempty"`
}

// Text returns the display text for the record: "name [id]" when a name is
// set, otherwise the bare id.
func (r NodeRecord) Text() string {
	if r.Name == "" {
		return r.ID
	}
	return r.Name + " [" + r.ID + "]"
}

// ChildSetRecord is the declared (possibly inaccurate) set of children of
// one entity, as read from a nomenclature source.
//
// A record whose source row had no children carries the self-singleton
// set {ID}; see [LeafChildSet].
type ChildSetRecord struct {
	ID       string
	Children Set
}

// LeafChildSet returns the sentinel children-set for a leaf entity.
func LeafChildSet(id string) Set { return NewSet(id) }

// Edge is a directed (child, parent) pair.
type Edge struct {
	Child  string `json:"child" bson:"child"`
	Parent string `json:"parent" bson:"parent"`
}

// EdgeSet is an insertion-ordered set of edges. The zero value is ready to use.
type EdgeSet struct {
	order []Edge
	seen  map[Edge]struct{}
}

// Add inserts e and reports whether it was not already present.
func (s *EdgeSet) Add(e Edge) bool {
	if s.seen == nil {
		s.seen = make(map[Edge]struct{})
	}
	if _, ok := s.seen[e]; ok {
		return false
	}
	s.seen[e] = struct{}{}
	s.order = append(s.order, e)
	return true
}

// Contains reports whether e is in the set.
func (s *EdgeSet) Contains(e Edge) bool {
	_, ok := s.seen[e]
	return ok
}

// Len returns the number of edges.
func (s *EdgeSet) Len() int { return len(s.order) }

// Edges returns a copy of the edges in insertion order.
func (s *EdgeSet) Edges() []Edge { return slices.Clone(s.order) }

// NodeTable maps entity ids to node records and remembers insertion order.
// It is built once per run and read-only afterwards.
type NodeTable struct {
	ids     []string
	records map[string]NodeRecord
}

// NewNodeTable creates an empty table.
func NewNodeTable() *NodeTable {
	return &NodeTable{records: make(map[string]NodeRecord)}
}

// Add inserts a record. Returns an INVALID_RECORD error when the id is empty
// or already present.
func (t *NodeTable) Add(r NodeRecord) error {
	if r.ID == "" {
		return errors.New(errors.ErrCodeInvalidRecord, "node record has empty id")
	}
	if _, ok := t.records[r.ID]; ok {
		return errors.New(errors.ErrCodeInvalidRecord, "duplicate entity id %q", r.ID)
	}
	r.Synonyms = slices.Clone(r.Synonyms)
	t.records[r.ID] = r
	t.ids = append(t.ids, r.ID)
	return nil
}

// Get returns the record for id.
func (t *NodeTable) Get(id string) (NodeRecord, bool) {
	r, ok := t.records[id]
	return r, ok
}

// Has reports whether id is in the table.
func (t *NodeTable) Has(id string) bool {
	_, ok := t.records[id]
	return ok
}

// IDs returns entity ids in insertion order.
func (t *NodeTable) IDs() []string { return slices.Clone(t.ids) }

// Len returns the number of records.
func (t *NodeTable) Len() int { return len(t.ids) }

// Records returns all records in insertion order.
func (t *NodeTable) Records() []NodeRecord {
	out := make([]NodeRecord, len(t.ids))
	for i, id := range t.ids {
		out[i] = t.records[id]
	}
	return out
}

// TreeNode is one node of an assembled display tree.
// The caller owns returned trees exclusively.
type TreeNode struct {
	ID       string      `json:"id"`
	Text     string      `json:"text"`
	Expanded bool        `json:"expanded,omitempty"`
	Children []*TreeNode `json:"children,omitempty"`
}
