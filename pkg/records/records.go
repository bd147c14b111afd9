package records

import (
	"fmt"
	"strings"

	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

// Shape says how a batch expresses hierarchy.
type Shape string

const (
	// ShapeParent rows name their parent(s) explicitly.
	ShapeParent Shape = "parent"
	// ShapeChildren rows declare the set of children they contain.
	ShapeChildren Shape = "children"
)

// ParseShape converts a config or flag value into a Shape. The empty
// string selects def.
func ParseShape(s string, def Shape) (Shape, error) {
	switch Shape(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return def, nil
	case ShapeParent:
		return ShapeParent, nil
	case ShapeChildren:
		return ShapeChildren, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown record shape %q (want parent or children)", s)
}

// Separator joins multi-valued fields such as synonyms or children.
const Separator = "|"

// Row is one upstream record as read from a source. Multi-valued fields
// are Separator-delimited; absent values are "".
type Row struct {
	EntityID string `json:"entity_id"`
	Name     string `json:"name,omitempty"`
	Synonyms string `json:"synonyms,omitempty"`
	Parent   string `json:"parent,omitempty"`
	Children string `json:"children,omitempty"`
}

// Batch is everything one source produced in a single fetch.
type Batch struct {
	Source string `json:"source"`
	Shape  Shape  `json:"shape"`
	Rows   []Row  `json:"rows"`
}

// Input is the canonical form consumed by the hierarchy and tree packages.
// Exactly one of Parents or ChildSets is populated, depending on Shape.
type Input struct {
	Shape     Shape
	Nodes     *taxonomy.NodeTable
	Parents   []taxonomy.Edge
	ChildSets []taxonomy.ChildSetRecord
}

// Normalize converts a batch into canonical input.
//
// Every row becomes a node record. For parent-shaped batches each non-empty
// parent becomes a (entity, parent) pair; several parents may be given
// separated by "|". For children-shaped batches each row becomes a
// children-set, and a row without children gets the leaf sentinel {id}.
//
// Rows with an empty entity id or a repeated one yield an
// [errors.InvalidRecordError].
func Normalize(b *Batch) (*Input, error) {
	if b == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil batch")
	}
	shape, err := ParseShape(string(b.Shape), ShapeChildren)
	if err != nil {
		return nil, err
	}

	in := &Input{Shape: shape, Nodes: taxonomy.NewNodeTable()}
	for i, row := range b.Rows {
		id := strings.TrimSpace(row.EntityID)
		if id == "" {
			return nil, &errors.InvalidRecordError{Index: i, Reason: "missing entity id"}
		}
		rec := taxonomy.NodeRecord{
			ID:       id,
			Name:     strings.TrimSpace(row.Name),
			Synonyms: Split(row.Synonyms),
		}
		if in.Nodes.Has(id) {
			return nil, &errors.InvalidRecordError{Index: i, EntityID: id, Reason: "duplicate entity id"}
		}
		if err := in.Nodes.Add(rec); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		switch shape {
		case ShapeParent:
			for _, p := range Split(row.Parent) {
				in.Parents = append(in.Parents, taxonomy.Edge{Child: id, Parent: p})
			}
		case ShapeChildren:
			children := taxonomy.LeafChildSet(id)
			if kids := Split(row.Children); len(kids) > 0 {
				children = taxonomy.NewSet(kids...)
			}
			in.ChildSets = append(in.ChildSets, taxonomy.ChildSetRecord{ID: id, Children: children})
		}
	}
	return in, nil
}

// Split breaks a multi-valued field on [Separator], trimming blanks and
// dropping empty parts. Returns nil when nothing remains.
func Split(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, Separator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
