package pipeline

import (
	"github.com/matzehuels/taxotree/pkg/hierarchy"
	"github.com/matzehuels/taxotree/pkg/records"
)

// Infer reconstructs the hierarchy of normalized input. Parent-shaped
// input takes its pairs as given; children-shaped input goes through
// [hierarchy.Infer].
func Infer(in *records.Input) (*hierarchy.Result, error) {
	if in.Shape == records.ShapeParent {
		return hierarchy.FromParents(in.Parents), nil
	}
	return hierarchy.Infer(in.ChildSets)
}
