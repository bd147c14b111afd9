package hierarchy

import (
	stderrors "errors"
	"reflect"
	"slices"
	"testing"

	"github.com/matzehuels/taxotree/pkg/dag"
	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

func rec(id string, children ...string) taxonomy.ChildSetRecord {
	return taxonomy.ChildSetRecord{ID: id, Children: taxonomy.NewSet(children...)}
}

func edge(child, parent string) taxonomy.Edge {
	return taxonomy.Edge{Child: child, Parent: parent}
}

func TestInfer_Chain(t *testing.T) {
	res, err := Infer([]taxonomy.ChildSetRecord{
		rec("A", "A"),
		rec("B", "A"),
		rec("C", "A", "B"),
	})
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}

	want := []taxonomy.Edge{edge("A", "B"), edge("B", "C")}
	if !slices.Equal(res.Edges, want) {
		t.Errorf("Edges = %v, want %v", res.Edges, want)
	}
	if len(res.MultiInheritance) != 0 {
		t.Errorf("MultiInheritance = %v, want none", res.MultiInheritance)
	}
	if !slices.Equal(res.Roots, []string{"C"}) {
		t.Errorf("Roots = %v, want [C]", res.Roots)
	}
	if !slices.Equal(res.Leaves, []string{"A"}) {
		t.Errorf("Leaves = %v, want [A]", res.Leaves)
	}
}

func TestInfer_Repair(t *testing.T) {
	records := []taxonomy.ChildSetRecord{
		rec("A", "A"),
		rec("B", "B"),
		rec("C", "C"),
		rec("X", "A", "B"),
		rec("Y", "B", "C"),
	}
	res, err := Infer(records)
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}

	want := []taxonomy.Edge{
		edge("A", "X"),
		edge("B", "X"),
		edge("C", "Y"),
		edge("B", "Y"),
	}
	if !slices.Equal(res.Edges, want) {
		t.Errorf("Edges = %v, want %v", res.Edges, want)
	}
	if !slices.Equal(res.MultiInheritance, []string{"Y"}) {
		t.Errorf("MultiInheritance = %v, want [Y]", res.MultiInheritance)
	}
	if !slices.Equal(res.Roots, []string{"X", "Y"}) {
		t.Errorf("Roots = %v, want [X Y]", res.Roots)
	}
	if !slices.Equal(res.Leaves, []string{"A", "B", "C"}) {
		t.Errorf("Leaves = %v, want [A B C]", res.Leaves)
	}
	if res.Uncovered != nil {
		t.Errorf("Uncovered = %v, want nil", res.Uncovered)
	}
	assertCovered(t, records, res)
}

func TestInfer_PartialRepair(t *testing.T) {
	// Equal-sized sets chain in input order, so E's declared child C
	// cannot be rebuilt from smaller records.
	res, err := Infer([]taxonomy.ChildSetRecord{
		rec("A", "A"),
		rec("B", "A"),
		rec("C", "A"),
		rec("D", "A", "B"),
		rec("E", "A", "C"),
	})
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}

	want := []taxonomy.Edge{
		edge("A", "B"),
		edge("B", "C"),
		edge("C", "D"),
		edge("C", "E"),
	}
	if !slices.Equal(res.Edges, want) {
		t.Errorf("Edges = %v, want %v", res.Edges, want)
	}
	if !slices.Equal(res.MultiInheritance, []string{"E"}) {
		t.Errorf("MultiInheritance = %v, want [E]", res.MultiInheritance)
	}
	wantUncovered := map[string][]string{"E": {"C"}}
	if !reflect.DeepEqual(res.Uncovered, wantUncovered) {
		t.Errorf("Uncovered = %v, want %v", res.Uncovered, wantUncovered)
	}
}

func TestInfer_Ambiguous(t *testing.T) {
	tests := []struct {
		name      string
		records   []taxonomy.ChildSetRecord
		entity    string
		claimedBy []string
	}{
		{
			name:      "leaf listed after its parent",
			records:   []taxonomy.ChildSetRecord{rec("B", "A"), rec("A", "A")},
			entity:    "A",
			claimedBy: []string{"B"},
		},
		{
			name: "claimed set tied for largest",
			records: []taxonomy.ChildSetRecord{
				rec("a", "a"), rec("b", "b"),
				rec("P", "X"),
				rec("Y", "a", "b"),
				rec("X", "a", "b"),
			},
			entity:    "X",
			claimedBy: []string{"P"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Infer(tt.records)
			var amb *errors.AmbiguousHierarchyError
			if !stderrors.As(err, &amb) {
				t.Fatalf("Infer() error = %v, want AmbiguousHierarchyError", err)
			}
			if amb.EntityID != tt.entity || !slices.Equal(amb.ClaimedBy, tt.claimedBy) {
				t.Errorf("got %s claimed by %v, want %s claimed by %v",
					amb.EntityID, amb.ClaimedBy, tt.entity, tt.claimedBy)
			}
			if !errors.Is(err, errors.ErrCodeAmbiguousHierarchy) {
				t.Errorf("code = %s", errors.GetCode(err))
			}
		})
	}
}

func TestInfer_UniqueLargestIsRoot(t *testing.T) {
	res, err := Infer([]taxonomy.ChildSetRecord{
		rec("a", "a"), rec("b", "b"),
		rec("P", "X"),
		rec("X", "a", "b"),
	})
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if !slices.Contains(res.Roots, "X") {
		t.Errorf("Roots = %v, want X among them", res.Roots)
	}
	if !slices.Equal(res.MultiInheritance, []string{"P"}) {
		t.Errorf("MultiInheritance = %v, want [P]", res.MultiInheritance)
	}
	wantUncovered := map[string][]string{"P": {"X"}}
	if !reflect.DeepEqual(res.Uncovered, wantUncovered) {
		t.Errorf("Uncovered = %v, want %v", res.Uncovered, wantUncovered)
	}
}

func TestInfer_InvalidRecords(t *testing.T) {
	tests := []struct {
		name    string
		records []taxonomy.ChildSetRecord
		index   int
	}{
		{"empty id", []taxonomy.ChildSetRecord{rec("A", "A"), rec("", "A")}, 1},
		{"empty children", []taxonomy.ChildSetRecord{{ID: "A"}}, 0},
		{"duplicate id", []taxonomy.ChildSetRecord{rec("A", "A"), rec("B", "A"), rec("A", "B")}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Infer(tt.records)
			var inv *errors.InvalidRecordError
			if !stderrors.As(err, &inv) {
				t.Fatalf("Infer() error = %v, want InvalidRecordError", err)
			}
			if inv.Index != tt.index {
				t.Errorf("Index = %d, want %d", inv.Index, tt.index)
			}
		})
	}
}

func TestInfer_Empty(t *testing.T) {
	res, err := Infer(nil)
	if err != nil {
		t.Fatalf("Infer(nil): %v", err)
	}
	if len(res.Edges) != 0 || len(res.Roots) != 0 {
		t.Errorf("Infer(nil) = %+v, want empty result", res)
	}
}

func TestInfer_Deterministic(t *testing.T) {
	records := []taxonomy.ChildSetRecord{
		rec("A", "A"), rec("B", "B"), rec("C", "C"),
		rec("X", "A", "B"), rec("Y", "B", "C"),
		rec("Z", "A", "B", "C"),
	}
	before := slices.Clone(records)

	first, err := Infer(records)
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	second, _ := Infer(records)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ:\n%+v\n%+v", first, second)
	}
	for i := range records {
		if records[i].ID != before[i].ID {
			t.Fatalf("input reordered at %d: %s", i, records[i].ID)
		}
	}
	assertAcyclic(t, first.Edges)
	assertCovered(t, records, first)
}

func assertAcyclic(t *testing.T, edges []taxonomy.Edge) {
	t.Helper()
	g := dag.New()
	for _, e := range edges {
		_ = g.EnsureNode(e.Child)
		_ = g.EnsureNode(e.Parent)
		_ = g.AddEdge(dag.Edge{From: e.Parent, To: e.Child})
	}
	if c := g.FindCycle(); c != nil {
		t.Errorf("inferred edges contain cycle %v", c)
	}
}

// assertCovered checks that every declared child of a fully covered record
// is reachable below it through the final edges.
func assertCovered(t *testing.T, records []taxonomy.ChildSetRecord, res *Result) {
	t.Helper()
	g := dag.New()
	for _, r := range records {
		_ = g.EnsureNode(r.ID)
	}
	for _, e := range res.Edges {
		_ = g.AddEdge(dag.Edge{From: e.Parent, To: e.Child})
	}
	for _, r := range records {
		if _, partial := res.Uncovered[r.ID]; partial {
			continue
		}
		desc := g.Descendants(r.ID)
		for c := range r.Children {
			if _, ok := desc[c]; !ok && c != r.ID {
				t.Errorf("%s: declared child %s not reachable", r.ID, c)
			}
		}
	}
}
