package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/records"
)

func memDB(t *testing.T, stmts ...string) *sql.DB {
	t.Helper()
	db, err := sql.Open(DriverName, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
	return db
}

const schema = `CREATE TABLE mtg (
	cell_set_accession TEXT,
	cell_type_name TEXT,
	synonyms TEXT,
	parent_cell_set_accession TEXT
)`

func TestFetch(t *testing.T) {
	db := memDB(t, schema,
		`CREATE TABLE mtg_cross_taxonomy (x TEXT)`,
		`INSERT INTO mtg VALUES ('CS:1', 'All cells', NULL, NULL)`,
		`INSERT INTO mtg VALUES ('CS:2', 'Neuron', 'nerve cell|neurocyte', 'CS:1')`,
		`INSERT INTO mtg VALUES ('CS:3', NULL, '', 'CS:2')`,
	)

	b, err := New("mtg-db", db, "").Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if b.Source != "mtg-db" || b.Shape != records.ShapeParent {
		t.Errorf("batch header = %q %q", b.Source, b.Shape)
	}
	want := []records.Row{
		{EntityID: "CS:1", Name: "All cells"},
		{EntityID: "CS:2", Name: "Neuron", Synonyms: "nerve cell|neurocyte", Parent: "CS:1"},
		{EntityID: "CS:3", Parent: "CS:2"},
	}
	if len(b.Rows) != len(want) {
		t.Fatalf("rows = %+v", b.Rows)
	}
	for i := range want {
		if b.Rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, b.Rows[i], want[i])
		}
	}
}

func TestFetch_Errors(t *testing.T) {
	ctx := context.Background()

	db := memDB(t, schema)
	if _, err := New("x", db, "").Fetch(ctx); !errors.IsRecoverable(err) {
		t.Errorf("Fetch without display table = %v, want NO_DATA", err)
	}
	if _, err := New("x", db, "missing").Fetch(ctx); !errors.IsRecoverable(err) {
		t.Errorf("Fetch(missing table) = %v, want NO_DATA", err)
	}
	if _, err := New("x", db, "mtg; DROP TABLE mtg").Fetch(ctx); errors.GetCode(err) == "" || errors.IsRecoverable(err) {
		t.Errorf("Fetch(bad table name) = %v, want validation error", err)
	}
}

func TestPickTaxonomy(t *testing.T) {
	tests := []struct {
		tables  []string
		want    string
		wantErr bool
	}{
		{[]string{"a", "b"}, "", true},
		{[]string{"mtg", "mtg_cross_taxonomy"}, "mtg", false},
		{[]string{"a_cross_taxonomy", "b_cross_taxonomy"}, "b", false},
		{[]string{"mtg_cross_taxonomy_v2"}, "mtg_v2", false},
		{[]string{"mtg_cross_taxonomy_cross_taxonomy"}, "mtg", false},
	}
	for _, tt := range tests {
		got, err := pickTaxonomy(tt.tables)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("pickTaxonomy(%v) = %q, %v", tt.tables, got, err)
		}
	}
}

func TestOpenClose(t *testing.T) {
	s, err := Open("x", ":memory:", "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
