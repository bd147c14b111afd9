package mongo

import (
	"context"
	"os"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/records"
)

func lookup(t *testing.T, v any) bson.RawValue {
	t.Helper()
	raw, err := bson.Marshal(bson.M{"v": v})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bson.Raw(raw).Lookup("v")
}

func TestMultiValue(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    string
		wantErr string
	}{
		{name: "string", in: "a|b", want: "a|b"},
		{name: "array", in: []string{"a", "b"}, want: "a|b"},
		{name: "array skips empty", in: []any{"a", "", "c"}, want: "a|c"},
		{name: "null", in: nil, want: ""},
		{name: "number in array", in: []any{"a", 3, "c"}, wantErr: "element 1 is "},
		{name: "number", in: 42, wantErr: "want string or array of strings"},
		{name: "document", in: bson.M{"id": "a"}, wantErr: "want string or array of strings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := multiValue(lookup(t, tt.in))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("multiValue(%v) error = %v, want %q", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("multiValue(%v) = %q, %v, want %q", tt.in, got, err, tt.want)
			}
		})
	}
	if got, err := multiValue(bson.RawValue{}); got != "" || err != nil {
		t.Errorf("multiValue(missing) = %q, %v", got, err)
	}
}

func TestDocumentRow(t *testing.T) {
	decode := func(t *testing.T, m bson.M) document {
		t.Helper()
		raw, err := bson.Marshal(m)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var d document
		if err := bson.Unmarshal(raw, &d); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return d
	}

	row, err := decode(t, bson.M{
		"cell_set_accession":        "X",
		"cell_type_name":            "x",
		"synonyms":                  bson.A{"ex", "chi"},
		"child_cell_set_accessions": "A|B",
	}).row()
	if err != nil {
		t.Fatalf("row() error = %v", err)
	}
	want := records.Row{EntityID: "X", Name: "x", Synonyms: "ex|chi", Children: "A|B"}
	if row != want {
		t.Errorf("row() = %+v, want %+v", row, want)
	}

	tests := []struct {
		name string
		doc  bson.M
		want []string
	}{
		{
			name: "bad array entry",
			doc:  bson.M{"cell_set_accession": "X", "child_cell_set_accessions": bson.A{"A", 7}},
			want: []string{"document X", "field child_cell_set_accessions", "element 1"},
		},
		{
			name: "bad scalar without accession",
			doc:  bson.M{"_id": "doc-9", "parent_cell_set_accession": true},
			want: []string{"doc-9", "field parent_cell_set_accession", "want string or array of strings"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(t, tt.doc).row()
			if err == nil {
				t.Fatal("row() error = nil")
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("row() error = %q, missing %q", err, w)
				}
			}
		})
	}
}

func TestFetch_Live(t *testing.T) {
	uri := os.Getenv("TAXOTREE_TEST_MONGO")
	if uri == "" {
		t.Skip("TAXOTREE_TEST_MONGO not set")
	}
	ctx := context.Background()

	s, err := Connect(ctx, "live", uri, "taxotree_test", "taxonomy", records.ShapeChildren)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer s.Close()

	_ = s.coll.Drop(ctx)
	docs := []any{
		bson.M{"cell_set_accession": "A", "child_cell_set_accessions": "A"},
		bson.M{"cell_set_accession": "X", "cell_type_name": "x", "child_cell_set_accessions": bson.A{"A", "B"}},
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		t.Fatalf("InsertMany: %v", err)
	}

	b, err := s.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(b.Rows) != 2 || b.Rows[1].Children != "A|B" || b.Rows[1].Name != "x" {
		t.Errorf("rows = %+v", b.Rows)
	}

	if _, err := s.coll.InsertOne(ctx, bson.M{"cell_set_accession": "Y", "child_cell_set_accessions": bson.A{"A", 1}}); err != nil {
		t.Fatalf("InsertOne: %v", err)
	}
	if _, err := s.Fetch(ctx); !errors.Is(err, errors.ErrCodeInvalidFormat) || !strings.Contains(err.Error(), "document Y") {
		t.Errorf("Fetch(bad document) = %v, want INVALID_FORMAT naming Y", err)
	}
}
