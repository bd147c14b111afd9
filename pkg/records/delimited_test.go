package records

import (
	"strings"
	"testing"

	"github.com/matzehuels/taxotree/pkg/errors"
)

func TestParseDelimited_Nomenclature(t *testing.T) {
	input := "# nomenclature release\n" +
		"Cell_Set_Accession\tcell_set_preferred_alias\tcell_set_aligned_alias\tchild_cell_set_accessions\n" +
		"CS:1\tNeuron\tnerve cell|neurocyte\tCS:1\n" +
		"\t\t\t\n" +
		"CS:2\tGlia\t\tCS:1|CS:3\n"

	b, err := ParseDelimited(strings.NewReader(input), 0, ShapeChildren)
	if err != nil {
		t.Fatalf("ParseDelimited: %v", err)
	}
	if b.Shape != ShapeChildren {
		t.Errorf("Shape = %q", b.Shape)
	}
	want := []Row{
		{EntityID: "CS:1", Name: "Neuron", Synonyms: "nerve cell|neurocyte", Children: "CS:1"},
		{EntityID: "CS:2", Name: "Glia", Children: "CS:1|CS:3"},
	}
	if len(b.Rows) != len(want) {
		t.Fatalf("got %d rows, want %d: %+v", len(b.Rows), len(want), b.Rows)
	}
	for i := range want {
		if b.Rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, b.Rows[i], want[i])
		}
	}
}

func TestParseDelimited_CommaParentTable(t *testing.T) {
	input := "entity_id,name,synonyms,parent\n" +
		"a,Alpha,,\n" +
		"b,\"Beta, the second\",bb,a\n" +
		"c\n"

	b, err := ParseDelimited(strings.NewReader(input), ',', ShapeParent)
	if err != nil {
		t.Fatalf("ParseDelimited: %v", err)
	}
	if len(b.Rows) != 3 {
		t.Fatalf("rows = %+v", b.Rows)
	}
	if b.Rows[1].Name != "Beta, the second" || b.Rows[1].Parent != "a" {
		t.Errorf("row 1 = %+v", b.Rows[1])
	}
	if b.Rows[2] != (Row{EntityID: "c"}) {
		t.Errorf("short row should pad missing fields, got %+v", b.Rows[2])
	}
}

func TestParseDelimited_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no accession column", "name\tparent\nx\ty\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDelimited(strings.NewReader(tt.input), 0, ShapeChildren)
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ParseDelimited() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"", '\t', false},
		{"tab", '\t', false},
		{`\t`, '\t', false},
		{"comma", ',', false},
		{";", ';', false},
		{"::", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDelimiter(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseDelimiter(%q) = %q, %v", tt.in, got, err)
		}
	}
}
