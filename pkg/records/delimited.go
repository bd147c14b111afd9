package records

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/matzehuels/taxotree/pkg/errors"
)

// DefaultDelimiter separates columns of nomenclature files.
const DefaultDelimiter = '\t'

// column aliases, matched case-insensitively against the header row.
var columnAliases = map[string][]string{
	"id":       {"cell_set_accession", "entity_id", "accession"},
	"name":     {"cell_type_name", "name", "cell_set_preferred_alias"},
	"synonyms": {"synonyms", "cell_set_aligned_alias"},
	"parent":   {"parent_cell_set_accession", "parent"},
	"children": {"child_cell_set_accessions", "children"},
}

// ParseDelimited reads a delimited table with a header row into a batch.
// A zero delimiter selects [DefaultDelimiter].
//
// The header must contain an accession column; the other columns are
// optional and missing ones read as "". Returns an INVALID_FORMAT error
// for unreadable input.
func ParseDelimited(r io.Reader, delimiter rune, shape Shape) (*Batch, error) {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "empty input: header row required")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read header")
	}
	cols := locateColumns(header)
	if cols["id"] < 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"no accession column in header (want one of %s)", strings.Join(columnAliases["id"], ", "))
	}

	b := &Batch{Shape: shape}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read row %d", len(b.Rows)+1)
		}
		if blank(rec) {
			continue
		}
		b.Rows = append(b.Rows, Row{
			EntityID: field(rec, cols["id"]),
			Name:     field(rec, cols["name"]),
			Synonyms: field(rec, cols["synonyms"]),
			Parent:   field(rec, cols["parent"]),
			Children: field(rec, cols["children"]),
		})
	}
	return b, nil
}

// ParseDelimiter turns a config value into a delimiter rune. Accepts a
// single character or one of "tab", "comma", "\t".
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "tab", `\t`, "\t":
		return '\t', nil
	case "comma", ",":
		return ',', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "delimiter must be a single character, got %q", s)
	}
	return r[0], nil
}

func locateColumns(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	cols := make(map[string]int, len(columnAliases))
	for key, aliases := range columnAliases {
		cols[key] = -1
		for _, a := range aliases {
			if i, ok := idx[a]; ok {
				cols[key] = i
				break
			}
		}
	}
	return cols
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
