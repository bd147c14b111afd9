// Package sqlite reads explicit-parent taxonomy rows from a SQLite
// database, the layout produced by the cell-type taxonomy loaders.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/records"
)

// DriverName is the database/sql driver registered by go-sqlite3.
const DriverName = "sqlite3"

// CrossTaxonomyPostfix marks the display table derived from a taxonomy
// table; stripping it yields the taxonomy table name.
const CrossTaxonomyPostfix = "_cross_taxonomy"

// Source reads one taxonomy table.
type Source struct {
	name  string
	db    *sql.DB
	table string
	owned bool
}

// New wraps an open database. An empty table is resolved on every fetch
// with [ResolveTable]. Close does not close db.
func New(name string, db *sql.DB, table string) *Source {
	return &Source{name: name, db: db, table: table}
}

// Open opens the database at dsn. Close releases it.
func Open(name, dsn, table string) (*Source, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	return &Source{name: name, db: db, table: table, owned: true}, nil
}

// Name returns the configured source name.
func (s *Source) Name() string { return s.name }

// Close closes the database if the source opened it.
func (s *Source) Close() error {
	if s.owned {
		return s.db.Close()
	}
	return nil
}

// Fetch reads every row of the taxonomy table. NULL columns read as "".
// A missing or unreadable table yields a NO_DATA error.
func (s *Source) Fetch(ctx context.Context) (*records.Batch, error) {
	table := s.table
	if table == "" {
		t, err := ResolveTable(ctx, s.db)
		if err != nil {
			return nil, errors.NoData(s.name, err)
		}
		table = t
	}
	if err := errors.ValidateTableName(table); err != nil {
		return nil, err
	}

	// The table name is validated above; identifiers cannot be bound.
	query := "SELECT cell_set_accession, cell_type_name, synonyms, parent_cell_set_accession FROM " + table
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NoData(s.name, fmt.Errorf("query %s: %w", table, err))
	}
	defer rows.Close()

	b := &records.Batch{Source: s.name, Shape: records.ShapeParent}
	for rows.Next() {
		var id, name, synonyms, parent sql.NullString
		if err := rows.Scan(&id, &name, &synonyms, &parent); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "scan %s row %d", table, len(b.Rows))
		}
		b.Rows = append(b.Rows, records.Row{
			EntityID: id.String,
			Name:     name.String,
			Synonyms: synonyms.String,
			Parent:   parent.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NoData(s.name, err)
	}
	return b, nil
}

// ResolveTable picks the taxonomy table by looking for a display table
// whose name contains CrossTaxonomyPostfix. The taxonomy name is the table
// name with every occurrence of the postfix removed. When several exist the
// last one in schema order wins.
func ResolveTable(ctx context.Context, db *sql.DB) (string, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table'")
	if err != nil {
		return "", fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return "", err
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return pickTaxonomy(tables)
}

func pickTaxonomy(tables []string) (string, error) {
	found := ""
	for _, t := range tables {
		if strings.Contains(t, CrossTaxonomyPostfix) {
			found = strings.ReplaceAll(t, CrossTaxonomyPostfix, "")
		}
	}
	if found == "" {
		return "", errors.New(errors.ErrCodeNotFound, "no table with %q postfix", CrossTaxonomyPostfix)
	}
	return found, nil
}
