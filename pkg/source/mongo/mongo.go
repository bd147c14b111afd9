// Package mongo reads taxonomy rows from a MongoDB collection.
//
// Documents use the same field names as the SQLite tables
// (cell_set_accession, cell_type_name, synonyms, parent_cell_set_accession)
// plus child_cell_set_accessions for children-set collections. Multi-valued
// fields may be stored as a "|"-joined string or as an array of strings;
// any other non-null type fails the fetch with INVALID_FORMAT.
package mongo

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/records"
)

type document struct {
	ID       bson.RawValue `bson:"_id"`
	EntityID string        `bson:"cell_set_accession"`
	Name     string        `bson:"cell_type_name"`
	Synonyms bson.RawValue `bson:"synonyms"`
	Parent   bson.RawValue `bson:"parent_cell_set_accession"`
	Children bson.RawValue `bson:"child_cell_set_accessions"`
}

// Source reads one collection.
type Source struct {
	name   string
	coll   *mongo.Collection
	shape  records.Shape
	client *mongo.Client
}

// New wraps an existing collection. Close does not disconnect its client.
func New(name string, coll *mongo.Collection, shape records.Shape) *Source {
	return &Source{name: name, coll: coll, shape: shape}
}

// Connect dials uri and pings the server. Close disconnects.
func Connect(ctx context.Context, name, uri, database, collection string, shape records.Shape) (*Source, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.NoData(name, fmt.Errorf("connect to mongodb: %w", err))
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.NoData(name, fmt.Errorf("ping mongodb: %w", err))
	}
	s := New(name, client.Database(database).Collection(collection), shape)
	s.client = client
	return s, nil
}

// Name returns the configured source name.
func (s *Source) Name() string { return s.name }

// Close disconnects the client if the source dialed it.
func (s *Source) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(context.Background())
}

// Fetch reads every document in insertion order.
func (s *Source) Fetch(ctx context.Context) (*records.Batch, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.NoData(s.name, fmt.Errorf("find: %w", err))
	}
	defer cur.Close(ctx)

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s documents", s.name)
	}

	b := &records.Batch{Source: s.name, Shape: s.shape, Rows: make([]records.Row, 0, len(docs))}
	for _, d := range docs {
		row, err := d.row()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s", s.name)
		}
		b.Rows = append(b.Rows, row)
	}
	return b, nil
}

// label names the document in errors: its accession, or its _id when the
// accession is missing.
func (d document) label() string {
	if d.EntityID != "" {
		return d.EntityID
	}
	return d.ID.String()
}

func (d document) row() (records.Row, error) {
	r := records.Row{EntityID: d.EntityID, Name: d.Name}
	fields := []struct {
		name string
		v    bson.RawValue
		dst  *string
	}{
		{"synonyms", d.Synonyms, &r.Synonyms},
		{"parent_cell_set_accession", d.Parent, &r.Parent},
		{"child_cell_set_accessions", d.Children, &r.Children},
	}
	for _, f := range fields {
		v, err := multiValue(f.v)
		if err != nil {
			return records.Row{}, fmt.Errorf("document %s: field %s: %w", d.label(), f.name, err)
		}
		*f.dst = v
	}
	return r, nil
}

// multiValue flattens a string or string array to the "|"-joined form.
// Missing and null values read as "", empty array entries are skipped.
func multiValue(v bson.RawValue) (string, error) {
	switch v.Type {
	case 0, bson.TypeNull, bson.TypeUndefined:
		return "", nil
	case bson.TypeString:
		return v.StringValue(), nil
	case bson.TypeArray:
		vals, err := v.Array().Values()
		if err != nil {
			return "", err
		}
		parts := make([]string, 0, len(vals))
		for i, e := range vals {
			s, ok := e.StringValueOK()
			if !ok {
				return "", fmt.Errorf("element %d is %s, want string", i, e.Type)
			}
			if s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, records.Separator), nil
	default:
		return "", fmt.Errorf("value is %s, want string or array of strings", v.Type)
	}
}
