package source

import (
	"context"

	"github.com/matzehuels/taxotree/pkg/records"
)

// Static serves a fixed batch. Each fetch returns a copy.
type Static struct {
	batch records.Batch
}

// NewStatic returns a source serving rows under name.
func NewStatic(name string, shape records.Shape, rows ...records.Row) *Static {
	return &Static{batch: records.Batch{Source: name, Shape: shape, Rows: rows}}
}

func (s *Static) Name() string { return s.batch.Source }

func (s *Static) Fetch(ctx context.Context) (*records.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := s.batch
	b.Rows = append([]records.Row(nil), s.batch.Rows...)
	return &b, nil
}
