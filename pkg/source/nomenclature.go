package source

import (
	"bytes"
	"context"

	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/integrations/nomenclature"
	"github.com/matzehuels/taxotree/pkg/records"
)

// Nomenclature downloads a delimited nomenclature table. Any download
// failure, including a missing table, is reported as NO_DATA.
type Nomenclature struct {
	name      string
	url       string
	client    *nomenclature.Client
	delimiter rune
	shape     records.Shape

	// Refresh bypasses the download cache.
	Refresh bool
}

// NewNomenclature returns a source reading url through client.
func NewNomenclature(name, url string, client *nomenclature.Client, delimiter rune, shape records.Shape) *Nomenclature {
	if delimiter == 0 {
		delimiter = records.DefaultDelimiter
	}
	return &Nomenclature{name: name, url: url, client: client, delimiter: delimiter, shape: shape}
}

func (n *Nomenclature) Name() string { return n.name }

// URL returns the table location.
func (n *Nomenclature) URL() string { return n.url }

func (n *Nomenclature) Fetch(ctx context.Context) (*records.Batch, error) {
	data, err := n.client.FetchTable(ctx, n.url, n.Refresh)
	if err != nil {
		if errors.Is(err, errors.ErrCodeInvalidInput) {
			return nil, err
		}
		return nil, errors.NoData(n.name, err)
	}
	b, err := records.ParseDelimited(bytes.NewReader(data), n.delimiter, n.shape)
	if err != nil {
		return nil, err
	}
	b.Source = n.name
	return b, nil
}
