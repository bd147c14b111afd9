package nomenclature

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/taxotree/pkg/cache"
	taxerrors "github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/integrations"
)

// Client downloads nomenclature tables.
type Client struct {
	*integrations.Client
}

// NewClient creates a client caching downloads in c for ttl.
func NewClient(c cache.Cache, ttl time.Duration) *Client {
	return &Client{Client: integrations.NewClient(c, "nomenclature", ttl, map[string]string{
		"Accept": "text/tab-separated-values, text/csv, text/plain;q=0.9, */*;q=0.5",
	})}
}

// FetchTable returns the raw bytes of the table at url. With refresh set
// the cache is bypassed. Transient failures are retried before an error
// is returned; a missing table yields a NOT_FOUND error.
func (c *Client) FetchTable(ctx context.Context, url string, refresh bool) ([]byte, error) {
	if err := taxerrors.ValidateURL(url); err != nil {
		return nil, err
	}
	data, err := c.CachedBytes(ctx, url, refresh, func() ([]byte, error) {
		return c.GetBytes(ctx, url)
	})
	if errors.Is(err, integrations.ErrNotFound) {
		return nil, taxerrors.Wrap(taxerrors.ErrCodeNotFound, err, "nomenclature table %s", url)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch nomenclature %s: %w", url, err)
	}
	return data, nil
}
