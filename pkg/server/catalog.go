package server

import (
	"context"
	"slices"

	"github.com/matzehuels/taxotree/pkg/config"
	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/source"
)

// Catalog resolves source names. Open returns a NOT_FOUND error for names
// it does not know. The caller invokes release once it is done with the
// source; release closes whatever the catalog opened for that call and
// nothing else.
type Catalog interface {
	Names() []string
	Open(ctx context.Context, name string) (src source.Source, release func() error, err error)
}

func noRelease() error { return nil }

// ConfigCatalog opens the sources listed in a configuration file. Every
// Open connects afresh and its release closes that connection.
type ConfigCatalog struct {
	Config *config.Config
	Deps   source.Deps
}

func (c ConfigCatalog) Names() []string { return c.Config.SourceNames() }

func (c ConfigCatalog) Open(ctx context.Context, name string) (source.Source, func() error, error) {
	cfg, ok := c.Config.Source(name)
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeNotFound, "unknown source %q", name)
	}
	src, err := source.Open(ctx, cfg, c.Deps)
	if err != nil {
		return nil, nil, err
	}
	return src, func() error { return source.Close(src) }, nil
}

// StaticCatalog serves fixed sources keyed by name. The sources are shared
// across requests and stay open; closing them is up to their owner.
type StaticCatalog map[string]source.Source

func (c StaticCatalog) Names() []string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func (c StaticCatalog) Open(_ context.Context, name string) (source.Source, func() error, error) {
	src, ok := c[name]
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeNotFound, "unknown source %q", name)
	}
	return src, noRelease, nil
}
