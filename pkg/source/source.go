// Package source defines where taxonomy records come from.
//
// A [Source] produces one [records.Batch] per fetch. Implementations:
//
//   - [File]: a delimited file on disk
//   - [Nomenclature]: a delimited table downloaded over HTTP(S)
//   - [Static]: an in-memory batch, mostly for tests and embedding
//   - sqlite.Source (package sqlite): a SQLite taxonomy table
//   - mongo.Source (package mongo): a MongoDB collection
//
// [Open] builds any of them from a [config.Source]. Sources whose backing
// store is unreachable return an [errors.NoDataError] so callers can tell
// "nothing to show right now" apart from malformed data.
package source

import (
	"context"
	"io"
	"time"

	"github.com/matzehuels/taxotree/pkg/cache"
	"github.com/matzehuels/taxotree/pkg/config"
	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/integrations/nomenclature"
	"github.com/matzehuels/taxotree/pkg/records"
	"github.com/matzehuels/taxotree/pkg/source/mongo"
	"github.com/matzehuels/taxotree/pkg/source/sqlite"
)

// Source fetches raw taxonomy records.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (*records.Batch, error)
}

// Fingerprinted is implemented by sources whose batches may be cached.
// The fingerprint changes whenever the source's settings change.
type Fingerprinted interface {
	Fingerprint() string
}

// Deps carries shared resources for [Open].
type Deps struct {
	// Cache stores downloaded tables. Nil disables caching.
	Cache cache.Cache
	// TTL bounds cached downloads; zero uses [cache.DefaultTTL].
	TTL time.Duration
	// Refresh bypasses cached downloads.
	Refresh bool
}

// Open builds the source described by cfg. The caller should release it
// with [Close].
func Open(ctx context.Context, cfg config.Source, deps Deps) (Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	shape, _ := records.ParseShape(cfg.Shape, DefaultShape(cfg.Kind))
	delim, _ := records.ParseDelimiter(cfg.Delimiter)

	switch cfg.Kind {
	case config.KindFile:
		return NewFile(cfg.Name, cfg.Path, delim, shape), nil

	case config.KindNomenclature:
		ttl := deps.TTL
		if ttl <= 0 {
			ttl = cache.DefaultTTL
		}
		client := nomenclature.NewClient(deps.Cache, ttl)
		n := NewNomenclature(cfg.Name, cfg.URL, client, delim, shape)
		n.Refresh = deps.Refresh
		return n, nil

	case config.KindSQLite:
		s, err := sqlite.Open(cfg.Name, cfg.DSN, cfg.Table)
		if err != nil {
			return nil, errors.NoData(cfg.Name, err)
		}
		return withFingerprint(s, cfg.Fingerprint()), nil

	case config.KindMongo:
		s, err := mongo.Connect(ctx, cfg.Name, cfg.MongoURI, cfg.Database, cfg.Collection, shape)
		if err != nil {
			return nil, err
		}
		return withFingerprint(s, cfg.Fingerprint()), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown source kind %q", cfg.Kind)
}

// Close releases resources held by src, if any.
func Close(src Source) error {
	if c, ok := src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// DefaultShape is the record shape a source kind uses when none is
// configured. SQLite tables carry explicit parents; everything else
// defaults to children-sets.
func DefaultShape(kind string) records.Shape {
	if kind == config.KindSQLite {
		return records.ShapeParent
	}
	return records.ShapeChildren
}

type closingSource interface {
	Source
	io.Closer
}

type fingerprinted struct {
	closingSource
	fp string
}

func withFingerprint(s closingSource, fp string) Source {
	return &fingerprinted{closingSource: s, fp: fp}
}

func (f *fingerprinted) Fingerprint() string { return f.fp }
