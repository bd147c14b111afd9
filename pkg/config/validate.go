package config

import (
	"github.com/matzehuels/taxotree/pkg/cache"
	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/records"
)

// Validate checks the configuration and returns the first problem found
// as an INVALID_CONFIG error.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "log level %q: want debug, info, warn or error", c.Log.Level)
	}

	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend %q: want file, redis or none", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}

	seen := make(map[string]bool, len(c.Sources))
	for i, s := range c.Sources {
		if err := s.Validate(); err != nil {
			return wrapSource(i, s, err)
		}
		if seen[s.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate source name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// Validate checks a single source definition.
func (s Source) Validate() error {
	if err := errors.ValidateSourceName(s.Name); err != nil {
		return err
	}
	if _, err := records.ParseShape(s.Shape, records.ShapeChildren); err != nil {
		return err
	}
	if _, err := records.ParseDelimiter(s.Delimiter); err != nil {
		return err
	}

	switch s.Kind {
	case KindSQLite:
		if s.DSN == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "sqlite source requires dsn")
		}
		if s.Table != "" {
			return errors.ValidateTableName(s.Table)
		}
	case KindNomenclature:
		return errors.ValidateURL(s.URL)
	case KindFile:
		if s.Path == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "file source requires path")
		}
	case KindMongo:
		if s.MongoURI == "" || s.Database == "" || s.Collection == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "mongo source requires mongo_uri, database and collection")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown source kind %q", s.Kind)
	}
	return nil
}
