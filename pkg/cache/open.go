package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Options selects and configures a backend.
type Options struct {
	Backend   string
	Dir       string
	RedisAddr string
	RedisDB   int
}

// Open creates the configured backend wrapped with [Instrument].
// An empty backend selects the file cache.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, fmt.Errorf("open file cache: %w", err)
		}
		return Instrument(c), nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, opts.RedisAddr, opts.RedisDB)
		if err != nil {
			return nil, err
		}
		return Instrument(c), nil
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
