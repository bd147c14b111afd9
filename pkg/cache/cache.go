// Package cache stores fetched payloads (HTTP bodies, normalized record
// batches) so repeated runs against the same source avoid the network.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for a shared server deployment and [NullCache] when caching is off.
// [Instrument] wraps any backend with observability hooks.
package cache

import (
	"context"
	"strings"
	"time"
)

// DefaultTTL is used when the configuration leaves the TTL unset.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of 0 stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys. Implementations must be deterministic.
type Keyer interface {
	// HTTPKey is the key for a raw HTTP response body.
	HTTPKey(namespace, key string) string

	// BatchKey is the key for the record batch of a source. fingerprint
	// identifies the source configuration, so editing a source's settings
	// invalidates its cached batch.
	BatchKey(source, fingerprint string) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// BatchKey returns "batch:<sha256>" of the source name and fingerprint.
func (DefaultKeyer) BatchKey(source, fingerprint string) string {
	return hashKey("batch", source, fingerprint)
}

// KeyType returns the namespace of a key generated by a Keyer, e.g.
// "http" or "batch". Scope prefixes are skipped.
func KeyType(key string) string {
	for _, seg := range strings.Split(key, ":") {
		if seg == "http" || seg == "batch" {
			return seg
		}
	}
	return "other"
}
