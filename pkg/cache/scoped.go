package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis database without seeing each other's entries.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. An empty prefix returns
// inner unchanged.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	if prefix == "" {
		return inner
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// BatchKey generates a prefixed key for record batch caching.
func (k *ScopedKeyer) BatchKey(source, fingerprint string) string {
	return k.prefix + k.inner.BatchKey(source, fingerprint)
}
