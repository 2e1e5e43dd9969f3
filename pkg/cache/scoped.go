package cache

// ScopedKeyer prefixes every key produced by an inner Keyer. Deployments
// that share one cache between tenants or environments use it to partition
// the key space:
//
//	staging := cache.NewScopedKeyer(nil, "staging:")
//	key := staging.AnalysisKey(hash, opts) // "staging:analysis:<sha256>"
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner so every generated key carries prefix.
// A nil inner uses the default key layout.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// AnalysisKey generates a prefixed key for analyzer result caching.
func (k *ScopedKeyer) AnalysisKey(graphHash string, opts AnalysisKeyOpts) string {
	return k.prefix + k.inner.AnalysisKey(graphHash, opts)
}
