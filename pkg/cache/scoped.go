package cache

// ScopedKeyer prefixes every key of another Keyer, giving each tenant of a
// shared backend its own namespace.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "disposition:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(docHash, opts)
}

// OverviewKey returns the prefixed overview key.
func (k *ScopedKeyer) OverviewKey(docHash, format string) string {
	return k.prefix + k.inner.OverviewKey(docHash, format)
}
