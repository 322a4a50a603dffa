package cache

// ScopedKeyer wraps a Keyer with a namespace prefix, so several quiver
// deployments (or a CLI and a server) can share one Redis instance.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "quiver:prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(fieldHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(fieldHash, opts)
}

// LegendKey generates a prefixed legend key.
func (k *ScopedKeyer) LegendKey(opts any) string {
	return k.prefix + k.inner.LegendKey(opts)
}
