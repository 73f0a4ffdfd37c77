package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tools or users
// can share one backend without key collisions.
//
// Example usage:
//
//	// Keys for the preview server
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "serve:")
//
//	// Keys for CLI runs
//	cliKeyer := NewDefaultKeyer()
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
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TileKey generates a prefixed key for encoded tiles.
func (k *ScopedKeyer) TileKey(contentHash string, opts TileKeyOpts) string {
	return k.prefix + k.inner.TileKey(contentHash, opts)
}

// LogoKey generates a prefixed key for rasterized logos.
func (k *ScopedKeyer) LogoKey(contentHash string, opts LogoKeyOpts) string {
	return k.prefix + k.inner.LogoKey(contentHash, opts)
}

// ArtifactKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ArtifactKey(placementHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(placementHash, opts)
}
