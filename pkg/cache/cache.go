// Package cache stores rendered artifacts keyed by their inputs.
//
// A render is a pure function of the two component grids and the render
// options, so its output can be cached under a key derived from both.
// Backends:
//   - [FileCache]: one file per entry under the XDG cache directory (CLI)
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer]; [NewScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Entry lifetimes.
const (
	// TTLArtifact is how long rendered outputs are kept.
	TTLArtifact = 7 * 24 * time.Hour
	// TTLLegend is how long legend computations are kept.
	TTLLegend = 24 * time.Hour
)

// ArtifactKeyOpts is everything besides the field that changes a rendered
// artifact.
type ArtifactKeyOpts struct {
	Format  string
	Options any // serialized render options
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey is the key of one rendered format of a field.
	ArtifactKey(fieldHash string, opts ArtifactKeyOpts) string
	// LegendKey is the key of a legend computation.
	LegendKey(opts any) string
}

// DefaultKeyer builds unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(fieldHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", fieldHash, opts.Format, opts.Options)
}

// LegendKey returns "legend:<sha256>".
func (DefaultKeyer) LegendKey(opts any) string {
	return hashKey("legend", opts)
}
