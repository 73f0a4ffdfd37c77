// Package cache provides byte-level caching for encoded tile snapshots,
// rasterized logos and rendered artifacts.
//
// Decoding and re-encoding a folder of photos dominates load time, so the
// encoded JPEG form of every tile is cached under a key derived from the
// source bytes and the encoding options. Loading the same folder again
// skips the encoder entirely.
//
// # Backends
//
//   - [FileCache]: one file per entry, sharded by kind (CLI default)
//   - [RedisCache]: shared cache for the preview server
//   - [MongoCache]: shared cache with TTL indexes
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] builds keys from content hashes and options. Use
// [NewScopedKeyer] to isolate namespaces that share one backend.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	// TTLTile is how long encoded tile snapshots are kept.
	TTLTile = 30 * 24 * time.Hour

	// TTLLogo is how long rasterized logos are kept.
	TTLLogo = 30 * 24 * time.Hour

	// TTLArtifact is how long rendered outputs are kept.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss with ok == false and a nil error. A ttl of zero stores
// the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NullCache backs --no-cache runs: every tile is decoded and encoded afresh
// and no artifact is reused.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return NullCache{}
}

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
