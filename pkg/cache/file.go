package cache

import (
	"bytes"
	"context"
	"encoding/binary"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry kinds, matching the key prefixes produced by [DefaultKeyer].
const (
	KindTile     = "tile"
	KindLogo     = "logo"
	KindArtifact = "artifact"
	kindOther    = "other"
)

// entryMagic starts every file cache entry. It is followed by the expiry
// as big-endian Unix nanoseconds (zero for none) and the raw payload.
var entryMagic = []byte("LMC1")

const entryHeader = 4 + 8

// FileCache stores entries as files below a directory, one subdirectory per
// entry kind, so tile snapshots, logo rasters and rendered artifacts can be
// inspected and pruned separately. Payloads are stored raw; encoded JPEG
// snapshots are not re-wrapped.
type FileCache struct {
	dir string
}

// KindUsage is the disk usage of one entry kind.
type KindUsage struct {
	Entries int
	Bytes   int64
}

// NewFileCache creates a file-based cache in the given directory.
// The directory will be created if it doesn't exist.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *FileCache) Dir() string {
	return c.dir
}

func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	data, expires, ok := decodeEntry(raw)
	if !ok || expired(expires, time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires int64
	if ttl > 0 {
		expires = time.Now().Add(ttl).UnixNano()
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	// Write then rename so concurrent tile loaders never read a torn entry.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return err
	}
	var hdr [entryHeader]byte
	copy(hdr[:], entryMagic)
	binary.BigEndian.PutUint64(hdr[4:], uint64(expires))
	if _, err := tmp.Write(hdr[:]); err == nil {
		_, err = tmp.Write(data)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (c *FileCache) Close() error {
	return nil
}

// Usage reports entry counts and sizes per kind.
func (c *FileCache) Usage(ctx context.Context) (map[string]KindUsage, error) {
	usage := make(map[string]KindUsage)
	err := c.walk(ctx, func(kind, path string, info fs.FileInfo) error {
		u := usage[kind]
		u.Entries++
		u.Bytes += info.Size()
		usage[kind] = u
		return nil
	})
	return usage, err
}

// Prune removes expired and unreadable entries and returns how many were
// removed.
func (c *FileCache) Prune(ctx context.Context) (int, error) {
	now := time.Now()
	removed := 0
	err := c.walk(ctx, func(kind, path string, info fs.FileInfo) error {
		f, err := os.Open(path)
		if err != nil {
			return nil
		}
		var hdr [entryHeader]byte
		_, rerr := f.Read(hdr[:])
		f.Close()
		_, expires, ok := decodeEntry(hdr[:])
		if rerr != nil || !ok || expired(expires, now) {
			if os.Remove(path) == nil {
				removed++
			}
		}
		return nil
	})
	return removed, err
}

// Clear removes every entry of the given kinds, or all entries when no kind
// is given, and returns how many were removed.
func (c *FileCache) Clear(ctx context.Context, kinds ...string) (int, error) {
	want := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	removed := 0
	err := c.walk(ctx, func(kind, path string, info fs.FileInfo) error {
		if len(want) > 0 && !want[kind] {
			return nil
		}
		if os.Remove(path) == nil {
			removed++
		}
		return nil
	})
	return removed, err
}

// walk visits every entry file with the kind directory it lives in.
func (c *FileCache) walk(ctx context.Context, fn func(kind, path string, info fs.FileInfo) error) error {
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || filepath.Ext(path) != ".bin" {
			return nil
		}
		rel, err := filepath.Rel(c.dir, path)
		if err != nil {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		kind, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
		return fn(kind, path, info)
	})
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// path maps key to <dir>/<kind>/<hh>/<hash>.bin. The two-character shard
// keeps directories small for folders of thousands of tiles.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, keyKind(key), hash[:2], hash[2:]+".bin")
}

// keyKind finds the entry kind in key, skipping any namespace prefix.
func keyKind(key string) string {
	for _, part := range strings.Split(key, ":") {
		switch part {
		case KindTile, KindLogo, KindArtifact:
			return part
		}
	}
	return kindOther
}

func decodeEntry(raw []byte) (data []byte, expires int64, ok bool) {
	if len(raw) < entryHeader || !bytes.Equal(raw[:4], entryMagic) {
		return nil, 0, false
	}
	return raw[entryHeader:], int64(binary.BigEndian.Uint64(raw[4:entryHeader])), true
}

func expired(expires int64, now time.Time) bool {
	return expires != 0 && now.UnixNano() > expires
}

var _ Cache = (*FileCache)(nil)
