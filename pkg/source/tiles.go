package source

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/logomosaic/pkg/cache"
	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/httputil"
	"github.com/matzehuels/logomosaic/pkg/mosaic"
	"github.com/matzehuels/logomosaic/pkg/observability"
)

// ListTiles expands paths into the tile files to load. Directories
// contribute their image files sorted by name; files and URLs are taken as
// given.
// The result is truncated to [mosaic.MaxTiles].
func (l *Loader) ListTiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		if httputil.IsURL(p) {
			files = append(files, p)
			continue
		}
		info, err := os.Stat(p)
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "tile source %s", p)
		}
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "tile source %s", p)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read tile dir %s", p)
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if !IsImage(e.Name()) {
				l.Logger.Debug("skipping non-image file", "file", e.Name())
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)
		for _, n := range names {
			files = append(files, filepath.Join(p, n))
		}
	}

	if len(files) > mosaic.MaxTiles {
		l.Logger.Debug("tile limit reached", "found", len(files), "kept", mosaic.MaxTiles)
		files = files[:mosaic.MaxTiles]
	}
	return files, nil
}

// LoadTiles decodes every tile file under paths. Files that fail to decode
// are logged and skipped; an error is returned only when nothing loads.
func (l *Loader) LoadTiles(ctx context.Context, paths []string) ([]*mosaic.Tile, error) {
	files, err := l.ListTiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no tile images found")
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, "tiles", len(files))
	start := time.Now()

	type tileResult struct {
		tile *mosaic.Tile
		err  error
	}
	results := make([]tileResult, len(files))
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i, path := range files {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				results[idx].err = ctx.Err()
				return
			}
			t, err := l.LoadTile(ctx, path)
			results[idx] = tileResult{tile: t, err: err}
		}(i, path)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		hooks.OnLoadComplete(ctx, "tiles", 0, time.Since(start), err)
		return nil, err
	}

	tiles := make([]*mosaic.Tile, 0, len(files))
	var firstErr error
	for i, r := range results {
		if r.err != nil {
			l.Logger.Warn("skipping tile", "file", files[i], "err", errs.UserMessage(r.err))
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		tiles = append(tiles, r.tile)
	}

	if len(tiles) == 0 {
		hooks.OnLoadComplete(ctx, "tiles", 0, time.Since(start), firstErr)
		return nil, firstErr
	}
	hooks.OnLoadComplete(ctx, "tiles", len(tiles), time.Since(start), nil)
	l.Logger.Debug("loaded tiles", "count", len(tiles), "skipped", len(files)-len(tiles), "duration", time.Since(start))
	return tiles, nil
}

// LoadTile reads and decodes a single tile file or URL.
func (l *Loader) LoadTile(ctx context.Context, path string) (*mosaic.Tile, error) {
	data, name, err := l.read(ctx, path, "tile")
	if err != nil {
		return nil, err
	}
	return l.DecodeTile(ctx, name, data)
}

// DecodeTile builds a tile from encoded image bytes. The tile ID is derived
// from name and content, so the same file always yields the same ID.
func (l *Loader) DecodeTile(ctx context.Context, name string, data []byte) (*mosaic.Tile, error) {
	img, err := decodeImage(name, data)
	if err != nil {
		return nil, err
	}
	img = l.downsize(img)

	hash := cache.Hash(data)
	encoded, err := l.encodedForm(ctx, hash, img)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode %s", name)
	}
	return &mosaic.Tile{
		ID:          mosaic.NewTileID(name, hash),
		Name:        name,
		Image:       img,
		Encoded:     encoded,
		EncodedMIME: "image/jpeg",
	}, nil
}

func (l *Loader) downsize(img image.Image) image.Image {
	if l.MaxSide <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= l.MaxSide && b.Dy() <= l.MaxSide {
		return img
	}
	return imaging.Fit(img, l.MaxSide, l.MaxSide, imaging.Lanczos)
}

// encodedForm returns the JPEG snapshot of img, consulting the cache first.
func (l *Loader) encodedForm(ctx context.Context, hash string, img image.Image) ([]byte, error) {
	key := l.Keyer.TileKey(hash, cache.TileKeyOpts{Quality: l.quality(), MaxSide: l.MaxSide})
	hooks := observability.Cache()

	if data, hit, err := l.Cache.Get(ctx, key); err == nil && hit {
		hooks.OnCacheHit(ctx, "tile")
		return data, nil
	} else if err != nil {
		l.Logger.Debug("tile cache read failed", "err", err)
	}
	hooks.OnCacheMiss(ctx, "tile")

	data, err := encodeJPEG(img, l.quality())
	if err != nil {
		return nil, err
	}
	if err := l.Cache.Set(ctx, key, data, cache.TTLTile); err != nil {
		l.Logger.Debug("tile cache write failed", "err", err)
	} else {
		hooks.OnCacheSet(ctx, "tile", len(data))
	}
	return data, nil
}
