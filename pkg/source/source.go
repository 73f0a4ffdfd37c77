// Package source loads tiles and logos from disk into their decoded and
// encoded forms.
//
// Tiles are decoded with EXIF auto-orientation, optionally downscaled, and
// snapshotted as JPEG (quality 92) for embedding into vector exports. The
// snapshot is cached by content hash, so reloading a folder only decodes.
//
// Logos are either raster images or SVG documents. An SVG logo keeps its
// inner markup and viewBox for the vector export and is rasterized for the
// raster pipeline.
//
// # Formats
//
// JPEG, PNG, GIF, WebP, BMP and TIFF decode. HEIC/HEIF files are rejected
// with UNSUPPORTED_FORMAT.
//
// # Remote sources
//
// Paths starting with http:// or https:// are downloaded with
// [httputil.Fetcher] instead of read from disk.
package source

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/logomosaic/pkg/cache"
	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/httputil"
)

const (
	// DefaultQuality is the JPEG quality of encoded tile snapshots.
	DefaultQuality = 92

	// DefaultLogoSide is the longest side of the raster form of SVG logos.
	DefaultLogoSide = 2048

	// workers bounds concurrent tile decodes.
	workers = 8
)

// Loader reads tile and logo files. The zero value is not usable; create
// one with [NewLoader].
type Loader struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Quality is the JPEG quality of tile snapshots.
	Quality int

	// MaxSide downsizes decoded tiles so neither side exceeds it. Zero keeps
	// the source resolution.
	MaxSide int

	// LogoSide is the longest side of rasterized SVG logos.
	LogoSide int

	// Fetcher downloads URL sources.
	Fetcher *httputil.Fetcher
}

// NewLoader creates a loader. A nil cache disables caching, a nil keyer uses
// the default keyer, and a nil logger discards output.
func NewLoader(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Loader {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Loader{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Quality:  DefaultQuality,
		LogoSide: DefaultLogoSide,
		Fetcher:  httputil.NewFetcher(nil),
	}
}

// read returns the bytes and base name of a local path or URL.
func (l *Loader) read(ctx context.Context, path, kind string) ([]byte, string, error) {
	if httputil.IsURL(path) {
		f := l.Fetcher
		if f == nil {
			f = httputil.NewFetcher(nil)
		}
		return f.Fetch(ctx, path)
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, "", errs.Wrap(errs.ErrCodeFileNotFound, err, "%s %s", kind, path)
	}
	if err != nil {
		return nil, "", errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s %s", kind, path)
	}
	return data, filepath.Base(path), nil
}

func (l *Loader) quality() int {
	if l.Quality <= 0 || l.Quality > 100 {
		return DefaultQuality
	}
	return l.Quality
}

func (l *Loader) logoSide() int {
	if l.LogoSide <= 0 {
		return DefaultLogoSide
	}
	return l.LogoSide
}
