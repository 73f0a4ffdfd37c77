package source

import (
	"bytes"
	"context"
	"image"
	"math"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/logomosaic/pkg/cache"
	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/mosaic"
	"github.com/matzehuels/logomosaic/pkg/mosaic/raster"
	"github.com/matzehuels/logomosaic/pkg/observability"
)

// LoadLogo reads a logo file or URL. SVG logos keep their vector form.
func (l *Loader) LoadLogo(ctx context.Context, path string) (*mosaic.Logo, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, "logo", 1)
	start := time.Now()

	logo, err := l.loadLogo(ctx, path)
	loaded := 0
	if err == nil {
		loaded = 1
	}
	hooks.OnLoadComplete(ctx, "logo", loaded, time.Since(start), err)
	return logo, err
}

func (l *Loader) loadLogo(ctx context.Context, path string) (*mosaic.Logo, error) {
	data, name, err := l.read(ctx, path, "logo")
	if err != nil {
		return nil, err
	}
	return l.DecodeLogo(ctx, name, data)
}

// DecodeLogo builds a logo from file bytes. SVG is detected by extension or
// by content.
func (l *Loader) DecodeLogo(ctx context.Context, name string, data []byte) (*mosaic.Logo, error) {
	if IsSVG(name) || (!IsImage(name) && LooksLikeSVG(data)) {
		return l.decodeSVGLogo(ctx, name, data)
	}
	img, err := decodeImage(name, data)
	if err != nil {
		return nil, err
	}
	return &mosaic.Logo{Name: name, Raster: img, Hash: cache.Hash(data)}, nil
}

func (l *Loader) decodeSVGLogo(ctx context.Context, name string, data []byte) (*mosaic.Logo, error) {
	v, err := ParseSVG(data)
	if err != nil {
		return nil, errs.Wrap(errs.GetCode(err), err, "logo %s", name)
	}
	w, h := rasterSize(v.Width, v.Height, l.logoSide())
	hash := cache.Hash(data)

	key := l.Keyer.LogoKey(hash, cache.LogoKeyOpts{Width: w, Height: h})
	hooks := observability.Cache()
	if png, hit, err := l.Cache.Get(ctx, key); err == nil && hit {
		if img, err := imaging.Decode(bytes.NewReader(png)); err == nil {
			hooks.OnCacheHit(ctx, "logo")
			return &mosaic.Logo{Name: name, Raster: img, Vector: v, Hash: hash}, nil
		}
	}
	hooks.OnCacheMiss(ctx, "logo")

	img, err := raster.RasterizeSVG(strings.NewReader(raster.SVGDocument(v)), w, h)
	if err != nil {
		return nil, err
	}
	if png, err := encodePNG(img); err == nil {
		if err := l.Cache.Set(ctx, key, png, cache.TTLLogo); err == nil {
			hooks.OnCacheSet(ctx, "logo", len(png))
		}
	}
	l.Logger.Debug("rasterized svg logo", "name", name, "width", w, "height", h)
	return &mosaic.Logo{Name: name, Raster: img, Vector: v, Hash: hash}, nil
}

// rasterSize scales an intrinsic box so its longest side is side pixels.
func rasterSize(w, h float64, side int) (int, int) {
	s := float64(side) / math.Max(w, h)
	return max(1, int(math.Round(w*s))), max(1, int(math.Round(h*s)))
}

// Preview returns a downscaled copy of img whose longest side is at most
// side pixels.
func Preview(img image.Image, side int) image.Image {
	b := img.Bounds()
	if b.Dx() <= side && b.Dy() <= side {
		return img
	}
	return imaging.Fit(img, side, side, imaging.Box)
}
