// Package raster paints logo-masked mosaics into pixel buffers.
//
// A render runs in fixed stages: cover-draw every placed tile, multiply a
// tint over the result, rasterize the logo into its fitted box, then either
// clip the mosaic to the logo's alpha (mask mode) or paint the logo over it
// at partial opacity (overlay mode). In mask mode the logo's alpha is also
// returned as a [gg.Mask] so pointer hit-tests can ask "is this inside the
// logo" without reading the visible image.
//
// Resampling is nearest-neighbor throughout; tiles keep crisp edges at any
// scale.
package raster

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/mosaic"
)

// cancelCheckEvery is how many tiles are drawn between context checks.
const cancelCheckEvery = 512

// Result is the output of one raster render.
type Result struct {
	// Image is the composited mosaic, W × H, premultiplied.
	Image *image.RGBA

	// Mask holds the painted logo silhouette at canvas size in mask mode.
	// In overlay mode it is empty.
	Mask *gg.Mask

	// Record is the placement the image was painted from.
	Record *mosaic.PlacementRecord

	// LogoBox is the logo's fitted box on the canvas.
	LogoBox mosaic.Rect

	Warnings []mosaic.Warning
}

// Compositor renders placement records. The zero value is not usable; call
// [New].
type Compositor struct {
	interp        draw.Interpolator
	vectorLogos   bool
	vectorOnError func(error)
}

// Option configures a [Compositor].
type Option func(*Compositor)

// WithInterpolator overrides the tile and logo resampler.
func WithInterpolator(i draw.Interpolator) Option {
	return func(c *Compositor) { c.interp = i }
}

// WithVectorLogos controls whether SVG logos are re-rasterized at their
// fitted size. When disabled, the logo's raster form is scaled instead.
func WithVectorLogos(enabled bool) Option {
	return func(c *Compositor) { c.vectorLogos = enabled }
}

// WithVectorFallback registers a callback invoked when an SVG logo fails to
// rasterize and the raster form is used instead.
func WithVectorFallback(fn func(error)) Option {
	return func(c *Compositor) { c.vectorOnError = fn }
}

// New returns a compositor with nearest-neighbor resampling and vector logo
// rasterization enabled.
func New(opts ...Option) *Compositor {
	c := &Compositor{interp: draw.NearestNeighbor, vectorLogos: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render paints rec with p and logo. Parameters must already be normalized.
func (c *Compositor) Render(ctx context.Context, p mosaic.Params, logo *mosaic.Logo, rec *mosaic.PlacementRecord) (*Result, error) {
	if logo == nil || logo.Raster == nil {
		return nil, errs.New(errs.ErrCodeNotReady, "no logo loaded")
	}
	if rec.Len() == 0 {
		return nil, errs.New(errs.ErrCodeNotReady, "no tiles placed")
	}

	w, h := p.CanvasWidth, p.CanvasHeight
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))

	for k, pt := range rec.Tiles {
		if k%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		c.drawCover(canvas, pt.Tile.Image, pt.Rect)
	}

	if p.TintPercent > 0 {
		Multiply(canvas, p.Tint(), float64(p.TintPercent)/100)
	}

	box := logo.Fit(w, h)
	layer := c.logoLayer(logo, box, w, h)
	mask := maskFromLayer(layer)

	switch p.LogoMode {
	case mosaic.LogoOverlay:
		a := uint8(p.OverlayAlpha * 255 / 100)
		draw.DrawMask(canvas, canvas.Bounds(), layer, image.Point{}, image.NewUniform(color.Alpha{A: a}), image.Point{}, draw.Over)
		// Overlay hit-tests are unrestricted, so the silhouette is not kept.
		mask = gg.NewMask(w, h)
	default:
		DestinationIn(canvas, mask)
	}

	return &Result{
		Image:    canvas,
		Mask:     mask,
		Record:   rec,
		LogoBox:  box,
		Warnings: mosaic.QualityWarnings(p, logo),
	}, nil
}

// drawCover scales src to fill r without distortion, cropping the overflow
// symmetrically. Only pixels whose centers fall inside r are written.
func (c *Compositor) drawCover(dst *image.RGBA, src image.Image, r mosaic.Rect) {
	b := src.Bounds()
	crop := mosaic.CoverSource(float64(b.Dx()), float64(b.Dy()), r.W, r.H)
	if crop.Empty() {
		return
	}
	clip := centerPixels(r).Intersect(dst.Bounds())
	if clip.Empty() {
		return
	}

	sx, sy := r.W/crop.W, r.H/crop.H
	ox, oy := float64(b.Min.X)+crop.X, float64(b.Min.Y)+crop.Y
	m := f64.Aff3{
		sx, 0, r.X - ox*sx,
		0, sy, r.Y - oy*sy,
	}
	srcRect := mosaic.Rect{X: ox, Y: oy, W: crop.W, H: crop.H}.Pixels().Intersect(b)

	sub := dst.SubImage(clip).(*image.RGBA)
	c.interp.Transform(sub, m, src, srcRect, draw.Over, nil)
}

// centerPixels returns the pixels whose centers lie inside r.
func centerPixels(r mosaic.Rect) image.Rectangle {
	return image.Rect(pixelEdge(r.X), pixelEdge(r.Y), pixelEdge(r.Right()), pixelEdge(r.Bottom()))
}

// pixelEdge returns the first pixel index whose center lies at or past v.
func pixelEdge(v float64) int {
	return int(math.Ceil(v - 0.5))
}
