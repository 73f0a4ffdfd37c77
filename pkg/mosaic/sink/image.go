package sink

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
)

// DefaultJPEGQuality is used when no quality is given.
const DefaultJPEGQuality = 92

// ImageOption configures raster encoders.
type ImageOption func(*imageRenderer)

type imageRenderer struct {
	quality    int
	background color.Color
	maxSide    int
}

// WithQuality sets the JPEG quality (1-100).
func WithQuality(q int) ImageOption {
	return func(r *imageRenderer) { r.quality = q }
}

// WithBackground sets the color transparent pixels are flattened onto for
// formats without alpha. The default is white.
func WithBackground(c color.Color) ImageOption {
	return func(r *imageRenderer) { r.background = c }
}

// WithMaxSide downsizes the image so neither side exceeds n pixels. Zero
// keeps the full resolution.
func WithMaxSide(n int) ImageOption {
	return func(r *imageRenderer) { r.maxSide = n }
}

func newImageRenderer(opts []ImageOption) imageRenderer {
	r := imageRenderer{quality: DefaultJPEGQuality, background: color.White}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r imageRenderer) prepare(img image.Image) image.Image {
	if r.maxSide <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= r.maxSide && b.Dy() <= r.maxSide {
		return img
	}
	return imaging.Fit(img, r.maxSide, r.maxSide, imaging.NearestNeighbor)
}

// RenderPNG encodes img as PNG, keeping transparency outside the logo.
func RenderPNG(img image.Image, opts ...ImageOption) ([]byte, error) {
	r := newImageRenderer(opts)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, r.prepare(img), imaging.PNG); err != nil {
		return nil, errs.Wrap(errs.ErrCodeExport, err, "encode png")
	}
	return buf.Bytes(), nil
}

// RenderJPEG encodes img as JPEG after flattening it onto the background
// color.
func RenderJPEG(img image.Image, opts ...ImageOption) ([]byte, error) {
	r := newImageRenderer(opts)
	src := r.prepare(img)
	b := src.Bounds()
	flat := imaging.New(b.Dx(), b.Dy(), r.background)
	flat = imaging.Overlay(flat, src, image.Point{}, 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(r.quality)); err != nil {
		return nil, errs.Wrap(errs.ErrCodeExport, err, "encode jpeg")
	}
	return buf.Bytes(), nil
}
