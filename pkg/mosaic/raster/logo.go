package raster

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/mosaic"
)

// logoLayer returns a canvas-sized layer holding the logo drawn into box.
func (c *Compositor) logoLayer(logo *mosaic.Logo, box mosaic.Rect, w, h int) *image.RGBA {
	layer := image.NewRGBA(image.Rect(0, 0, w, h))
	clip := centerPixels(box).Intersect(layer.Bounds())
	if clip.Empty() {
		return layer
	}

	if c.vectorLogos && logo.Vector != nil {
		img, err := RasterizeSVG(strings.NewReader(SVGDocument(logo.Vector)), clip.Dx(), clip.Dy())
		if err == nil {
			draw.Draw(layer, clip, img, image.Point{}, draw.Src)
			return layer
		}
		if c.vectorOnError != nil {
			c.vectorOnError(err)
		}
	}

	src := logo.Raster
	b := src.Bounds()
	sx, sy := box.W/float64(b.Dx()), box.H/float64(b.Dy())
	m := f64.Aff3{
		sx, 0, box.X - float64(b.Min.X)*sx,
		0, sy, box.Y - float64(b.Min.Y)*sy,
	}
	c.interp.Transform(layer.SubImage(clip).(*image.RGBA), m, src, b, draw.Src, nil)
	return layer
}

// SVGDocument wraps a vector logo's inner markup in a root element whose
// viewBox matches the logo's intrinsic box.
func SVGDocument(v *mosaic.VectorLogo) string {
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%g" height="%g" viewBox="%g %g %g %g">%s</svg>`,
		v.Width, v.Height, v.MinX, v.MinY, v.Width, v.Height, v.Markup,
	)
}

// RasterizeSVG renders an SVG document stretched to w × h pixels.
// Unsupported elements are skipped rather than failing the whole document.
func RasterizeSVG(r io.Reader, w, h int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "rasterize svg: empty target %dx%d", w, h)
	}
	icon, err := oksvg.ReadIconStream(r, oksvg.WarnErrorMode)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeDecode, err, "parse svg")
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}
