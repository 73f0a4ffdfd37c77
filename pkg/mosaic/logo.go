package mosaic

import "image"

// VectorLogo is the sanitized SVG form of a logo.
//
// Markup holds the children of the root <svg> element. Width and Height are
// the intrinsic size the markup is authored in; MinX and MinY are the
// viewBox origin.
type VectorLogo struct {
	Markup string
	Width  float64
	Height float64
	MinX   float64
	MinY   float64
}

// Logo is the shape the mosaic is clipped to or overlaid with.
//
// Raster is always present. Vector is set when the logo was loaded from SVG;
// the SVG export then emits a true clip path instead of a luminance mask.
type Logo struct {
	Name   string
	Raster image.Image
	Vector *VectorLogo

	// Hash identifies the source bytes; empty for logos built in memory.
	Hash string
}

// Size returns the logo's intrinsic size used for fitting. For vector logos
// this is the SVG's own box, so the clip path scale and the raster fitted
// box agree exactly.
func (l *Logo) Size() (w, h float64) {
	if l.Vector != nil && l.Vector.Width > 0 && l.Vector.Height > 0 {
		return l.Vector.Width, l.Vector.Height
	}
	b := l.Raster.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// RasterSize returns the pixel dimensions of the raster form.
func (l *Logo) RasterSize() (w, h int) {
	b := l.Raster.Bounds()
	return b.Dx(), b.Dy()
}

// Fit returns the logo's fitted box inside a W × H canvas.
func (l *Logo) Fit(canvasW, canvasH int) Rect {
	w, h := l.Size()
	return FitBox(float64(canvasW), float64(canvasH), w, h)
}
