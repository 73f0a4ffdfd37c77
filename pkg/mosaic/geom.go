package mosaic

import (
	"image"
	"math"
)

// Rect is an axis-aligned rectangle in canvas pixel space.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains reports whether (px, py) lies inside r. The right and bottom
// edges are exclusive, so adjacent grid cells never both claim a point.
func (r Rect) Contains(px, py float64) bool {
	return px >= r.X && px < r.X+r.W && py >= r.Y && py < r.Y+r.H
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Aspect returns W/H, or 0 for a degenerate rectangle.
func (r Rect) Aspect() float64 {
	if r.H == 0 {
		return 0
	}
	return r.W / r.H
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Pixels returns the smallest integer rectangle covering r.
func (r Rect) Pixels() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.W)), int(math.Ceil(r.Y+r.H)),
	)
}

// FitBox scales content (contentW × contentH) to fit entirely inside the
// container while preserving its aspect ratio. The result touches the
// container on the limiting axis and is centered on the other.
//
// Both compositors use this function for the logo, so the raster mask and
// the SVG clip path always describe the same region.
func FitBox(containerW, containerH, contentW, contentH float64) Rect {
	if containerW <= 0 || containerH <= 0 || contentW <= 0 || contentH <= 0 {
		return Rect{}
	}
	lr := contentW / contentH
	ar := containerW / containerH
	if lr > ar {
		h := containerW / lr
		return Rect{X: 0, Y: (containerH - h) / 2, W: containerW, H: h}
	}
	w := containerH * lr
	return Rect{X: (containerW - w) / 2, Y: 0, W: w, H: containerH}
}

// CoverSource returns the region of a srcW × srcH image that, scaled into a
// dstW × dstH rectangle, fills it completely without distortion. The
// overflowing axis is cropped symmetrically around the center.
func CoverSource(srcW, srcH, dstW, dstH float64) Rect {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return Rect{}
	}
	ir := srcW / srcH
	dr := dstW / dstH
	if ir > dr {
		// crop sides
		sw := srcH * dr
		return Rect{X: (srcW - sw) / 2, Y: 0, W: sw, H: srcH}
	}
	// crop top and bottom
	sh := srcW / dr
	return Rect{X: 0, Y: (srcH - sh) / 2, W: srcW, H: sh}
}
