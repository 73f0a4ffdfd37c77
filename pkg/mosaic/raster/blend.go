package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"
)

// Multiply composites a solid tint over dst with the multiply blend mode at
// the given opacity (0..1). Transparent destination pixels take the tint
// color at that opacity, matching source-over behavior for an empty
// backdrop.
func Multiply(dst *image.RGBA, tint color.NRGBA, opacity float64) {
	as := math.Max(0, math.Min(1, opacity))
	if as == 0 {
		return
	}
	cs := [3]float64{
		as * float64(tint.R) / 255,
		as * float64(tint.G) / 255,
		as * float64(tint.B) / 255,
	}

	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := dst.Pix[dst.PixOffset(b.Min.X, y):dst.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			ab := float64(row[i+3]) / 255
			for c := range 3 {
				cb := float64(row[i+c]) / 255
				// premultiplied: cs(1-ab) + cb(1-as) + cs*cb
				row[i+c] = to8(cs[c]*(1-ab) + cb*(1-as) + cs[c]*cb)
			}
			row[i+3] = to8(as + ab*(1-as))
		}
	}
}

// DestinationIn keeps dst only where mask is opaque, scaling every
// premultiplied channel by the mask value.
func DestinationIn(dst *image.RGBA, mask *gg.Mask) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := dst.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x, off = x+1, off+4 {
			m := uint32(mask.At(x, y))
			if m == 255 {
				continue
			}
			px := dst.Pix[off : off+4 : off+4]
			for c := range px {
				px[c] = uint8((uint32(px[c])*m + 127) / 255)
			}
		}
	}
}

// maskFromLayer copies the alpha channel of layer into a mask of the same
// size.
func maskFromLayer(layer *image.RGBA) *gg.Mask {
	b := layer.Bounds()
	m := gg.NewMask(b.Dx(), b.Dy())
	data := m.Data()
	w := b.Dx()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := layer.PixOffset(b.Min.X, y)
		row := data[(y-b.Min.Y)*w : (y-b.Min.Y+1)*w]
		for x := range row {
			row[x] = layer.Pix[off+x*4+3]
		}
	}
	return m
}

func to8(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v*255))))
}
