package raster

import (
	"context"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/gogpu/gg"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/mosaic"
	"github.com/matzehuels/logomosaic/pkg/mosaic/layout"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

// halfLogo is opaque on its left half and transparent on the right.
func halfLogo(size int) *mosaic.Logo {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size / 2 {
			img.Set(x, y, color.NRGBA{A: 255})
		}
	}
	return &mosaic.Logo{Name: "half", Raster: img}
}

func render(t *testing.T, p mosaic.Params, logo *mosaic.Logo, tiles ...*mosaic.Tile) *Result {
	t.Helper()
	p.Normalize()
	rec := layout.NewEngine().Place(p, mosaic.NewTileSet(tiles))
	res, err := New().Render(context.Background(), p, logo, rec)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return res
}

func smallParams() mosaic.Params {
	p := mosaic.DefaultParams()
	p.CanvasWidth, p.CanvasHeight = 512, 512
	p.Columns, p.Rows = 10, 10
	return p
}

func TestRenderMask(t *testing.T) {
	red := &mosaic.Tile{ID: "red", Image: solid(8, 8, color.NRGBA{R: 255, A: 255})}
	res := render(t, smallParams(), halfLogo(100), red)

	if got := res.Image.RGBAAt(10, 10); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("inside logo = %v, want opaque red", got)
	}
	if got := res.Image.RGBAAt(400, 10); got.A != 0 {
		t.Errorf("outside logo alpha = %d, want 0", got.A)
	}
	if res.Mask.Width() != 512 || res.Mask.Height() != 512 {
		t.Errorf("mask size = %dx%d, want 512x512", res.Mask.Width(), res.Mask.Height())
	}
	if res.Mask.At(10, 10) != 255 || res.Mask.At(400, 10) != 0 {
		t.Errorf("mask values = %d/%d, want 255/0", res.Mask.At(10, 10), res.Mask.At(400, 10))
	}
}

func TestRenderOverlay(t *testing.T) {
	white := &mosaic.Tile{ID: "white", Image: solid(8, 8, color.White)}
	p := smallParams()
	p.LogoMode = mosaic.LogoOverlay
	p.OverlayAlpha = 100
	res := render(t, p, halfLogo(100), white)

	if got := res.Image.RGBAAt(400, 10); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("outside logo = %v, want untouched white tile", got)
	}
	if got := res.Image.RGBAAt(10, 10); got != (color.RGBA{A: 255}) {
		t.Errorf("inside logo at full overlay = %v, want black", got)
	}
	if res.Mask.At(10, 10) != 0 {
		t.Error("overlay mode should leave the mask empty")
	}

	p.OverlayAlpha = 0
	res = render(t, p, halfLogo(100), white)
	if got := res.Image.RGBAAt(10, 10); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("inside logo at zero overlay = %v, want white", got)
	}
}

func TestRenderTint(t *testing.T) {
	white := &mosaic.Tile{ID: "white", Image: solid(8, 8, color.White)}
	tests := []struct {
		pct  int
		want uint8
	}{
		{0, 255},
		{100, 0x80},
		{50, 191},
	}
	for _, tt := range tests {
		p := smallParams()
		p.TintColor = "#808080"
		p.TintPercent = tt.pct
		res := render(t, p, halfLogo(100), white)
		got := res.Image.RGBAAt(10, 10)
		if diff := int(got.R) - int(tt.want); diff < -1 || diff > 1 {
			t.Errorf("tint %d%%: R = %d, want %d", tt.pct, got.R, tt.want)
		}
		if got.A != 255 {
			t.Errorf("tint %d%%: A = %d, want 255", tt.pct, got.A)
		}
	}
}

func TestRenderNotReady(t *testing.T) {
	p := smallParams()
	rec := layout.NewEngine().Place(p, mosaic.NewTileSet(nil))
	_, err := New().Render(context.Background(), p, halfLogo(10), rec)
	if !errs.Is(err, errs.ErrCodeNotReady) {
		t.Errorf("empty tiles: err = %v, want NOT_READY", err)
	}

	tile := &mosaic.Tile{ID: "t", Image: solid(4, 4, color.White)}
	rec = layout.NewEngine().Place(p, mosaic.NewTileSet([]*mosaic.Tile{tile}))
	_, err = New().Render(context.Background(), p, nil, rec)
	if !errs.Is(err, errs.ErrCodeNotReady) {
		t.Errorf("nil logo: err = %v, want NOT_READY", err)
	}
}

func TestRenderCanceled(t *testing.T) {
	p := smallParams()
	p.Normalize()
	tile := &mosaic.Tile{ID: "t", Image: solid(4, 4, color.White)}
	rec := layout.NewEngine().Place(p, mosaic.NewTileSet([]*mosaic.Tile{tile}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Render(ctx, p, halfLogo(10), rec); err == nil {
		t.Error("Render() with canceled context should fail")
	}
}

func TestRenderWarnings(t *testing.T) {
	tile := &mosaic.Tile{ID: "t", Image: solid(4, 4, color.White)}
	res := render(t, smallParams(), halfLogo(20), tile)
	if len(res.Warnings) == 0 || res.Warnings[0].Code != mosaic.WarnLogoUpscaled {
		t.Errorf("Warnings = %v, want logo_upscaled", res.Warnings)
	}
}

func TestDrawCoverCrops(t *testing.T) {
	// Three vertical bands; a square cover draw keeps only the middle one.
	src := image.NewNRGBA(image.Rect(0, 0, 30, 10))
	bands := []color.NRGBA{{R: 255, A: 255}, {G: 255, A: 255}, {B: 255, A: 255}}
	for y := range 10 {
		for x := range 30 {
			src.Set(x, y, bands[x/10])
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	New().drawCover(dst, src, mosaic.Rect{X: 5, Y: 5, W: 20, H: 20})

	for y := 5; y < 25; y++ {
		for x := 5; x < 25; x++ {
			if got := dst.RGBAAt(x, y); got != (color.RGBA{G: 255, A: 255}) {
				t.Fatalf("pixel (%d,%d) = %v, want green", x, y, got)
			}
		}
	}
	if dst.RGBAAt(4, 10).A != 0 || dst.RGBAAt(25, 10).A != 0 {
		t.Error("cover draw wrote outside its rectangle")
	}
}

func TestDrawCoverFractional(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	New().drawCover(dst, solid(3, 3, color.White), mosaic.Rect{X: 2.4, Y: 2.6, W: 5.2, H: 5.2})

	// Pixel centers inside [2.4, 7.6) x [2.6, 7.8) are x 2..7, y 3..7.
	if dst.RGBAAt(2, 3).A != 255 || dst.RGBAAt(7, 7).A != 255 {
		t.Error("expected covered pixels at both corners")
	}
	if dst.RGBAAt(8, 5).A != 0 || dst.RGBAAt(5, 2).A != 0 {
		t.Error("pixels whose centers lie outside the rectangle were written")
	}
}

func TestMultiplyTransparentBackdrop(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 1, 1))
	Multiply(dst, color.NRGBA{R: 200, G: 100, B: 0, A: 255}, 0.5)
	got := dst.RGBAAt(0, 0)
	if got.A != 128 || got.R != 100 || got.G != 50 || got.B != 0 {
		t.Errorf("Multiply over transparent = %v, want premultiplied tint at half alpha", got)
	}
}

func TestDestinationIn(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 2, 1))
	dst.SetRGBA(0, 0, color.RGBA{200, 100, 50, 255})
	dst.SetRGBA(1, 0, color.RGBA{200, 100, 50, 255})
	m := gg.NewMask(2, 1)
	m.Set(0, 0, 255)
	m.Set(1, 0, 128)

	DestinationIn(dst, m)
	if got := dst.RGBAAt(0, 0); got != (color.RGBA{200, 100, 50, 255}) {
		t.Errorf("opaque mask changed pixel: %v", got)
	}
	if got := dst.RGBAAt(1, 0); got.A != 128 || got.R != 100 {
		t.Errorf("half mask = %v, want alpha 128", got)
	}
}

const halfSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect x="0" y="0" width="5" height="10" fill="#000"/></svg>`

func TestRasterizeSVG(t *testing.T) {
	img, err := RasterizeSVG(strings.NewReader(halfSVG), 20, 20)
	if err != nil {
		t.Fatalf("RasterizeSVG() error = %v", err)
	}
	if img.RGBAAt(3, 10).A != 255 {
		t.Error("left half should be filled")
	}
	if img.RGBAAt(16, 10).A != 0 {
		t.Error("right half should be empty")
	}

	if _, err := RasterizeSVG(strings.NewReader(halfSVG), 0, 20); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("zero width: err = %v", err)
	}
}

func TestRenderVectorLogo(t *testing.T) {
	// The raster form is fully opaque; only the vector form carves the
	// right half away.
	logo := &mosaic.Logo{
		Raster: solid(10, 10, color.Black),
		Vector: &mosaic.VectorLogo{
			Markup: `<rect x="0" y="0" width="5" height="10" fill="#000"/>`,
			Width:  10,
			Height: 10,
		},
	}
	tile := &mosaic.Tile{ID: "t", Image: solid(4, 4, color.White)}
	res := render(t, smallParams(), logo, tile)

	if res.Image.RGBAAt(50, 50).A != 255 {
		t.Error("left half should keep the mosaic")
	}
	if res.Image.RGBAAt(450, 50).A != 0 {
		t.Error("right half should be clipped by the vector logo")
	}
	if len(res.Warnings) != 0 {
		t.Errorf("vector logos should not warn about upscaling: %v", res.Warnings)
	}
}
