package mosaic

import (
	"image"
	"image/color"
	"testing"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
)

func TestNormalizeClamps(t *testing.T) {
	p := Params{
		CanvasWidth:  100,
		CanvasHeight: 9000,
		Columns:      3,
		Rows:         1000,
		TintPercent:  150,
		OverlayAlpha: -4,
	}
	p.Normalize()

	if p.CanvasWidth != MinCanvas || p.CanvasHeight != MaxCanvas {
		t.Errorf("canvas = %dx%d, want %dx%d", p.CanvasWidth, p.CanvasHeight, MinCanvas, MaxCanvas)
	}
	if p.Columns != MinCells || p.Rows != MaxCells {
		t.Errorf("cells = %dx%d, want %dx%d", p.Columns, p.Rows, MinCells, MaxCells)
	}
	if p.TintPercent != 100 || p.OverlayAlpha != 0 {
		t.Errorf("tint/overlay = %d/%d, want 100/0", p.TintPercent, p.OverlayAlpha)
	}
	if p.Layout != LayoutGrid || p.LogoMode != LogoMask || p.TintColor != DefaultTintColor {
		t.Errorf("defaults not applied: %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() after Normalize() = %v", err)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	p := DefaultParams()
	p.Layout = LayoutScatter
	p.Normalize()
	q := p
	q.Normalize()
	if p != q {
		t.Errorf("Normalize() not idempotent: %+v vs %+v", p, q)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Params)
		code   errs.Code
	}{
		{"defaults", func(p *Params) {}, ""},
		{"scatter overlay", func(p *Params) { p.Layout = LayoutScatter; p.LogoMode = LogoOverlay }, ""},
		{"bad layout", func(p *Params) { p.Layout = "spiral" }, errs.ErrCodeInvalidParams},
		{"bad logo mode", func(p *Params) { p.LogoMode = "stencil" }, errs.ErrCodeInvalidParams},
		{"bad color", func(p *Params) { p.TintColor = "grey" }, errs.ErrCodeInvalidColor},
		{"columns too high", func(p *Params) { p.Columns = 401 }, errs.ErrCodeInvalidParams},
		{"canvas too small", func(p *Params) { p.CanvasWidth = 511 }, errs.ErrCodeInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			err := p.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errs.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestTileSize(t *testing.T) {
	p := DefaultParams()
	w, h := p.TileSize()
	if w != 26 || h != 26 {
		t.Errorf("TileSize() = %dx%d, want 26x26", w, h)
	}

	p.CanvasWidth, p.Columns = 1000, 10
	p.CanvasHeight, p.Rows = 1001, 10
	w, h = p.TileSize()
	if w != 100 || h != 101 {
		t.Errorf("TileSize() = %dx%d, want 100x101", w, h)
	}
}

func TestScatterCount(t *testing.T) {
	tests := []struct{ c, r, want int }{
		{10, 10, 110},
		{60, 60, 3960},
		{11, 13, 157}, // floor(143 * 1.1) = floor(157.3)
		{400, 400, 176000},
	}
	for _, tt := range tests {
		if got := ScatterCount(tt.c, tt.r); got != tt.want {
			t.Errorf("ScatterCount(%d, %d) = %d, want %d", tt.c, tt.r, got, tt.want)
		}
	}
}

func TestShuffleFor(t *testing.T) {
	p := DefaultParams()
	p.Shuffle = true
	if !p.ShuffleFor() {
		t.Error("grid with shuffle should shuffle")
	}
	p.Layout = LayoutScatter
	if p.ShuffleFor() {
		t.Error("scatter ignores shuffle unless ScatterShuffle is set")
	}
	p.ScatterShuffle = true
	if !p.ShuffleFor() {
		t.Error("scatter with ScatterShuffle should shuffle")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#dddddd", color.NRGBA{0xdd, 0xdd, 0xdd, 0xff}},
		{"#ff8000", color.NRGBA{0xff, 0x80, 0x00, 0xff}},
		{"#0f0", color.NRGBA{0x00, 0xff, 0x00, 0xff}},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if err != nil {
			t.Fatalf("ParseHexColor(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseHexColor("#12"); err == nil {
		t.Error("ParseHexColor(#12) should fail")
	}
}

func TestPreset(t *testing.T) {
	for _, name := range PresetNames() {
		w, h, ok := Preset(name)
		if !ok || w < MinCanvas || h < MinCanvas || w > MaxCanvas || h > MaxCanvas {
			t.Errorf("Preset(%q) = %d, %d, %v", name, w, h, ok)
		}
	}
	if w, h, _ := Preset("a3p"); w != 3508 || h != 4961 {
		t.Errorf("a3p = %dx%d", w, h)
	}
	if _, _, ok := Preset("letter"); ok {
		t.Error("unknown preset should not resolve")
	}
}

func TestQualityWarnings(t *testing.T) {
	smallLogo := &Logo{Raster: image.NewNRGBA(image.Rect(0, 0, 100, 100))}
	bigLogo := &Logo{Raster: image.NewNRGBA(image.Rect(0, 0, 2000, 2000))}

	p := DefaultParams()
	if got := QualityWarnings(p, bigLogo); len(got) != 0 {
		t.Errorf("QualityWarnings(defaults) = %v, want none", got)
	}

	got := QualityWarnings(p, smallLogo)
	if !hasWarning(got, WarnLogoUpscaled) {
		t.Errorf("expected %s, got %v", WarnLogoUpscaled, got)
	}

	p.CanvasWidth, p.Columns = 1000, 100
	if got := QualityWarnings(p, bigLogo); !hasWarning(got, WarnSmallTiles) {
		t.Errorf("expected %s, got %v", WarnSmallTiles, got)
	}

	p = DefaultParams()
	p.CanvasWidth, p.CanvasHeight = 8000, 8000
	p.Columns, p.Rows = 400, 400
	if got := QualityWarnings(p, nil); !hasWarning(got, WarnManyTiles) {
		t.Errorf("expected %s, got %v", WarnManyTiles, got)
	}
}

func hasWarning(ws []Warning, code WarningCode) bool {
	for _, w := range ws {
		if w.Code == code {
			return true
		}
	}
	return false
}
