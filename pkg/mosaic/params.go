package mosaic

import (
	"image/color"
	"math"
	"strconv"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
)

// LayoutMode selects how tiles are placed on the canvas.
type LayoutMode string

// Layout modes.
const (
	LayoutGrid    LayoutMode = "grid"
	LayoutScatter LayoutMode = "scatter"
)

// LogoMode selects how the logo shapes the mosaic.
type LogoMode string

// Logo modes.
const (
	LogoMask    LogoMode = "mask"
	LogoOverlay LogoMode = "overlay"
)

// =============================================================================
// Default Values and Limits
// =============================================================================

const (
	MinCanvas = 512
	MaxCanvas = 8000
	MinCells  = 10
	MaxCells  = 400

	DefaultCanvas       = 1536
	DefaultCells        = 60
	DefaultTintColor    = "#dddddd"
	DefaultOverlayAlpha = 35

	// ScatterDensity over-packs scatter layouts so no canvas gaps show
	// through the mask.
	ScatterDensity = 1.1

	// UpscaleWarnThreshold is the logo magnification above which a quality
	// warning is reported.
	UpscaleWarnThreshold = 1.25

	// MinSharpTileSize is the tile side, in pixels, below which tiles lose
	// legibility.
	MinSharpTileSize = 16

	// MaxComfortableTiles is the placement count above which rendering is
	// reported as slow.
	MaxComfortableTiles = 120000
)

// presets maps preset names to canvas sizes.
var presets = map[string][2]int{
	"square4k": {4096, 4096},
	"a3p":      {3508, 4961},
	"a3l":      {4961, 3508},
}

// Preset returns the canvas size for a named preset.
func Preset(name string) (w, h int, ok bool) {
	p, ok := presets[name]
	return p[0], p[1], ok
}

// PresetNames lists the known presets.
func PresetNames() []string {
	return []string{"square4k", "a3p", "a3l"}
}

// =============================================================================
// Params
// =============================================================================

// Params is the complete render configuration. Field tags allow loading it
// from a TOML config file and exchanging it as JSON with the preview server.
type Params struct {
	CanvasWidth  int        `toml:"canvas_width" json:"canvas_width"`
	CanvasHeight int        `toml:"canvas_height" json:"canvas_height"`
	Columns      int        `toml:"columns" json:"columns"`
	Rows         int        `toml:"rows" json:"rows"`
	Layout       LayoutMode `toml:"layout" json:"layout"`
	Shuffle      bool       `toml:"shuffle" json:"shuffle"`
	TintPercent  int        `toml:"tint_percent" json:"tint_percent"`
	TintColor    string     `toml:"tint_color" json:"tint_color"`
	LogoMode     LogoMode   `toml:"logo_mode" json:"logo_mode"`
	OverlayAlpha int        `toml:"overlay_alpha" json:"overlay_alpha"`

	// ScatterShuffle applies the shuffle flag to scatter layouts too. When
	// false, scatter tiles cycle through the collection in load order.
	ScatterShuffle bool `toml:"scatter_shuffle" json:"scatter_shuffle,omitempty"`

	// Seed seeds scatter geometry and shuffling. Zero picks a fresh seed.
	Seed uint64 `toml:"seed" json:"seed,omitempty"`
}

// DefaultParams returns the defaults used when nothing is configured.
func DefaultParams() Params {
	return Params{
		CanvasWidth:  DefaultCanvas,
		CanvasHeight: DefaultCanvas,
		Columns:      DefaultCells,
		Rows:         DefaultCells,
		Layout:       LayoutGrid,
		TintColor:    DefaultTintColor,
		LogoMode:     LogoMask,
		OverlayAlpha: DefaultOverlayAlpha,
	}
}

// Normalize fills zero values with defaults and clamps numeric fields into
// their accepted ranges. It is idempotent.
func (p *Params) Normalize() {
	d := DefaultParams()
	if p.CanvasWidth == 0 {
		p.CanvasWidth = d.CanvasWidth
	}
	if p.CanvasHeight == 0 {
		p.CanvasHeight = d.CanvasHeight
	}
	if p.Columns == 0 {
		p.Columns = d.Columns
	}
	if p.Rows == 0 {
		p.Rows = d.Rows
	}
	if p.Layout == "" {
		p.Layout = d.Layout
	}
	if p.LogoMode == "" {
		p.LogoMode = d.LogoMode
	}
	if p.TintColor == "" {
		p.TintColor = d.TintColor
	}
	p.CanvasWidth = clamp(p.CanvasWidth, MinCanvas, MaxCanvas)
	p.CanvasHeight = clamp(p.CanvasHeight, MinCanvas, MaxCanvas)
	p.Columns = ClampCells(p.Columns)
	p.Rows = ClampCells(p.Rows)
	p.TintPercent = clamp(p.TintPercent, 0, 100)
	p.OverlayAlpha = clamp(p.OverlayAlpha, 0, 100)
}

// Validate rejects unknown modes and malformed colors. Numeric ranges are
// checked too, so call [Params.Normalize] first for lenient input.
func (p Params) Validate() error {
	if err := errs.ValidateRange("canvas_width", p.CanvasWidth, MinCanvas, MaxCanvas); err != nil {
		return err
	}
	if err := errs.ValidateRange("canvas_height", p.CanvasHeight, MinCanvas, MaxCanvas); err != nil {
		return err
	}
	if err := errs.ValidateRange("columns", p.Columns, MinCells, MaxCells); err != nil {
		return err
	}
	if err := errs.ValidateRange("rows", p.Rows, MinCells, MaxCells); err != nil {
		return err
	}
	if err := errs.ValidateRange("tint_percent", p.TintPercent, 0, 100); err != nil {
		return err
	}
	if err := errs.ValidateRange("overlay_alpha", p.OverlayAlpha, 0, 100); err != nil {
		return err
	}
	if err := errs.ValidateOneOf("layout", string(p.Layout), string(LayoutGrid), string(LayoutScatter)); err != nil {
		return err
	}
	if err := errs.ValidateOneOf("logo_mode", string(p.LogoMode), string(LogoMask), string(LogoOverlay)); err != nil {
		return err
	}
	return errs.ValidateHexColor(p.TintColor)
}

// TileSize returns the base tile size: ceil(W/C) × ceil(H/R).
func (p Params) TileSize() (w, h int) {
	return p.Signature().TileSize()
}

// Signature returns the parameters that determine scatter geometry.
func (p Params) Signature() Signature {
	return Signature{Columns: p.Columns, Rows: p.Rows, Width: p.CanvasWidth, Height: p.CanvasHeight}
}

// ShuffleFor reports whether the tile order is shuffled for the current
// layout mode.
func (p Params) ShuffleFor() bool {
	if p.Layout == LayoutScatter {
		return p.Shuffle && p.ScatterShuffle
	}
	return p.Shuffle
}

// PlacementCount returns how many tiles the layout will place.
func (p Params) PlacementCount() int {
	if p.Layout == LayoutScatter {
		return ScatterCount(p.Columns, p.Rows)
	}
	return p.Columns * p.Rows
}

// Tint returns the parsed tint color. Malformed colors yield the default.
func (p Params) Tint() color.NRGBA {
	c, err := ParseHexColor(p.TintColor)
	if err != nil {
		c, _ = ParseHexColor(DefaultTintColor)
	}
	return c
}

// Signature identifies a scatter geometry. Geometry is reused while the
// signature is unchanged and resampled as soon as any field differs.
type Signature struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
	Width   int `json:"width"`
	Height  int `json:"height"`
}

// TileSize returns the grid cell size for the signature.
func (s Signature) TileSize() (w, h int) {
	return ceilDiv(s.Width, s.Columns), ceilDiv(s.Height, s.Rows)
}

// ScatterCount returns floor(C × R × 1.1).
func ScatterCount(columns, rows int) int {
	return int(math.Floor(float64(columns*rows) * ScatterDensity))
}

// ClampCells bounds a column or row count to [10, 400].
func ClampCells(n int) int { return clamp(n, MinCells, MaxCells) }

// ParseHexColor parses "#rrggbb" or "#rgb" into an opaque color.
func ParseHexColor(s string) (color.NRGBA, error) {
	if err := errs.ValidateHexColor(s); err != nil {
		return color.NRGBA{}, err
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, errs.Wrap(errs.ErrCodeInvalidColor, err, "parse color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
