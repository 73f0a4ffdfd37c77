package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/mosaic"
)

// paramFlags binds the render parameters to command flags. Only flags the
// user set override the config file.
type paramFlags struct {
	width, height  int
	preset         string
	columns, rows  int
	layout         string
	shuffle        bool
	scatterShuffle bool
	tint           int
	tintColor      string
	logoMode       string
	overlayAlpha   int
	seed           uint64
}

func addParamFlags(fs *pflag.FlagSet) *paramFlags {
	f := &paramFlags{}
	d := mosaic.DefaultParams()
	fs.IntVar(&f.width, "width", d.CanvasWidth, "canvas width in pixels")
	fs.IntVar(&f.height, "height", d.CanvasHeight, "canvas height in pixels")
	fs.StringVar(&f.preset, "preset", "", "canvas preset: "+strings.Join(mosaic.PresetNames(), ", "))
	fs.IntVar(&f.columns, "columns", d.Columns, "grid columns")
	fs.IntVar(&f.rows, "rows", d.Rows, "grid rows")
	fs.StringVar(&f.layout, "layout", string(d.Layout), "tile layout: grid, scatter")
	fs.BoolVar(&f.shuffle, "shuffle", false, "shuffle tile order")
	fs.BoolVar(&f.scatterShuffle, "scatter-shuffle", false, "apply --shuffle to scatter layouts")
	fs.IntVar(&f.tint, "tint", 0, "tint strength in percent")
	fs.StringVar(&f.tintColor, "tint-color", d.TintColor, "tint color (#rrggbb)")
	fs.StringVar(&f.logoMode, "logo-mode", string(d.LogoMode), "logo mode: mask, overlay")
	fs.IntVar(&f.overlayAlpha, "overlay-alpha", d.OverlayAlpha, "overlay opacity in percent")
	fs.Uint64Var(&f.seed, "seed", 0, "random seed for scatter and shuffle (0 picks one)")
	return f
}

// apply overlays the changed flags onto p. A preset sets the canvas size;
// explicit --width and --height still win.
func (f *paramFlags) apply(cmd *cobra.Command, p *mosaic.Params) error {
	changed := cmd.Flags().Changed

	if changed("preset") {
		w, h, ok := mosaic.Preset(f.preset)
		if !ok {
			return errs.New(errs.ErrCodeInvalidParams, "unknown preset %q (must be one of: %s)", f.preset, strings.Join(mosaic.PresetNames(), ", "))
		}
		p.CanvasWidth, p.CanvasHeight = w, h
	}
	if changed("width") {
		p.CanvasWidth = f.width
	}
	if changed("height") {
		p.CanvasHeight = f.height
	}
	if changed("columns") {
		p.Columns = f.columns
	}
	if changed("rows") {
		p.Rows = f.rows
	}
	if changed("layout") {
		p.Layout = mosaic.LayoutMode(f.layout)
	}
	if changed("shuffle") {
		p.Shuffle = f.shuffle
	}
	if changed("scatter-shuffle") {
		p.ScatterShuffle = f.scatterShuffle
	}
	if changed("tint") {
		p.TintPercent = f.tint
	}
	if changed("tint-color") {
		p.TintColor = f.tintColor
	}
	if changed("logo-mode") {
		p.LogoMode = mosaic.LogoMode(f.logoMode)
	}
	if changed("overlay-alpha") {
		p.OverlayAlpha = f.overlayAlpha
	}
	if changed("seed") {
		p.Seed = f.seed
	}
	return nil
}

// outputFlags are shared by render and export.
type outputFlags struct {
	output  string
	formats string
	quality int
	maxSide int
	noCache bool
	refresh bool
}

func addOutputFlags(fs *pflag.FlagSet, o *outputFlags) {
	fs.StringVarP(&o.output, "output", "o", "", "output file (single format) or base path (multiple)")
	fs.StringVarP(&o.formats, "format", "f", "", "output format(s): png (default), jpeg, svg, json (comma-separated)")
	fs.IntVar(&o.quality, "quality", 0, "JPEG quality (1-100, default 92)")
	fs.IntVar(&o.maxSide, "max-side", 0, "downscale raster output so neither side exceeds this")
	fs.BoolVar(&o.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&o.refresh, "refresh", false, "ignore cached exports")
}
