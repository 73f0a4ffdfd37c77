package mosaic

import "fmt"

// WarningCode identifies a non-fatal quality advisory.
type WarningCode string

// Quality warning codes.
const (
	WarnLogoUpscaled WarningCode = "logo_upscaled"
	WarnSmallTiles   WarningCode = "small_tiles"
	WarnManyTiles    WarningCode = "many_tiles"
)

// Warning is an advisory about output quality or cost. Rendering always
// proceeds when warnings are present.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
	Value   float64     `json:"value"`
}

func (w Warning) String() string { return w.Message }

// QualityWarnings reports the advisories for rendering logo with p. Nil
// and vector logos skip the upscale check.
func QualityWarnings(p Params, logo *Logo) []Warning {
	var out []Warning

	if logo != nil && logo.Raster != nil && logo.Vector == nil {
		box := logo.Fit(p.CanvasWidth, p.CanvasHeight)
		rw, rh := logo.RasterSize()
		if rw > 0 && rh > 0 {
			scale := max(box.W/float64(rw), box.H/float64(rh))
			if scale > UpscaleWarnThreshold {
				out = append(out, Warning{
					Code:    WarnLogoUpscaled,
					Message: fmt.Sprintf("logo upscaled %.2fx; prefer a larger PNG or an SVG", scale),
					Value:   scale,
				})
			}
		}
	}

	tw, th := p.TileSize()
	if side := min(tw, th); side < MinSharpTileSize {
		out = append(out, Warning{
			Code:    WarnSmallTiles,
			Message: fmt.Sprintf("tiles are %dpx; below %dpx they lose detail", side, MinSharpTileSize),
			Value:   float64(side),
		})
	}

	if n := p.PlacementCount(); n > MaxComfortableTiles {
		out = append(out, Warning{
			Code:    WarnManyTiles,
			Message: fmt.Sprintf("%d tiles will be slow to render and export", n),
			Value:   float64(n),
		})
	}
	return out
}
