// Package mosaic defines the shared vocabulary of the logo mosaic renderer.
//
// # Overview
//
// A mosaic tiles a canvas with many small images ([Tile]) and shapes the
// result with a logo ([Logo]): in mask mode only the part of the mosaic
// inside the logo silhouette stays visible, in overlay mode the logo is
// painted over the full mosaic at partial opacity.
//
// Two independent renderers consume the same placement:
//
//   - [raster] paints pixels into an offscreen buffer
//   - [sink] serializes an equivalent SVG document
//
// Both read a [PlacementRecord] produced by the [layout] engine so that a
// PNG and an SVG exported from the same state show the same tiles at the same
// positions. Both fit the logo with [FitBox], so the clip region cannot drift
// between them.
//
// # Parameters
//
// [Params] holds the user-facing render configuration. [Params.Normalize]
// clamps every numeric field into its accepted range and fills defaults;
// [Params.Validate] rejects unknown modes and malformed colors.
//
//	p := mosaic.DefaultParams()
//	p.Layout = mosaic.LayoutScatter
//	p.Normalize()
//	if err := p.Validate(); err != nil {
//	    return err
//	}
//
// [layout]: github.com/matzehuels/logomosaic/pkg/mosaic/layout
// [raster]: github.com/matzehuels/logomosaic/pkg/mosaic/raster
// [sink]: github.com/matzehuels/logomosaic/pkg/mosaic/sink
package mosaic
