// Package sink provides output format renderers for mosaics.
//
// # Overview
//
// A "sink" turns a finished render into bytes. Every sink reads the
// [mosaic.PlacementRecord] of the most recent raster render instead of
// recomputing geometry, so all formats agree with what was last shown.
//
//   - SVG: a standalone vector document that embeds each tile's
//     pre-encoded snapshot
//   - PNG / JPEG: the raster result, encoded with disintegration/imaging
//   - JSON: the placement record, for inspection and round-tripping
//
// # SVG Output
//
// [RenderSVG] mirrors the raster logo modes declaratively. Vector logos
// become a clip path ("logoClip") transformed onto the fitted box; raster
// logos become a luminance mask ("logoMask") referencing an embedded PNG.
// In overlay mode the logo is drawn after the tiles at reduced opacity.
//
//	svg, err := sink.RenderSVG(params, logo, record)
//
// Output is deterministic: the same record yields byte-identical documents.
// Grid coordinates are written as integers and scatter coordinates with two
// decimals.
//
// # JSON Output
//
// [RenderJSON] writes the record with its parameters and tile order.
// [ParseJSON] reads it back so a later process can replay the exact layout.
package sink
