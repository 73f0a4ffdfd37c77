// Package layout computes where mosaic tiles go.
//
// Two geometries are supported. [Grid] partitions the canvas into uniform
// cells in row-major order. [Scatter] samples over-packed square tiles at
// random sizes and positions. The [Engine] ties geometry to a tile order
// and memoizes scatter samples per [mosaic.Signature], so re-rendering with
// unchanged dimensions never makes the layout jump.
package layout

import (
	"math/rand/v2"

	"github.com/matzehuels/logomosaic/pkg/mosaic"
)

// Scatter sizing: side = tileW × (scatterMinScale + U × scatterScaleRange).
const (
	scatterMinScale   = 0.75
	scatterScaleRange = 0.9
)

// Grid returns the C × R cells of sig in row-major order. Cells are
// ceil(W/C) × ceil(H/R); the last column and row may extend past the canvas.
func Grid(sig mosaic.Signature) []mosaic.Rect {
	tw, th := sig.TileSize()
	cells := make([]mosaic.Rect, 0, sig.Columns*sig.Rows)
	for r := range sig.Rows {
		for c := range sig.Columns {
			cells = append(cells, mosaic.Rect{
				X: float64(c * tw),
				Y: float64(r * th),
				W: float64(tw),
				H: float64(th),
			})
		}
	}
	return cells
}

// Scatter samples floor(C × R × 1.1) square tiles. Every tile lies fully
// inside the canvas; overlap is expected.
func Scatter(sig mosaic.Signature, rng *rand.Rand) []mosaic.Rect {
	tw, _ := sig.TileSize()
	n := mosaic.ScatterCount(sig.Columns, sig.Rows)
	w, h := float64(sig.Width), float64(sig.Height)

	rects := make([]mosaic.Rect, n)
	for i := range rects {
		side := float64(tw) * (scatterMinScale + rng.Float64()*scatterScaleRange)
		rects[i] = mosaic.Rect{
			X: rng.Float64() * max(0, w-side),
			Y: rng.Float64() * max(0, h-side),
			W: side,
			H: side,
		}
	}
	return rects
}

// Shuffle returns a uniformly permuted copy of tiles (Fisher–Yates).
func Shuffle(tiles []*mosaic.Tile, rng *rand.Rand) []*mosaic.Tile {
	out := make([]*mosaic.Tile, len(tiles))
	copy(out, tiles)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Assign pairs each rectangle with a tile, cycling through order with
// wraparound. It returns nil when order is empty.
func Assign(geom []mosaic.Rect, order []*mosaic.Tile) []mosaic.PlacedTile {
	if len(order) == 0 {
		return nil
	}
	placed := make([]mosaic.PlacedTile, len(geom))
	for k, r := range geom {
		placed[k] = mosaic.PlacedTile{Rect: r, Tile: order[k%len(order)]}
	}
	return placed
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// scatterSeed mixes the signature into seed so that each distinct
// signature gets its own reproducible geometry.
func scatterSeed(seed uint64, sig mosaic.Signature) uint64 {
	s := seed
	for _, v := range []int{sig.Columns, sig.Rows, sig.Width, sig.Height} {
		s = s*0x100000001b3 ^ uint64(v)
	}
	return s
}
