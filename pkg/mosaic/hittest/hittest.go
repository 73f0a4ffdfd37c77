// Package hittest resolves canvas points to the tile painted there.
//
// An [Index] answers queries against the most recent render: it scans the
// placement record back to front, so the last-drawn tile wins where
// scatter tiles overlap. In mask mode the logo silhouette gates the lookup;
// points outside the logo never hit, even if a tile rectangle covers them.
//
// A [Coalescer] throttles pointer-driven queries to one per frame.
package hittest

import (
	"github.com/gogpu/gg"

	"github.com/matzehuels/logomosaic/pkg/mosaic"
)

// Index answers point queries for one render. It is immutable and safe for
// concurrent use.
type Index struct {
	tiles  []mosaic.PlacedTile
	mask   *gg.Mask
	mode   mosaic.LogoMode
	width  int
	height int
}

// New builds an index over rec. mask is the silhouette produced by the same
// render; it is consulted only in mask mode.
func New(rec *mosaic.PlacementRecord, mask *gg.Mask, mode mosaic.LogoMode) *Index {
	idx := &Index{mask: mask, mode: mode}
	if rec != nil {
		idx.tiles = rec.Tiles
		idx.width, idx.height = rec.Signature.Width, rec.Signature.Height
	}
	return idx
}

// At returns the topmost tile containing (x, y).
//
// Points outside the canvas are a miss. In mask mode a zero silhouette
// alpha is a miss; a missing or undersized mask is treated as opaque so
// inspection keeps working before the first mask sync.
func (idx *Index) At(x, y float64) (mosaic.PlacedTile, bool) {
	if idx == nil || len(idx.tiles) == 0 {
		return mosaic.PlacedTile{}, false
	}
	if x < 0 || y < 0 || x >= float64(idx.width) || y >= float64(idx.height) {
		return mosaic.PlacedTile{}, false
	}
	if idx.mode == mosaic.LogoMask && !idx.opaque(int(x), int(y)) {
		return mosaic.PlacedTile{}, false
	}
	for i := len(idx.tiles) - 1; i >= 0; i-- {
		if idx.tiles[i].Contains(x, y) {
			return idx.tiles[i], true
		}
	}
	return mosaic.PlacedTile{}, false
}

// InsideLogo reports whether the silhouette is non-transparent at (x, y).
// Without a usable mask it reports true.
func (idx *Index) InsideLogo(x, y float64) bool {
	if idx == nil || x < 0 || y < 0 {
		return false
	}
	return idx.opaque(int(x), int(y))
}

func (idx *Index) opaque(px, py int) bool {
	m := idx.mask
	if m == nil || m.Width() < idx.width || m.Height() < idx.height {
		return true
	}
	return m.At(px, py) > 0
}

// Len returns the number of indexed placements.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.tiles)
}
