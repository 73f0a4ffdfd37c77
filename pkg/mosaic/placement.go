package mosaic

// PlacedTile is one tile drawn at a position. Tile is a reference into the
// session's [TileSet], never a copy.
type PlacedTile struct {
	Rect
	Tile *Tile
}

// PlacementRecord is the geometry and tile order of the most recent raster
// render. The SVG export and the hit-test index read it instead of
// recomputing, so everything downstream agrees with what was last painted.
type PlacementRecord struct {
	Mode      LayoutMode
	Signature Signature

	// Tiles lists placements in paint order (later entries occlude earlier).
	Tiles []PlacedTile

	// Order is the tile ID assigned to each placement, in paint order.
	Order []string

	// Scatter is the raw scatter geometry; nil for grid layouts.
	Scatter []Rect
}

// NewPlacementRecord assembles a record and derives its tile order.
func NewPlacementRecord(mode LayoutMode, sig Signature, placed []PlacedTile) *PlacementRecord {
	r := &PlacementRecord{
		Mode:      mode,
		Signature: sig,
		Tiles:     placed,
		Order:     make([]string, len(placed)),
	}
	for i, p := range placed {
		r.Order[i] = p.Tile.ID
	}
	if mode == LayoutScatter {
		r.Scatter = make([]Rect, len(placed))
		for i, p := range placed {
			r.Scatter[i] = p.Rect
		}
	}
	return r
}

// Len returns the number of placements. A nil record is empty.
func (r *PlacementRecord) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Tiles)
}

// Matches reports whether the record was produced for the same layout mode
// and signature as p.
func (r *PlacementRecord) Matches(p Params) bool {
	return r != nil && r.Mode == p.Layout && r.Signature == p.Signature()
}
