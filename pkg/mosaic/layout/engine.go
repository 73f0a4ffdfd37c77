package layout

import (
	"math/rand/v2"
	"sync"

	"github.com/matzehuels/logomosaic/pkg/mosaic"
)

// Engine produces placement records and remembers the scatter geometry for
// the most recent signature.
//
// With a fixed [mosaic.Params.Seed], geometry and shuffle sequences are
// reproducible across processes. With a zero seed every regeneration
// samples fresh geometry, so returning to an earlier signature does not
// bring back its old layout.
//
// Engine is safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	seed    uint64
	seeded  bool
	shuffle *rand.Rand

	memoSig mosaic.Signature
	memo    []mosaic.Rect
}

// NewEngine returns an engine with no memoized geometry.
func NewEngine() *Engine {
	return &Engine{}
}

// Geometry returns the placement rectangles for p. Grid geometry is computed
// directly. Scatter geometry is reused verbatim while p's signature matches
// the memo and resampled when it differs.
func (e *Engine) Geometry(p mosaic.Params) []mosaic.Rect {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.geometry(p)
}

func (e *Engine) geometry(p mosaic.Params) []mosaic.Rect {
	sig := p.Signature()
	if p.Layout != mosaic.LayoutScatter {
		return Grid(sig)
	}
	if e.memo == nil || e.memoSig != sig {
		e.reseed(p.Seed)
		seed := rand.Uint64()
		if p.Seed != 0 {
			seed = scatterSeed(p.Seed, sig)
		}
		e.memo = Scatter(sig, newRand(seed))
		e.memoSig = sig
	}
	return e.memo
}

// Place computes a fresh placement for p. When p shuffles for its layout,
// the tile order is permuted anew on every call; otherwise tiles cycle in
// load order.
func (e *Engine) Place(p mosaic.Params, tiles *mosaic.TileSet) *mosaic.PlacementRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	geom := e.geometry(p)
	order := tiles.Tiles()
	if p.ShuffleFor() {
		e.reseed(p.Seed)
		order = Shuffle(order, e.shuffle)
	}
	return mosaic.NewPlacementRecord(p.Layout, p.Signature(), Assign(geom, order))
}

// Replay places tiles over p's geometry using a previously recorded tile
// order. IDs that no longer resolve are skipped; if none resolve, load
// order is used.
func (e *Engine) Replay(p mosaic.Params, tiles *mosaic.TileSet, ids []string) *mosaic.PlacementRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	geom := e.geometry(p)
	order := ResolveOrder(tiles, ids)
	return mosaic.NewPlacementRecord(p.Layout, p.Signature(), Assign(geom, order))
}

// Restore installs previously sampled scatter geometry for sig. The next
// scatter request with the same signature reuses it.
func (e *Engine) Restore(sig mosaic.Signature, rects []mosaic.Rect) {
	if len(rects) == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.memoSig = sig
	e.memo = append([]mosaic.Rect(nil), rects...)
}

// Invalidate drops memoized scatter geometry.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.memo = nil
}

// reseed resets the random streams when seed differs from the current one.
// Memoized geometry survives; only a signature change discards it.
// Must be called with e.mu held.
func (e *Engine) reseed(seed uint64) {
	if e.seeded && (seed == 0 || seed == e.seed) {
		return
	}
	if seed == 0 {
		seed = rand.Uint64() | 1
	}
	e.seed = seed
	e.seeded = true
	e.shuffle = newRand(seed)
}

// ResolveOrder maps tile IDs back to tiles in tiles. Unknown IDs are
// skipped. An empty result falls back to load order.
func ResolveOrder(tiles *mosaic.TileSet, ids []string) []*mosaic.Tile {
	order := make([]*mosaic.Tile, 0, len(ids))
	for _, id := range ids {
		if t, ok := tiles.ByID(id); ok {
			order = append(order, t)
		}
	}
	if len(order) == 0 {
		return tiles.Tiles()
	}
	return order
}
