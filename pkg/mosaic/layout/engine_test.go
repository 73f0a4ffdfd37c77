package layout

import (
	"slices"
	"testing"

	"github.com/matzehuels/logomosaic/pkg/mosaic"
)

func scatterParams() mosaic.Params {
	p := mosaic.DefaultParams()
	p.Layout = mosaic.LayoutScatter
	p.CanvasWidth, p.CanvasHeight = 1000, 1000
	p.Columns, p.Rows = 10, 10
	return p
}

func TestEngineScatterReproducible(t *testing.T) {
	e := NewEngine()
	p := scatterParams()

	first := slices.Clone(e.Geometry(p))

	// Toggling non-geometry parameters must not move tiles.
	p.TintPercent = 40
	p.LogoMode = mosaic.LogoOverlay
	p.Shuffle = true
	second := e.Geometry(p)

	if !slices.Equal(first, second) {
		t.Error("geometry changed without a signature change")
	}
}

func TestEngineScatterRegenerates(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*mosaic.Params)
	}{
		{"columns", func(p *mosaic.Params) { p.Columns = 11 }},
		{"rows", func(p *mosaic.Params) { p.Rows = 12 }},
		{"width", func(p *mosaic.Params) { p.CanvasWidth = 1200 }},
		{"height", func(p *mosaic.Params) { p.CanvasHeight = 900 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine()
			p := scatterParams()
			before := slices.Clone(e.Geometry(p))
			tt.modify(&p)
			after := e.Geometry(p)
			if slices.Equal(before[:10], after[:10]) {
				t.Error("geometry was not resampled after a signature change")
			}
			if len(after) != mosaic.ScatterCount(p.Columns, p.Rows) {
				t.Errorf("len = %d, want %d", len(after), mosaic.ScatterCount(p.Columns, p.Rows))
			}
		})
	}
}

func TestEngineScatterRegeneratesOnReturn(t *testing.T) {
	e := NewEngine()
	a := scatterParams()
	b := a
	b.Columns = a.Columns + 1

	first := slices.Clone(e.Geometry(a))
	e.Geometry(b)
	again := e.Geometry(a)
	if slices.Equal(first, again) {
		t.Error("returning to an earlier signature reused its old geometry")
	}
}

func TestEngineFixedSeedPerSignature(t *testing.T) {
	e := NewEngine()
	a := scatterParams()
	a.Seed = 99
	b := a
	b.Rows = a.Rows + 1

	first := slices.Clone(e.Geometry(a))
	e.Geometry(b)
	if again := e.Geometry(a); !slices.Equal(first, again) {
		t.Error("a fixed seed should reproduce the geometry of each signature")
	}
}

func TestEngineFixedSeed(t *testing.T) {
	p := scatterParams()
	p.Seed = 1234

	a := NewEngine().Geometry(p)
	b := NewEngine().Geometry(p)
	if !slices.Equal(a, b) {
		t.Error("fixed seed should reproduce geometry across engines")
	}
}

func TestEngineRestore(t *testing.T) {
	p := scatterParams()
	saved := slices.Clone(NewEngine().Geometry(p))

	e := NewEngine()
	e.Restore(p.Signature(), saved)
	if got := e.Geometry(p); !slices.Equal(got, saved) {
		t.Error("restored geometry was not reused")
	}

	p.Shuffle, p.ScatterShuffle = true, true
	e.Place(p, testTiles(5))
	if got := e.Geometry(p); !slices.Equal(got, saved) {
		t.Error("shuffling discarded restored geometry")
	}

	e.Invalidate()
	if got := e.Geometry(p); slices.Equal(got, saved) {
		t.Error("Invalidate() should force resampling")
	}
}

func TestEnginePlace(t *testing.T) {
	tiles := testTiles(7)
	e := NewEngine()

	p := mosaic.DefaultParams()
	rec := e.Place(p, tiles)
	if rec.Len() != 3600 {
		t.Fatalf("Len() = %d, want 3600", rec.Len())
	}
	if rec.Scatter != nil {
		t.Error("grid records should not carry scatter geometry")
	}
	for k, id := range rec.Order {
		if id != tiles.At(k%7).ID {
			t.Fatalf("unshuffled order[%d] = %s, want %s", k, id, tiles.At(k%7).ID)
		}
	}
	if !rec.Matches(p) {
		t.Error("record should match its params")
	}

	p.Shuffle = true
	shuffledOnce := e.Place(p, tiles).Order
	shuffledTwice := e.Place(p, tiles).Order
	if slices.Equal(shuffledOnce[:7], shuffledTwice[:7]) && slices.Equal(shuffledOnce[:7], rec.Order[:7]) {
		t.Error("shuffle produced load order twice")
	}

	sp := scatterParams()
	sp.Shuffle = true
	srec := e.Place(sp, tiles)
	if len(srec.Scatter) != 110 {
		t.Errorf("scatter len = %d, want 110", len(srec.Scatter))
	}
	for k, id := range srec.Order {
		if id != tiles.At(k%7).ID {
			t.Fatalf("scatter order[%d] = %s; shuffle should not apply to scatter by default", k, id)
		}
	}
}

func TestEngineReplay(t *testing.T) {
	tiles := testTiles(4)
	e := NewEngine()
	p := mosaic.DefaultParams()
	p.Shuffle = true

	rec := e.Place(p, tiles)
	replayed := e.Replay(p, tiles, rec.Order)
	if !slices.Equal(rec.Order, replayed.Order) {
		t.Error("Replay() did not reproduce the recorded order")
	}

	fallback := e.Replay(p, tiles, []string{"missing"})
	if fallback.Order[0] != tiles.At(0).ID {
		t.Error("unresolvable order should fall back to load order")
	}
}
