package layout

import (
	"image"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/logomosaic/pkg/mosaic"
)

func testTiles(n int) *mosaic.TileSet {
	tiles := make([]*mosaic.Tile, n)
	for i := range tiles {
		tiles[i] = &mosaic.Tile{
			ID:    string(rune('a'+i%26)) + string(rune('A'+i/26)),
			Image: image.NewNRGBA(image.Rect(0, 0, 8, 8)),
		}
	}
	return mosaic.NewTileSet(tiles)
}

func TestGridExample(t *testing.T) {
	cells := Grid(mosaic.Signature{Columns: 60, Rows: 60, Width: 1536, Height: 1536})
	if len(cells) != 3600 {
		t.Fatalf("len = %d, want 3600", len(cells))
	}
	if want := (mosaic.Rect{X: 0, Y: 0, W: 26, H: 26}); cells[0] != want {
		t.Errorf("cells[0] = %+v, want %+v", cells[0], want)
	}
	if want := (mosaic.Rect{X: 26, Y: 26, W: 26, H: 26}); cells[61] != want {
		t.Errorf("cells[61] = %+v, want %+v", cells[61], want)
	}
}

func TestGridCoverage(t *testing.T) {
	sigs := []mosaic.Signature{
		{Columns: 10, Rows: 10, Width: 512, Height: 512},
		{Columns: 60, Rows: 60, Width: 1536, Height: 1536},
		{Columns: 13, Rows: 17, Width: 1000, Height: 777},
		{Columns: 400, Rows: 10, Width: 512, Height: 8000},
	}

	for _, sig := range sigs {
		cells := Grid(sig)
		if len(cells) != sig.Columns*sig.Rows {
			t.Errorf("%+v: len = %d, want %d", sig, len(cells), sig.Columns*sig.Rows)
			continue
		}

		// Every canvas pixel center lies in exactly one cell.
		stepX, stepY := max(1, sig.Width/97), max(1, sig.Height/97)
		for y := 0; y < sig.Height; y += stepY {
			for x := 0; x < sig.Width; x += stepX {
				px, py := float64(x)+0.5, float64(y)+0.5
				hits := 0
				for _, c := range cells {
					if c.Contains(px, py) {
						hits++
					}
				}
				if hits != 1 {
					t.Fatalf("%+v: pixel (%d,%d) covered %d times", sig, x, y, hits)
				}
			}
		}
	}
}

func TestScatterExample(t *testing.T) {
	sig := mosaic.Signature{Columns: 10, Rows: 10, Width: 1000, Height: 1000}
	rects := Scatter(sig, newRand(42))
	if len(rects) != 110 {
		t.Fatalf("len = %d, want 110", len(rects))
	}
	for i, r := range rects {
		if r.W != r.H {
			t.Errorf("rects[%d] not square: %+v", i, r)
		}
		if r.W < 75 || r.W >= 165 {
			t.Errorf("rects[%d] side %v outside [75,165)", i, r.W)
		}
		if r.X < 0 || r.Y < 0 || r.X > 1000-r.W || r.Y > 1000-r.H {
			t.Errorf("rects[%d] = %+v outside canvas", i, r)
		}
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	tiles := testTiles(50).Tiles()
	shuffled := Shuffle(tiles, newRand(7))

	if len(shuffled) != len(tiles) {
		t.Fatalf("len = %d, want %d", len(shuffled), len(tiles))
	}
	ids := func(ts []*mosaic.Tile) []string {
		out := make([]string, len(ts))
		for i, t := range ts {
			out[i] = t.ID
		}
		return out
	}
	a, b := ids(tiles), ids(shuffled)
	if slices.Equal(a, b) {
		t.Error("50 tiles shuffled into identical order")
	}
	slices.Sort(a)
	slices.Sort(b)
	if !slices.Equal(a, b) {
		t.Error("Shuffle() is not a permutation")
	}
}

func TestAssignCycles(t *testing.T) {
	tiles := testTiles(3).Tiles()
	geom := Grid(mosaic.Signature{Columns: 10, Rows: 10, Width: 512, Height: 512})
	placed := Assign(geom, tiles)
	for k, p := range placed {
		if p.Tile != tiles[k%3] {
			t.Fatalf("placed[%d] = %s, want %s", k, p.Tile.ID, tiles[k%3].ID)
		}
	}
	if Assign(geom, nil) != nil {
		t.Error("Assign with no tiles should return nil")
	}
}

func TestScatterSeedDiffers(t *testing.T) {
	a := scatterSeed(1, mosaic.Signature{Columns: 10, Rows: 10, Width: 1000, Height: 1000})
	b := scatterSeed(1, mosaic.Signature{Columns: 10, Rows: 11, Width: 1000, Height: 1000})
	if a == b {
		t.Error("different signatures should mix to different seeds")
	}
}

func TestShuffleDeterministicPerSeed(t *testing.T) {
	tiles := testTiles(20).Tiles()
	a := Shuffle(tiles, rand.New(rand.NewPCG(3, 4)))
	b := Shuffle(tiles, rand.New(rand.NewPCG(3, 4)))
	if !slices.Equal(a, b) {
		t.Error("same seed should give same shuffle")
	}
}
