package mosaic

import (
	"encoding/base64"
	"image"

	"github.com/google/uuid"
)

// MaxTiles is the largest tile collection a session accepts. Extra tiles
// are dropped by [NewTileSet].
const MaxTiles = 1000

// tileNamespace seeds content-derived tile IDs.
var tileNamespace = uuid.MustParse("6f1c1b8e-4a57-4a36-9d3f-2b1c0e7a9d41")

// Tile is one decoded mosaic image plus its compressed snapshot.
//
// Encoded is only ever embedded into vector output; the raster pipeline
// reads Image. Tiles are immutable once constructed.
type Tile struct {
	ID          string
	Name        string
	Image       image.Image
	Encoded     []byte
	EncodedMIME string
}

// NewTileID derives a stable tile identifier from the tile name and a hash
// of its source bytes. Loading the same file twice yields the same ID, which
// lets persisted placement records be replayed by a later process.
func NewTileID(name, contentHash string) string {
	return uuid.NewSHA1(tileNamespace, []byte(name+"\x00"+contentHash)).String()
}

// NewRandomTileID returns a fresh random identifier for tiles that have no
// backing file.
func NewRandomTileID() string {
	return uuid.NewString()
}

// Size returns the pixel dimensions of the decoded image.
func (t *Tile) Size() (w, h int) {
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// DataURI returns the encoded snapshot as a data: URI.
func (t *Tile) DataURI() string {
	mime := t.EncodedMIME
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(t.Encoded)
}

// TileSet is an ordered, immutable collection of tiles.
type TileSet struct {
	tiles []*Tile
	byID  map[string]int
}

// NewTileSet builds a set from tiles, keeping load order. Tiles without an
// ID get a random one; tiles beyond [MaxTiles] and nil entries are dropped.
// When two tiles share an ID, lookups resolve to the first.
func NewTileSet(tiles []*Tile) *TileSet {
	s := &TileSet{byID: make(map[string]int, len(tiles))}
	for _, t := range tiles {
		if t == nil || t.Image == nil {
			continue
		}
		if len(s.tiles) == MaxTiles {
			break
		}
		if t.ID == "" {
			t.ID = NewRandomTileID()
		}
		if _, dup := s.byID[t.ID]; !dup {
			s.byID[t.ID] = len(s.tiles)
		}
		s.tiles = append(s.tiles, t)
	}
	return s
}

// Len returns the number of tiles. A nil set is empty.
func (s *TileSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.tiles)
}

// At returns the i-th tile in load order.
func (s *TileSet) At(i int) *Tile { return s.tiles[i] }

// ByID looks up a tile by its identifier.
func (s *TileSet) ByID(id string) (*Tile, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return s.tiles[i], true
}

// Tiles returns a copy of the tile slice in load order.
func (s *TileSet) Tiles() []*Tile {
	if s == nil {
		return nil
	}
	out := make([]*Tile, len(s.tiles))
	copy(out, s.tiles)
	return out
}
