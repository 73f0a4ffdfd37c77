package session

import (
	"context"
	"image"
	"image/color"
	"regexp"
	"slices"
	"testing"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/mosaic"
	"github.com/matzehuels/logomosaic/pkg/mosaic/sink"
)

func testTiles(n int) []*mosaic.Tile {
	tiles := make([]*mosaic.Tile, n)
	for i := range tiles {
		img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
		for p := 0; p < len(img.Pix); p += 4 {
			img.Pix[p], img.Pix[p+3] = uint8(i*40), 255
		}
		tiles[i] = &mosaic.Tile{
			ID:      mosaic.NewTileID(string(rune('a'+i))+".jpg", "hash"),
			Name:    string(rune('a'+i)) + ".jpg",
			Image:   img,
			Encoded: []byte{byte(i)},
		}
	}
	return tiles
}

// leftHalfLogo is opaque on its left half.
func leftHalfLogo() *mosaic.Logo {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	for y := range 100 {
		for x := range 50 {
			img.Set(x, y, color.Black)
		}
	}
	return &mosaic.Logo{Name: "logo.png", Raster: img}
}

func readySession() *Session {
	s := New()
	s.SetTiles(testTiles(5))
	s.SetLogo(leftHalfLogo())
	return s
}

func smallParams() mosaic.Params {
	p := mosaic.DefaultParams()
	p.CanvasWidth, p.CanvasHeight = 600, 600
	p.Columns, p.Rows = 10, 10
	return p
}

var linkedTile = regexp.MustCompile(`href="/t/([^"]+)"`)

func svgOrder(t *testing.T, s *Session, p mosaic.Params) []string {
	t.Helper()
	svg, err := s.ExportSVG(p, sink.WithLinkedTiles("/t/"))
	if err != nil {
		t.Fatalf("ExportSVG() error = %v", err)
	}
	var ids []string
	for _, m := range linkedTile.FindAllStringSubmatch(string(svg), -1) {
		ids = append(ids, m[1])
	}
	return ids
}

func TestNotReady(t *testing.T) {
	ctx := context.Background()
	s := New()
	if s.Ready() {
		t.Fatal("empty session should not be ready")
	}
	if _, err := s.Render(ctx, smallParams()); !errs.Is(err, errs.ErrCodeNotReady) {
		t.Errorf("Render() err = %v, want NOT_READY", err)
	}
	if _, err := s.ExportSVG(smallParams()); !errs.Is(err, errs.ErrCodeNotReady) {
		t.Errorf("ExportSVG() err = %v, want NOT_READY", err)
	}

	s.SetTiles(testTiles(2))
	if s.Ready() {
		t.Error("session without a logo should not be ready")
	}
	s.SetTiles(nil)
	s.SetLogo(leftHalfLogo())
	if s.Ready() {
		t.Error("session without tiles should not be ready")
	}
	if _, ok := s.HitTest(1, 1); ok {
		t.Error("HitTest() before any render should miss")
	}
}

func TestRenderInvalidParams(t *testing.T) {
	s := readySession()
	p := smallParams()
	p.TintColor = "nope"
	if _, err := s.Render(context.Background(), p); !errs.Is(err, errs.ErrCodeInvalidColor) {
		t.Errorf("Render() err = %v, want INVALID_COLOR", err)
	}
}

func TestExportMatchesLastRender(t *testing.T) {
	ctx := context.Background()
	s := readySession()
	p := smallParams()
	p.Shuffle = true

	snap, err := s.Render(ctx, p)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	first := svgOrder(t, s, p)
	if !slices.Equal(first, snap.Record.Order) {
		t.Fatal("export order differs from the last render")
	}
	// Exporting again must not reshuffle.
	if second := svgOrder(t, s, p); !slices.Equal(first, second) {
		t.Error("consecutive exports differ")
	}

	// Changing only the tint keeps the record.
	p.TintPercent = 30
	if got := svgOrder(t, s, p); !slices.Equal(got, first) {
		t.Error("tint change should reuse the last record")
	}
}

func TestExportAfterSignatureChange(t *testing.T) {
	ctx := context.Background()
	s := readySession()
	p := smallParams()
	p.Shuffle = true
	snap, _ := s.Render(ctx, p)

	p.Columns = 12
	got := svgOrder(t, s, p)
	if len(got) != 120 {
		t.Fatalf("len = %d, want 120", len(got))
	}
	// The last order is cycled over the new geometry.
	for k, id := range got {
		if want := snap.Record.Order[k%len(snap.Record.Order)]; id != want {
			t.Fatalf("order[%d] = %s, want %s", k, id, want)
		}
	}
}

func TestScatterStableAcrossRenders(t *testing.T) {
	ctx := context.Background()
	s := readySession()
	p := smallParams()
	p.Layout = mosaic.LayoutScatter

	a, _ := s.Render(ctx, p)
	p.LogoMode = mosaic.LogoOverlay
	p.TintPercent = 50
	b, _ := s.Render(ctx, p)
	if !slices.Equal(a.Record.Scatter, b.Record.Scatter) {
		t.Error("scatter geometry moved without a signature change")
	}

	p.CanvasWidth = 700
	c, _ := s.Render(ctx, p)
	if slices.Equal(a.Record.Scatter[:5], c.Record.Scatter[:5]) {
		t.Error("scatter geometry should be resampled after a size change")
	}
}

func TestHitTest(t *testing.T) {
	ctx := context.Background()
	s := readySession()
	p := smallParams()

	if _, err := s.Render(ctx, p); err != nil {
		t.Fatal(err)
	}
	got, ok := s.HitTest(10, 10)
	if !ok || got.Tile.ID != s.Tiles().At(0).ID {
		t.Errorf("HitTest(10,10) = %v, %v", got.Tile, ok)
	}
	if _, ok := s.HitTest(500, 10); ok {
		t.Error("mask mode: point outside the logo should miss")
	}

	p.LogoMode = mosaic.LogoOverlay
	if _, err := s.Render(ctx, p); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.HitTest(500, 10); !ok {
		t.Error("overlay mode: point outside the logo should hit its tile")
	}
}

func TestSetTilesClearsRender(t *testing.T) {
	s := readySession()
	if _, err := s.Render(context.Background(), smallParams()); err != nil {
		t.Fatal(err)
	}
	if n := s.SetTiles(testTiles(3)); n != 3 {
		t.Errorf("SetTiles() = %d, want 3", n)
	}
	if s.Snapshot() != nil {
		t.Error("SetTiles() should discard the last render")
	}
}

func TestSaveRestore(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	s := readySession()
	p := smallParams()
	p.Layout = mosaic.LayoutScatter
	p.Shuffle, p.ScatterShuffle = true, true
	orig, err := s.Render(ctx, p)
	if err != nil {
		t.Fatal(err)
	}

	saved, err := s.Save("", "logo.png", []string{"tiles/"}, 0)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Set(ctx, saved); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	loaded, err := store.Get(ctx, saved.ID)
	if err != nil || loaded == nil {
		t.Fatalf("Get() = %v, %v", loaded, err)
	}

	// A fresh session with the same sources reproduces the layout.
	fresh := readySession()
	snap, err := fresh.Restore(ctx, loaded.Placement)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if !slices.Equal(snap.Record.Order, orig.Record.Order) {
		t.Error("restored order differs")
	}
	if !slices.Equal(snap.Record.Scatter, orig.Record.Scatter) {
		t.Error("restored scatter geometry differs")
	}

	if _, err := fresh.Restore(ctx, nil); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Restore(nil) err = %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	s := readySession()
	p := smallParams()
	if _, err := s.Render(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	data, err := s.ExportJSON(p)
	if err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	doc, err := sink.ParseJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Tiles) != 100 || doc.Logo != "logo.png" {
		t.Errorf("unexpected document: %d tiles, logo %q", len(doc.Tiles), doc.Logo)
	}
}
