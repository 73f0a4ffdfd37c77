// Package session holds the state of one mosaic document.
//
// A [Session] owns the current tile collection, the current logo, the
// layout engine with its memoized scatter geometry, and the snapshot of the
// most recent render. Every render fully replaces the snapshot; exports and
// hit-tests read whichever snapshot is current, so they always agree with
// what was last painted.
//
// # Usage
//
//	sess := session.New()
//	sess.SetTiles(tiles)
//	sess.SetLogo(logo)
//
//	snap, err := sess.Render(ctx, params)
//	if err != nil {
//	    return err
//	}
//	svg, err := sess.ExportSVG(params)
//
// Render, export and hit-test calls return an error with code NOT_READY
// until both a logo and at least one tile are loaded.
//
// # Persistence
//
// A [Store] saves the placement of the last render together with the
// source paths it was built from. [Session.Restore] replays a saved
// placement so a later process reproduces the same layout exactly.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"image"
	"sync"
	"time"

	"github.com/gogpu/gg"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/mosaic"
	"github.com/matzehuels/logomosaic/pkg/mosaic/hittest"
	"github.com/matzehuels/logomosaic/pkg/mosaic/layout"
	"github.com/matzehuels/logomosaic/pkg/mosaic/raster"
	"github.com/matzehuels/logomosaic/pkg/mosaic/sink"
	"github.com/matzehuels/logomosaic/pkg/observability"
)

// Snapshot is the immutable outcome of one render.
type Snapshot struct {
	Params   mosaic.Params
	Record   *mosaic.PlacementRecord
	Image    *image.RGBA
	Mask     *gg.Mask
	LogoBox  mosaic.Rect
	Warnings []mosaic.Warning
	Index    *hittest.Index
	Rendered time.Time
}

// Session is a single-document mosaic workspace. It is safe for concurrent
// use; renders are serialized and the latest call wins.
type Session struct {
	renderMu sync.Mutex

	mu        sync.RWMutex
	tiles     *mosaic.TileSet
	logo      *mosaic.Logo
	last      *Snapshot
	lastOrder []string

	engine     *layout.Engine
	compositor *raster.Compositor
}

// Option configures a [Session].
type Option func(*Session)

// WithCompositor replaces the default raster compositor.
func WithCompositor(c *raster.Compositor) Option {
	return func(s *Session) { s.compositor = c }
}

// WithEngine replaces the default layout engine.
func WithEngine(e *layout.Engine) Option {
	return func(s *Session) { s.engine = e }
}

// New returns an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		tiles:      mosaic.NewTileSet(nil),
		engine:     layout.NewEngine(),
		compositor: raster.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ready reports whether a logo and at least one tile are loaded.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready()
}

func (s *Session) ready() bool {
	return s.logo != nil && s.logo.Raster != nil && s.tiles.Len() > 0
}

// SetTiles replaces the tile collection and returns how many tiles were
// kept. The previous render and its tile order are discarded.
func (s *Session) SetTiles(tiles []*mosaic.Tile) int {
	set := mosaic.NewTileSet(tiles)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tiles = set
	s.last = nil
	s.lastOrder = nil
	return set.Len()
}

// SetLogo replaces the logo. The previous render is discarded but its tile
// order is kept for the next export.
func (s *Session) SetLogo(logo *mosaic.Logo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logo = logo
	s.last = nil
}

// Tiles returns the current tile collection.
func (s *Session) Tiles() *mosaic.TileSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tiles
}

// Logo returns the current logo, or nil.
func (s *Session) Logo() *mosaic.Logo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logo
}

// Snapshot returns the most recent render, or nil.
func (s *Session) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// LastOrder returns the tile order of the most recent render, which
// survives logo changes. It is nil before the first render.
func (s *Session) LastOrder() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastOrder
}

// Render places and paints the mosaic for p and makes the result the
// current snapshot. p is normalized first.
func (s *Session) Render(ctx context.Context, p mosaic.Params) (*Snapshot, error) {
	return s.render(ctx, p, func(p mosaic.Params, tiles *mosaic.TileSet) *mosaic.PlacementRecord {
		return s.engine.Place(p, tiles)
	})
}

// Replay paints p with a previously recorded tile order instead of a fresh
// placement. Use [Session.Restore] to also reinstate scatter geometry.
func (s *Session) Replay(ctx context.Context, p mosaic.Params, order []string) (*Snapshot, error) {
	return s.render(ctx, p, func(p mosaic.Params, tiles *mosaic.TileSet) *mosaic.PlacementRecord {
		return s.engine.Replay(p, tiles, order)
	})
}

// Restore reinstates a saved placement and renders it.
func (s *Session) Restore(ctx context.Context, doc *sink.Placement) (*Snapshot, error) {
	if doc == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no placement to restore")
	}
	p := doc.Params
	p.Normalize()
	if rects := doc.Scatter(); rects != nil {
		s.engine.Restore(p.Signature(), rects)
	}
	return s.Replay(ctx, p, doc.Order())
}

func (s *Session) render(ctx context.Context, p mosaic.Params, place func(mosaic.Params, *mosaic.TileSet) *mosaic.PlacementRecord) (*Snapshot, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	s.mu.RLock()
	tiles, logo, ready := s.tiles, s.logo, s.ready()
	s.mu.RUnlock()
	if !ready {
		return nil, errs.New(errs.ErrCodeNotReady, "load a logo and at least one tile first")
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnLayoutStart(ctx, string(p.Layout), p.PlacementCount())
	rec := place(p, tiles)
	hooks.OnLayoutComplete(ctx, string(p.Layout), time.Since(start), nil)

	res, err := s.compositor.Render(ctx, p, logo, rec)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Params:   p,
		Record:   res.Record,
		Image:    res.Image,
		Mask:     res.Mask,
		LogoBox:  res.LogoBox,
		Warnings: res.Warnings,
		Index:    hittest.New(res.Record, res.Mask, p.LogoMode),
		Rendered: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Sources may have been replaced while painting; the stale result is
	// still returned but not installed.
	if s.tiles == tiles && s.logo == logo {
		s.last = snap
		s.lastOrder = snap.Record.Order
	}
	return snap, nil
}

// Record returns the placement an export for p should use: the last
// render's record when it matches p's layout and signature, otherwise p's
// geometry filled in the last rendered tile order.
func (s *Session) Record(p mosaic.Params) (*mosaic.PlacementRecord, error) {
	p.Normalize()
	s.mu.RLock()
	tiles, last, order, ready := s.tiles, s.last, s.lastOrder, s.ready()
	s.mu.RUnlock()

	if !ready {
		return nil, errs.New(errs.ErrCodeNotReady, "load a logo and at least one tile first")
	}
	if last != nil && last.Record.Matches(p) {
		return last.Record, nil
	}
	return s.engine.Replay(p, tiles, order), nil
}

// ExportSVG builds the vector document for p from the last render.
func (s *Session) ExportSVG(p mosaic.Params, opts ...sink.SVGOption) ([]byte, error) {
	p.Normalize()
	rec, err := s.Record(p)
	if err != nil {
		return nil, err
	}
	return sink.RenderSVG(p, s.Logo(), rec, opts...)
}

// ExportJSON writes the placement for p, including the last render's
// warnings when p matches it.
func (s *Session) ExportJSON(p mosaic.Params) ([]byte, error) {
	p.Normalize()
	rec, err := s.Record(p)
	if err != nil {
		return nil, err
	}
	logo := s.Logo()
	opts := []sink.JSONOption{sink.WithJSONLogo(logo.Name)}
	if snap := s.Snapshot(); snap != nil && snap.Record == rec {
		opts = append(opts, sink.WithJSONWarnings(snap.Warnings))
	}
	return sink.RenderJSON(p, rec, logo.Fit(p.CanvasWidth, p.CanvasHeight), opts...)
}

// HitTest returns the tile painted at (x, y) in the last render. Without a
// render it reports a miss.
func (s *Session) HitTest(x, y float64) (mosaic.PlacedTile, bool) {
	snap := s.Snapshot()
	if snap == nil {
		return mosaic.PlacedTile{}, false
	}
	return snap.Index.At(x, y)
}

// GenerateID creates a random, URL-safe identifier for saved sessions.
func GenerateID() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
