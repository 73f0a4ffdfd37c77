package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/logomosaic/pkg/cache"
	"github.com/matzehuels/logomosaic/pkg/session"
	"github.com/matzehuels/logomosaic/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the preview server use it to avoid duplicating logic.
//
// The Runner is stateless except for the cache and logger - sources and
// renders live in the [session.Session] passed to each stage. Multiple
// goroutines can safely use the same Runner with different sessions.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → render → export pipeline in a fresh
// session.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	sess := session.New()
	result := &Result{Session: sess}

	// Stage 1: Load
	opts.enter(StageLoad)
	loadStart := time.Now()
	n, err := r.Load(ctx, sess, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.TileCount = n
	result.Stats.LoadTime = time.Since(loadStart)

	r.Logger.Info("loaded sources",
		"tiles", n,
		"logo", sess.Logo().Name,
		"duration", result.Stats.LoadTime)

	// Stage 2: Render
	opts.enter(StageRender)
	renderStart := time.Now()
	snap, err := r.Render(ctx, sess, opts)
	if err != nil {
		return nil, err
	}
	result.Snapshot = snap
	result.Warnings = snap.Warnings
	result.Stats.Placements = snap.Record.Len()
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered mosaic",
		"layout", snap.Params.Layout,
		"placements", snap.Record.Len(),
		"duration", result.Stats.RenderTime)

	// Stage 3: Export
	opts.enter(StageExport)
	exportStart := time.Now()
	artifacts, hit, err := r.ExportWithCacheInfo(ctx, sess, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = hit

	r.Logger.Info("exported outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// Load decodes the logo and tiles named by opts into sess and returns the
// number of tiles kept.
func (r *Runner) Load(ctx context.Context, sess *session.Session, opts Options) (int, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return 0, err
	}

	loader := r.loader(opts)
	logo, err := loader.LoadLogo(ctx, opts.Logo)
	if err != nil {
		return 0, err
	}
	tiles, err := loader.LoadTiles(ctx, opts.Tiles)
	if err != nil {
		return 0, err
	}

	sess.SetLogo(logo)
	return sess.SetTiles(tiles), nil
}

// Render places and paints the mosaic, or replays opts.Restore when set.
// Quality warnings are logged, never returned as errors.
func (r *Runner) Render(ctx context.Context, sess *session.Session, opts Options) (*session.Snapshot, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	var snap *session.Snapshot
	var err error
	if opts.Restore != nil {
		snap, err = sess.Restore(ctx, opts.Restore)
	} else {
		snap, err = sess.Render(ctx, opts.Params)
	}
	if err != nil {
		return nil, err
	}
	for _, w := range snap.Warnings {
		opts.Logger.Warn(w.Message, "code", w.Code)
	}
	return snap, nil
}

// Export is a convenience wrapper that calls ExportWithCacheInfo and discards the cache hit info.
func (r *Runner) Export(ctx context.Context, sess *session.Session, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.ExportWithCacheInfo(ctx, sess, opts)
	return artifacts, err
}

// ExportWithCacheInfo encodes the session's last render with caching and
// returns cache hit info. Raster formats re-render first when opts.Params
// differ from the last render, keeping its tile order.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, sess *session.Session, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	if err := opts.ValidateForExport(); err != nil {
		return nil, false, err
	}

	// The placement document identifies tiles, geometry and params; the logo
	// hash covers the shape.
	placement, err := sess.ExportJSON(opts.Params)
	if err != nil {
		return nil, false, err
	}
	keyHash := ""
	if logo := sess.Logo(); logo.Hash != "" {
		keyHash = cache.PlacementHash(placement, logo.Hash, opts.LinkedTiles)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	if keyHash != "" && !opts.Refresh {
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(keyHash, opts.ArtifactKeyOpts(format)))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := RenderArtifacts(ctx, sess, opts)
	if err != nil {
		return nil, false, err
	}

	if keyHash != "" {
		for format, data := range rendered {
			_ = r.Cache.Set(ctx, r.Keyer.ArtifactKey(keyHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
		}
	}
	return rendered, false, nil
}

// ArtifactKeyOpts returns cache key options for an exported format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Linked: o.LinkedTiles != ""}
	switch format {
	case FormatPNG:
		k.MaxSide = o.MaxSide
	case FormatJPEG:
		k.MaxSide = o.MaxSide
		k.Quality = o.Quality
	}
	return k
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// loader builds a source loader sharing the runner's cache.
func (r *Runner) loader(opts Options) *source.Loader {
	l := source.NewLoader(r.Cache, r.Keyer, opts.Logger)
	l.MaxSide = opts.TileMaxSide
	if opts.TileQuality > 0 {
		l.Quality = opts.TileQuality
	}
	return l
}

// SnapshotQuality returns the JPEG quality tile snapshots are encoded with.
func (o *Options) SnapshotQuality() int {
	if o.TileQuality > 0 && o.TileQuality <= 100 {
		return o.TileQuality
	}
	return source.DefaultQuality
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
