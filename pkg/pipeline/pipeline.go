// Package pipeline provides the load → render → export pipeline for
// logomosaic.
//
// The CLI and the preview server share this package so that both load
// sources, place tiles and encode outputs the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Decode the logo and the tile files into a session
//  2. Render: Place tiles and paint the raster mosaic (or replay a saved
//     placement)
//  3. Export: Encode the last render in the requested formats (PNG, JPEG,
//     SVG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Logo:    "logo.svg",
//	    Tiles:   []string{"photos/"},
//	    Params:  mosaic.DefaultParams(),
//	    Formats: []string{"png", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages against an existing session:
//
//	sess := session.New()
//	n, err := runner.Load(ctx, sess, opts)
//	snap, err := runner.Render(ctx, sess, opts)
//	artifacts, err := runner.Export(ctx, sess, opts)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/mosaic"
	"github.com/matzehuels/logomosaic/pkg/mosaic/sink"
	"github.com/matzehuels/logomosaic/pkg/session"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultTileMaxSide bounds decoded tile resolution. Tiles rarely cover
	// more than a few hundred pixels, so full-resolution photos only cost
	// memory.
	DefaultTileMaxSide = 1024

	// DefaultQuality is the JPEG export quality.
	DefaultQuality = sink.DefaultJPEGQuality
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatJPEG: true,
	FormatSVG:  true,
	FormatJSON: true,
}

// FormatExt maps formats to file extensions.
var FormatExt = map[string]string{
	FormatPNG:  ".png",
	FormatJPEG: ".jpg",
	FormatSVG:  ".svg",
	FormatJSON: ".json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the mosaic pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Load options
	Logo        string   `json:"logo,omitempty"`
	Tiles       []string `json:"tiles,omitempty"`
	TileMaxSide int      `json:"tile_max_side,omitempty"`
	TileQuality int      `json:"tile_quality,omitempty"` // JPEG quality of tile snapshots; zero uses source.DefaultQuality

	// Render options
	Params mosaic.Params `json:"params"`

	// Restore replays a saved placement instead of placing tiles afresh.
	Restore *sink.Placement `json:"-"`

	// Export options
	Formats     []string `json:"formats,omitempty"`
	Quality     int      `json:"quality,omitempty"`
	MaxSide     int      `json:"max_side,omitempty"`
	LinkedTiles string   `json:"linked_tiles,omitempty"` // SVG tile href base; empty embeds data URIs
	Refresh     bool     `json:"refresh,omitempty"`      // bypass the artifact cache

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// OnStage, if set, is called as Execute enters each stage.
	OnStage func(Stage) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Stage names one step of [Runner.Execute].
type Stage string

const (
	StageLoad   Stage = "load"
	StageRender Stage = "render"
	StageExport Stage = "export"
)

func (o *Options) enter(stage Stage) {
	if o.OnStage != nil {
		o.OnStage(stage)
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Session holds the loaded sources and the last render.
	Session *session.Session

	// Snapshot is the render the artifacts were encoded from.
	Snapshot *session.Snapshot

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// Warnings are the quality advisories of the render.
	Warnings []mosaic.Warning

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TileCount  int
	Placements int
	LoadTime   time.Duration
	RenderTime time.Duration
	ExportTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ExportHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// NormalizeFormat lowercases a format name and maps aliases.
func NormalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimPrefix(format, "."))
	if f == "jpg" {
		return FormatJPEG
	}
	return f
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, jpeg, svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the source paths.
func (o *Options) ValidateForLoad() error {
	if o.Logo == "" {
		return errs.New(errs.ErrCodeInvalidInput, "logo is required")
	}
	if len(o.Tiles) == 0 {
		return errs.New(errs.ErrCodeInvalidInput, "at least one tile path is required")
	}
	if o.TileMaxSide < 0 {
		o.TileMaxSide = 0
	}
	o.setLogger()
	return nil
}

// ValidateForRender normalizes and validates the render parameters.
func (o *Options) ValidateForRender() error {
	if o.Restore != nil {
		o.Params = o.Restore.Params
	}
	o.Params.Normalize()
	o.setLogger()
	return o.Params.Validate()
}

// ValidateForExport validates formats and applies export defaults.
func (o *Options) ValidateForExport() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	for i, f := range o.Formats {
		o.Formats[i] = NormalizeFormat(f)
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	if o.MaxSide < 0 {
		o.MaxSide = 0
	}
	o.setLogger()
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// NeedsRaster reports whether any requested format encodes the raster image.
func (o *Options) NeedsRaster() bool {
	for _, f := range o.Formats {
		if f == FormatPNG || f == FormatJPEG {
			return true
		}
	}
	return false
}
