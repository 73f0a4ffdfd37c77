// Package pkg provides the core libraries for logomosaic.
//
// # Overview
//
// Logomosaic fills the silhouette of a logo with a photo mosaic. The pkg
// directory is organized into three main areas:
//
//  1. [mosaic] - Domain logic (layout, raster and vector compositing, hit tests)
//  2. [source] - Loading tiles and logos from files and URLs
//  3. [pipeline] - Orchestration (load → layout → render → export)
//
// # Architecture
//
// The typical data flow through logomosaic:
//
//	Tile folder + logo file
//	         ↓
//	    [source] package (decode, downscale, encode snapshots)
//	         ↓
//	    [session] package (tile set, logo, placement memo)
//	         ↓
//	    [mosaic/layout] package (grid or scatter placement)
//	         ↓
//	    [mosaic/raster] + [mosaic/sink] (pixels, SVG, JSON)
//	         ↓
//	    PNG/JPEG/SVG/JSON output
//
// # Quick Start
//
// Render a mosaic through the pipeline runner:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Logo:    "brand.svg",
//	    Tiles:   []string{"photos/"},
//	    Params:  mosaic.DefaultParams(),
//	    Formats: []string{"png", "svg"},
//	})
//
// # Main Packages
//
// ## Domain
//
// [mosaic] - Shared types: tiles, logos, parameters, placement records.
//
//   - [mosaic/layout]: Grid partition, memoized scatter geometry, shuffling
//   - [mosaic/raster]: Offscreen compositing, tint, logo masking
//   - [mosaic/sink]: SVG, PNG, JPEG and JSON serialization
//   - [mosaic/hittest]: Topmost-tile lookup and hover coalescing
//
// ## Inputs
//
// [source] - Tile and logo loaders with SVG parsing and sanitizing.
//
// [httputil] - Fetching remote tiles and logos with retries.
//
// ## State
//
// [session] - Single-document workspace and the saved-session store.
//
// [cache] - Byte caches for encoded tiles and artifacts (file, Redis, MongoDB).
//
// ## Infrastructure
//
// [pipeline] - Load, render and export used by the CLI and the preview server.
//
// [observability] - Hooks for pipeline, cache and server events.
//
// [errors] - Coded errors and input validation.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/mosaic/...             # Specific package
//	go test -run Example                 # Examples only
//
// [mosaic]: https://pkg.go.dev/github.com/matzehuels/logomosaic/pkg/mosaic
// [mosaic/layout]: https://pkg.go.dev/github.com/matzehuels/logomosaic/pkg/mosaic/layout
// [mosaic/raster]: https://pkg.go.dev/github.com/matzehuels/logomosaic/pkg/mosaic/raster
// [mosaic/sink]: https://pkg.go.dev/github.com/matzehuels/logomosaic/pkg/mosaic/sink
// [mosaic/hittest]: https://pkg.go.dev/github.com/matzehuels/logomosaic/pkg/mosaic/hittest
// [source]: https://pkg.go.dev/github.com/matzehuels/logomosaic/pkg/source
// [httputil]: https://pkg.go.dev/github.com/matzehuels/logomosaic/pkg/httputil
// [session]: https://pkg.go.dev/github.com/matzehuels/logomosaic/pkg/session
// [cache]: https://pkg.go.dev/github.com/matzehuels/logomosaic/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/logomosaic/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/matzehuels/logomosaic/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/logomosaic/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/logomosaic/pkg/buildinfo
package pkg
