package pipeline

import (
	"context"
	"time"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/mosaic/sink"
	"github.com/matzehuels/logomosaic/pkg/observability"
	"github.com/matzehuels/logomosaic/pkg/session"
)

// RenderArtifacts encodes the session's current render in every format of
// opts.Formats. Vector and JSON outputs replay the last placement; raster
// outputs come from a snapshot whose params equal opts.Params.
func RenderArtifacts(ctx context.Context, sess *session.Session, opts Options) (artifacts map[string][]byte, err error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	var snap *session.Snapshot
	if opts.NeedsRaster() {
		if snap, err = RasterSnapshot(ctx, sess, opts); err != nil {
			return nil, err
		}
	}

	artifacts = make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte

		switch format {
		case FormatPNG:
			data, err = sink.RenderPNG(snap.Image, sink.WithMaxSide(opts.MaxSide))
		case FormatJPEG:
			data, err = sink.RenderJPEG(snap.Image, sink.WithQuality(opts.Quality), sink.WithMaxSide(opts.MaxSide))
		case FormatSVG:
			data, err = sess.ExportSVG(opts.Params, buildSVGOptions(opts)...)
		case FormatJSON:
			data, err = sess.ExportJSON(opts.Params)
		default:
			return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			if errs.GetCode(err) == "" {
				err = errs.Wrap(errs.ErrCodeExport, err, "render %s", format)
			}
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RasterSnapshot returns the session's last render when it was painted with
// opts.Params, and otherwise repaints with the last tile order.
func RasterSnapshot(ctx context.Context, sess *session.Session, opts Options) (*session.Snapshot, error) {
	if snap := sess.Snapshot(); snap != nil && snap.Params == opts.Params {
		return snap, nil
	}
	if opts.Logger != nil {
		opts.Logger.Debug("repainting for export", "layout", opts.Params.Layout)
	}
	return sess.Replay(ctx, opts.Params, sess.LastOrder())
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.LinkedTiles != "" {
		svgOpts = append(svgOpts, sink.WithLinkedTiles(opts.LinkedTiles))
	}
	return svgOpts
}
