package cli

import (
	"context"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/pipeline"
	"github.com/matzehuels/logomosaic/pkg/session"
)

// restored is a saved session reloaded and replayed.
type restored struct {
	saved *session.Saved
	sess  *session.Session
	snap  *session.Snapshot
	opts  pipeline.Options
}

// restoreSession reloads the sources of saved session id and replays its
// placement, so the result paints exactly what was saved.
func (c *CLI) restoreSession(ctx context.Context, runner *pipeline.Runner, id string) (*restored, error) {
	store, err := c.newStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	saved, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, errs.New(errs.ErrCodeSessionNotFound, "no saved session %q; run render first", id)
	}

	opts := pipeline.Options{
		Logo:        saved.Logo,
		Tiles:       saved.Tiles,
		TileMaxSide: saved.TileMaxSide,
		TileQuality: saved.TileQuality,
		Restore:     saved.Placement,
		Logger:      c.Logger,
	}

	sess := session.New()
	prog := newProgress(c.Logger)
	n, err := runner.Load(ctx, sess, opts)
	if err != nil {
		return nil, err
	}
	snap, err := runner.Render(ctx, sess, opts)
	if err != nil {
		return nil, err
	}
	prog.done("restored session", "id", id, "tiles", n, "placements", snap.Record.Len())

	opts.Restore = nil
	opts.Params = snap.Params
	return &restored{saved: saved, sess: sess, snap: snap, opts: opts}, nil
}
