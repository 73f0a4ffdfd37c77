package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/logomosaic/pkg/pipeline"
	"github.com/matzehuels/logomosaic/pkg/session"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	logo        string
	tileMaxSide int
	linked      string // SVG tile href base
	sessionID   string
	noSave      bool
	out         outputFlags
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{sessionID: lastSession, tileMaxSide: pipeline.DefaultTileMaxSide}
	var params *paramFlags

	cmd := &cobra.Command{
		Use:   "render --logo <file|url> <tiles>...",
		Short: "Render a logo mosaic from a folder of photos",
		Long: `Render places the photos found in the given files and folders on a grid or
a scatter layout, clips them to the logo and writes the result.

The render is saved as a session so that export, inspect and serve can
replay the exact same layout later.`,
		Example: `  logomosaic render --logo brand.svg photos/
  logomosaic render --logo brand.png --layout scatter --shuffle -f png,svg photos/ more/
  logomosaic render --logo https://example.com/logo.svg --preset a3p -o poster.jpg photos/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args, &opts, params)
		},
	}

	cmd.Flags().StringVarP(&opts.logo, "logo", "l", "", "logo file or URL (PNG, JPEG, SVG)")
	cmd.Flags().IntVar(&opts.tileMaxSide, "tile-max-side", opts.tileMaxSide, "downscale decoded tiles to at most this many pixels (0 keeps the source)")
	cmd.Flags().StringVar(&opts.linked, "linked-tiles", "", "reference SVG tiles as <base><tile-id> instead of embedding them")
	cmd.Flags().StringVar(&opts.sessionID, "session", opts.sessionID, "saved session name")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "do not save the render as a session")
	addOutputFlags(cmd.Flags(), &opts.out)
	params = addParamFlags(cmd.Flags())
	_ = cmd.MarkFlagRequired("logo")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, tiles []string, ro *renderOpts, pf *paramFlags) error {
	ctx := cmd.Context()

	params := c.cfg().Render
	if err := pf.apply(cmd, &params); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, ro.out.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := pipeline.Options{
		Logo:        ro.logo,
		Tiles:       tiles,
		TileMaxSide: ro.tileMaxSide,
		Params:      params,
		Formats:     parseFormats(ro.out.formats),
		Quality:     ro.out.quality,
		MaxSide:     ro.out.maxSide,
		LinkedTiles: ro.linked,
		Refresh:     ro.out.refresh,
		Logger:      c.Logger,
	}

	spinner := newSpinnerWithContext(ctx, "Rendering mosaic...")
	opts.OnStage = spinner.OnStage
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	snap := result.Snapshot
	printSuccess("Rendered %s mosaic", StyleHighlight.Render(string(snap.Params.Layout)))
	printRenderStats(result.Stats.TileCount, result.Stats.Placements, snap.Params, result.CacheInfo.ExportHit)
	for _, w := range result.Warnings {
		printWarning("%s", w.Message)
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, ro.out.output, result.Session.Logo().Name)
	for _, p := range paths {
		printFile(p)
	}
	if err != nil {
		return err
	}

	if !ro.noSave {
		id, err := c.saveSession(ctx, result.Session, ro.sessionID, opts)
		if err != nil {
			printWarning("Session not saved: %v", err)
		} else {
			printNewline()
			printNextStep("Export the vector version", fmt.Sprintf("%s export -f svg --session %s", appName, id))
		}
	}
	return nil
}

// saveSession stores the session's last render under id together with the
// sources and loader settings in opts, and returns the saved ID. An empty id
// is replaced by a generated one.
func (c *CLI) saveSession(ctx context.Context, sess *session.Session, id string, opts pipeline.Options) (string, error) {
	store, err := c.newStore()
	if err != nil {
		return "", err
	}
	defer store.Close()

	saved, err := sess.Save(id, absSources([]string{opts.Logo})[0], absSources(opts.Tiles), session.DefaultTTL)
	if err != nil {
		return "", err
	}
	saved.TileMaxSide = opts.TileMaxSide
	saved.TileQuality = opts.SnapshotQuality()
	if err := store.Set(ctx, saved); err != nil {
		return "", err
	}
	c.Logger.Debug("saved session", "id", saved.ID, "dir", store.Path())
	return saved.ID, nil
}
