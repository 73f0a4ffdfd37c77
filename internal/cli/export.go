package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/logomosaic/pkg/pipeline"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		out       outputFlags
		sessionID = lastSession
		linked    string
		params    *paramFlags
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a saved render",
		Long: `Export reloads a saved session and writes it again without moving any tile.

Tint and logo flags repaint the saved layout; geometry flags (canvas size,
columns, rows) re-place the tiles in the saved order.`,
		Example: `  logomosaic export -f svg
  logomosaic export -f png,jpeg --tint 25 --tint-color "#0b5fff" -o brand
  logomosaic export --session poster -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, out.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			r, err := c.restoreSession(ctx, runner, sessionID)
			if err != nil {
				return err
			}

			opts := r.opts
			if err := params.apply(cmd, &opts.Params); err != nil {
				return err
			}
			opts.Formats = parseFormats(out.formats)
			if out.formats == "" {
				opts.Formats = []string{pipeline.FormatSVG}
			}
			opts.Quality = out.quality
			opts.MaxSide = out.maxSide
			opts.LinkedTiles = linked
			opts.Refresh = out.refresh

			artifacts, hit, err := runner.ExportWithCacheInfo(ctx, r.sess, opts)
			if err != nil {
				return err
			}

			printSuccess("Exported session %s", StyleHighlight.Render(sessionID))
			snap := r.sess.Snapshot()
			printRenderStats(r.sess.Tiles().Len(), snap.Record.Len(), snap.Params, hit)
			paths, err := writeArtifacts(artifacts, opts.Formats, out.output, r.sess.Logo().Name)
			for _, p := range paths {
				printFile(p)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", sessionID, "saved session to export")
	cmd.Flags().StringVar(&linked, "linked-tiles", "", "reference SVG tiles as <base><tile-id> instead of embedding them")
	addOutputFlags(cmd.Flags(), &out)
	params = addParamFlags(cmd.Flags())

	return cmd
}
