package cli

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		sessionID = lastSession
		tui       bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [x y]",
		Short: "Show which tile is painted at a canvas point",
		Long: `Inspect replays a saved render and reports the tile under a point in canvas
pixels. With --tui it opens an interactive inspector instead.`,
		Example: `  logomosaic inspect 640 512
  logomosaic inspect --tui --session poster`,
		Args: func(cmd *cobra.Command, args []string) error {
			if tui {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			r, err := c.restoreSession(ctx, runner, sessionID)
			if err != nil {
				return err
			}

			if tui {
				model := NewInspectModel(r.sess, r.snap)
				final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
				if err != nil {
					return err
				}
				if m, ok := final.(*InspectModel); ok && m.Selected != nil {
					printSuccess("Selected %s", StyleValue.Render(m.Selected.Tile.Name))
					printDetail("%s", m.Selected.Tile.ID)
				}
				return nil
			}

			x, y, err := parsePoint(args[0], args[1])
			if err != nil {
				return err
			}
			printKeyValue("Point", fmt.Sprintf("%.0f, %.0f", x, y))
			printKeyValue("In logo", strconv.FormatBool(r.snap.Index.InsideLogo(x, y)))

			pt, ok := r.sess.HitTest(x, y)
			if !ok {
				printInfo("No tile at this point")
				return nil
			}
			printKeyValue("Tile", pt.Tile.Name)
			printKeyValue("ID", pt.Tile.ID)
			printKeyValue("Rect", fmt.Sprintf("%.1f, %.1f  %.1f×%.1f", pt.X, pt.Y, pt.W, pt.H))
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", sessionID, "saved session to inspect")
	cmd.Flags().BoolVar(&tui, "tui", false, "browse the render interactively")

	return cmd
}

// parsePoint parses canvas coordinates.
func parsePoint(xs, ys string) (float64, float64, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return 0, 0, errs.New(errs.ErrCodeInvalidParams, "invalid x coordinate: %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return 0, 0, errs.New(errs.ErrCodeInvalidParams, "invalid y coordinate: %q", ys)
	}
	return x, y, nil
}
