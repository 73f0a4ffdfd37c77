package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
)

// sessionCommand creates the saved-session management command.
func (c *CLI) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage saved renders",
	}

	cmd.AddCommand(c.sessionListCommand())
	cmd.AddCommand(c.sessionShowCommand())
	cmd.AddCommand(c.sessionDeleteCommand())
	cmd.AddCommand(c.sessionCleanupCommand())

	return cmd
}

func (c *CLI) sessionListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newStore()
			if err != nil {
				return err
			}
			ids, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				printInfo("No saved sessions")
				return nil
			}
			for _, id := range ids {
				saved, err := store.Get(cmd.Context(), id)
				if err != nil || saved == nil || saved.Placement == nil {
					continue
				}
				p := saved.Placement.Params
				fmt.Printf("%s  %s\n", StyleHighlight.Render(fmt.Sprintf("%-12s", id)),
					StyleDim.Render(fmt.Sprintf("%s %d×%d · %d tiles · %s",
						p.Layout, p.CanvasWidth, p.CanvasHeight, len(saved.Placement.Tiles),
						saved.CreatedAt.Format(time.DateTime))))
			}
			return nil
		},
	}
}

func (c *CLI) sessionShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newStore()
			if err != nil {
				return err
			}
			saved, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if saved == nil || saved.Placement == nil {
				return errs.New(errs.ErrCodeSessionNotFound, "no saved session %q", args[0])
			}
			p := saved.Placement.Params
			printKeyValue("Session", saved.ID)
			printKeyValue("Logo", saved.Logo)
			for _, t := range saved.Tiles {
				printKeyValue("Tiles", t)
			}
			printKeyValue("Canvas", fmt.Sprintf("%d×%d", p.CanvasWidth, p.CanvasHeight))
			printKeyValue("Grid", fmt.Sprintf("%d×%d %s", p.Columns, p.Rows, p.Layout))
			printKeyValue("Placements", fmt.Sprintf("%d", len(saved.Placement.Tiles)))
			printKeyValue("Created", saved.CreatedAt.Format(time.DateTime))
			printKeyValue("Expires", saved.ExpiresAt.Format(time.DateTime))
			return nil
		},
	}
}

func (c *CLI) sessionDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newStore()
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted session %s", args[0])
			return nil
		},
	}
}

func (c *CLI) sessionCleanupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newStore()
			if err != nil {
				return err
			}
			if err := store.Cleanup(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Removed expired sessions")
			printDetail("Directory: %s", store.Path())
			return nil
		},
	}
}
