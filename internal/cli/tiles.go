package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/logomosaic/pkg/mosaic"
	"github.com/matzehuels/logomosaic/pkg/pipeline"
	"github.com/matzehuels/logomosaic/pkg/source"
)

// defaultTileListLimit mirrors the thumbnail strip of the editor.
const defaultTileListLimit = 120

// tilesCommand creates the tiles command.
func (c *CLI) tilesCommand() *cobra.Command {
	var (
		limit   int
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "tiles <paths>...",
		Short: "List the tiles a set of files and folders provides",
		Example: `  logomosaic tiles photos/
  logomosaic tiles --limit 0 photos/ more/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tileCache, err := c.newCache(ctx, noCache)
			if err != nil {
				return err
			}
			defer tileCache.Close()

			loader := source.NewLoader(tileCache, nil, c.Logger)
			loader.MaxSide = pipeline.DefaultTileMaxSide

			prog := newProgress(c.Logger)
			tiles, err := loader.LoadTiles(ctx, args)
			if err != nil {
				return err
			}
			prog.done("loaded tiles", "count", len(tiles), "sources", len(args))

			fmt.Println(renderTileTable(tiles, limit))
			if limit > 0 && len(tiles) > limit {
				printDetail("%d more not shown", len(tiles)-limit)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultTileListLimit, "maximum tiles to list (0 lists all)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// renderTileTable lays out tiles as a table, at most limit rows when
// limit is positive.
func renderTileTable(tiles []*mosaic.Tile, limit int) string {
	n := len(tiles)
	if limit > 0 {
		n = min(n, limit)
	}
	rows := make([][]string, 0, n)
	for i, t := range tiles[:n] {
		w, h := t.Size()
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			t.Name,
			fmt.Sprintf("%d×%d", w, h),
			fmt.Sprintf("%d KB", (len(t.Encoded)+1023)/1024),
			t.ID,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Name", "Size", "JPEG", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0 || col == 4:
				return StyleDim
			case col == 2 || col == 3:
				return StyleNumber
			default:
				return StyleValue
			}
		}).
		Render()
}
