package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/logomosaic/pkg/cache"
)

var cacheKinds = []string{cache.KindTile, cache.KindLogo, cache.KindArtifact}

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the tile and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cacheStatsCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// fileCacheDir returns the directory of the file cache backend. It fails
// when another backend is configured.
func (c *CLI) fileCacheDir() (string, error) {
	cfg := c.cfg().Cache
	if cfg.Backend != "" && cfg.Backend != cache.BackendFile {
		return "", fmt.Errorf("cache backend %q is not managed by the CLI", cfg.Backend)
	}
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return dir, nil
}

// openFileCache opens the file cache, or returns nil when it has never
// been written.
func (c *CLI) openFileCache() (*cache.FileCache, error) {
	dir, err := c.fileCacheDir()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc.(*cache.FileCache), nil
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var kinds []string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached tiles, logos and artifacts",
		Example: `  logomosaic cache clear
  logomosaic cache clear --kind artifact`,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, k := range kinds {
				if !slices.Contains(cacheKinds, k) {
					return fmt.Errorf("unknown cache kind %q (want tile, logo or artifact)", k)
				}
			}
			fc, err := c.openFileCache()
			if err != nil {
				return err
			}
			if fc == nil {
				printInfo("Cache is empty")
				return nil
			}

			n, err := fc.Clear(cmd.Context(), kinds...)
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached entries", n)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "only clear these kinds: tile, logo, artifact")
	return cmd
}

// cachePruneCommand creates the "cache prune" subcommand.
func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired and unreadable cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.openFileCache()
			if err != nil || fc == nil {
				return err
			}
			n, err := fc.Prune(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Pruned %d expired entries", n)
			return nil
		},
	}
}

// cacheStatsCommand creates the "cache stats" subcommand.
func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache usage per entry kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.openFileCache()
			if err != nil {
				return err
			}
			if fc == nil {
				printInfo("Cache is empty")
				return nil
			}
			usage, err := fc.Usage(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(renderCacheUsage(usage))
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// renderCacheUsage tabulates usage in tile, logo, artifact order with a
// total row.
func renderCacheUsage(usage map[string]cache.KindUsage) string {
	var total cache.KindUsage
	rows := make([][]string, 0, len(cacheKinds)+1)
	for _, kind := range cacheKinds {
		u := usage[kind]
		total.Entries += u.Entries
		total.Bytes += u.Bytes
		rows = append(rows, []string{kind, fmt.Sprintf("%d", u.Entries), formatBytes(u.Bytes)})
	}
	rows = append(rows, []string{"total", fmt.Sprintf("%d", total.Entries), formatBytes(total.Bytes)})

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Kind", "Entries", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleValue
			default:
				return StyleNumber
			}
		}).
		Render()
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.fileCacheDir()
			if err != nil {
				return err
			}
			fmt.Println(dir)
			return nil
		},
	}
}
