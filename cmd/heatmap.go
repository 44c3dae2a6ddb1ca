package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var heatmapDays int

// Intensity glyphs indexed by heatmap level 0-4.
var heatmapGlyphs = []string{"·", "░", "▒", "▓", "█"}

// heatmapCmd represents the heatmap command
var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Show the focus heatmap",
	Long: `Show a contribution-style heatmap of completed work sessions over the
trailing window. Days without sessions are omitted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		points, err := app.stats.Heatmap(ctx, heatmapDays)
		if err != nil {
			return fmt.Errorf("failed to get heatmap: %w", err)
		}

		if jsonOutput {
			return printJSON(map[string]interface{}{
				"heatmap": points,
				"count":   len(points),
			})
		}

		if len(points) == 0 {
			fmt.Println("No completed work sessions in the window.")
			return nil
		}

		fmt.Printf("🔥 Focus heatmap (%d active days):\n\n", len(points))
		for _, p := range points {
			level := p.Level
			if level < 0 {
				level = 0
			}
			if level >= len(heatmapGlyphs) {
				level = len(heatmapGlyphs) - 1
			}
			bar := strings.Repeat(heatmapGlyphs[level], level+1)
			fmt.Printf("%s  %-5s %2d sessions\n", p.Date, bar, p.Count)
		}

		return nil
	},
}

func init() {
	heatmapCmd.Flags().IntVarP(&heatmapDays, "days", "d", 0, "Size of the trailing window in days (default 365)")
}
