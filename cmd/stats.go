package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pomokit/pomokit/internal/domain"
)

var (
	statsDate  string
	statsLimit int
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show daily focus statistics",
	Long: `Show per-day pomodoro counts, focus minutes and completed tasks.
Defaults to recent days, newest first; use --date for a single day.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if statsDate != "" {
			stat, err := app.stats.StatsForDate(ctx, statsDate)
			if err != nil {
				return fmt.Errorf("failed to get stats: %w", err)
			}

			if jsonOutput {
				return printJSON(stat)
			}

			printDailyStat(stat)
			return nil
		}

		stats, err := app.stats.DailyStats(ctx, statsLimit)
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		if jsonOutput {
			return printJSON(map[string]interface{}{
				"daily_stats": stats,
				"count":       len(stats),
			})
		}

		if len(stats) == 0 {
			fmt.Println("No focus history yet. Start a session!")
			return nil
		}

		fmt.Printf("📊 Daily stats (%d days):\n\n", len(stats))
		for _, stat := range stats {
			printDailyStat(stat)
		}

		return nil
	},
}

func printDailyStat(stat *domain.DailyStat) {
	fmt.Printf("%s  🍅 %2d pomodoros  ⏱ %3d min  ✅ %d tasks\n",
		stat.Date, stat.PomodorosCompleted, stat.TotalWorkTime, stat.TasksCompleted)
}

func init() {
	statsCmd.Flags().StringVar(&statsDate, "date", "", "Show a single day (YYYY-MM-DD)")
	statsCmd.Flags().IntVarP(&statsLimit, "limit", "n", 0, "Maximum number of days to show (default 30)")
}
