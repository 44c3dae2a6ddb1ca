package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Fuzzy-search tasks",
	Long:  `Search tasks by text using fuzzy matching, best matches first.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		query := strings.Join(args, " ")

		tasks, err := app.tasks.SearchTasks(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to search tasks: %w", err)
		}

		if jsonOutput {
			return printJSON(map[string]interface{}{
				"query": query,
				"tasks": tasks,
				"count": len(tasks),
			})
		}

		if len(tasks) == 0 {
			fmt.Printf("No tasks matching %q.\n", query)
			return nil
		}

		fmt.Printf("🔍 Matches for %q (%d):\n\n", query, len(tasks))
		for _, task := range tasks {
			fmt.Printf("%s %s (ID: %s)\n", taskStatusIcon(task), task.Text, task.ID[:8])
		}

		return nil
	},
}
