package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pomokit/pomokit/internal/domain"
)

var listStatus string

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long:  `List all tasks, highest priority first, or filter by completion status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		tasks, err := app.tasks.ListTasks(ctx)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if listStatus != "" {
			filtered := make([]*domain.Task, 0, len(tasks))
			for _, task := range tasks {
				if listStatus == "open" && task.Completed {
					continue
				}
				if listStatus == "completed" && !task.Completed {
					continue
				}
				filtered = append(filtered, task)
			}
			tasks = filtered
		}

		if jsonOutput {
			return printJSON(map[string]interface{}{
				"tasks": tasks,
				"count": len(tasks),
			})
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		fmt.Printf("📋 Tasks (%d):\n\n", len(tasks))
		for _, task := range tasks {
			fmt.Printf("%s %s (ID: %s)\n", taskStatusIcon(task), task.Text, task.ID[:8])
			fmt.Printf("   🍅 %d/%d", task.ActualPomodoros, task.EstimatedPomodoros)
			if task.Priority != 0 {
				fmt.Printf("   priority %d", task.Priority)
			}
			fmt.Println()
		}

		return nil
	},
}

func taskStatusIcon(task *domain.Task) string {
	if task.Completed {
		return "✅"
	}
	return "⬜"
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status: open or completed")
}
