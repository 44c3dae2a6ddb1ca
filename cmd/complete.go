package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var completeReopen bool

// completeCmd represents the complete command
var completeCmd = &cobra.Command{
	Use:   "complete [task-id]",
	Short: "Mark a task as completed",
	Long: `Mark a task as completed. Completing a task bumps today's
tasks-completed counter; use --reopen to undo without touching it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		taskID := args[0]

		if err := app.tasks.CompleteTask(ctx, taskID, !completeReopen); err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		task, err := app.tasks.GetTask(ctx, taskID)
		if err != nil {
			return fmt.Errorf("failed to reload task: %w", err)
		}

		if jsonOutput {
			return printJSON(task)
		}

		if completeReopen {
			fmt.Printf("↩️  Task reopened: %s\n", task.Text)
		} else {
			fmt.Printf("🎉 Task completed: %s\n", task.Text)
		}
		return nil
	},
}

func init() {
	completeCmd.Flags().BoolVar(&completeReopen, "reopen", false, "Mark the task as not completed")
}
