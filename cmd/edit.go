package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pomokit/pomokit/internal/services"
)

var (
	editText     string
	editPriority int
	editEstimate int
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Edit a task",
	Long:  `Edit a task's text, priority or pomodoro estimate. Flags that are not set keep the current value.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		taskID := args[0]

		task, err := app.tasks.GetTask(ctx, taskID)
		if err != nil {
			return fmt.Errorf("failed to load task: %w", err)
		}

		req := services.UpdateTaskRequest{
			ID:                 task.ID,
			Text:               task.Text,
			Priority:           task.Priority,
			EstimatedPomodoros: task.EstimatedPomodoros,
		}
		if cmd.Flags().Changed("text") {
			req.Text = editText
		}
		if cmd.Flags().Changed("priority") {
			req.Priority = editPriority
		}
		if cmd.Flags().Changed("estimate") {
			req.EstimatedPomodoros = editEstimate
		}

		if err := app.tasks.UpdateTask(ctx, req); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		updated, err := app.tasks.GetTask(ctx, taskID)
		if err != nil {
			return fmt.Errorf("failed to reload task: %w", err)
		}

		if jsonOutput {
			return printJSON(updated)
		}

		fmt.Printf("✏️  Task updated: %s\n", updated.Text)
		return nil
	},
}

func init() {
	editCmd.Flags().StringVarP(&editText, "text", "t", "", "New task text")
	editCmd.Flags().IntVarP(&editPriority, "priority", "p", 0, "New priority")
	editCmd.Flags().IntVarP(&editEstimate, "estimate", "e", 0, "New pomodoro estimate")
}
