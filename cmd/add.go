package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	addPriority int
	addEstimate int
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a new task",
	Long:  `Add a new task to the pomokit task list.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		text := strings.Join(args, " ")

		task, err := app.tasks.AddTask(ctx, text, addPriority, addEstimate)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		if jsonOutput {
			return printJSON(task)
		}

		fmt.Printf("✅ Task added: %s (ID: %s)\n", task.Text, task.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().IntVarP(&addPriority, "priority", "p", 0, "Task priority; higher sorts first")
	addCmd.Flags().IntVarP(&addEstimate, "estimate", "e", 0, "Estimated number of pomodoros")
}
