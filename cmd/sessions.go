package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions [task-id]",
	Short: "Show a task's session history",
	Long:  `Show the pomodoro sessions recorded for a task, newest first, with the total time spent.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		taskID := args[0]

		withStats, err := app.tasks.TaskWithStats(ctx, taskID)
		if err != nil {
			return fmt.Errorf("failed to get task history: %w", err)
		}

		if jsonOutput {
			return printJSON(withStats)
		}

		fmt.Printf("📋 %s\n", withStats.Task.Text)
		fmt.Printf("   🍅 %d/%d pomodoros, %d minutes of focus\n\n",
			withStats.Task.ActualPomodoros, withStats.Task.EstimatedPomodoros, withStats.TotalTimeSpent)

		if len(withStats.PomodoroSessions) == 0 {
			fmt.Println("No sessions recorded.")
			return nil
		}

		for _, s := range withStats.PomodoroSessions {
			state := "running"
			switch {
			case s.Interrupted:
				state = "interrupted"
			case s.CompletedAt != nil:
				state = "completed"
			}
			fmt.Printf("%s  %-11s  %2d min  %s\n",
				s.StartedAt.Local().Format("2006-01-02 15:04"), s.Type, s.DurationMinutes, state)
		}

		return nil
	},
}
