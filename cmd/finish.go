package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	finishInterrupted bool
	finishAbandoned   bool
)

// finishCmd represents the finish command
var finishCmd = &cobra.Command{
	Use:   "finish [session-id]",
	Short: "Finish a running session",
	Long: `Finish a session. A full work session bumps the linked task's pomodoro
count and today's focus statistics. Pass --interrupted if it was cut short,
or --abandoned to close it without recording an end time.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sessionID := args[0]

		wasCompleted := !finishAbandoned
		if err := app.sessions.CompleteSession(ctx, sessionID, wasCompleted, finishInterrupted); err != nil {
			return fmt.Errorf("failed to finish session: %w", err)
		}

		session, err := app.sessions.GetSession(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to reload session: %w", err)
		}

		if wasCompleted && !finishInterrupted {
			if err := app.notifier.NotifySessionComplete(session.Type, session.DurationMinutes); err != nil {
				// Notification failure is not fatal
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: notification failed: %v\n", err)
			}
		}

		if jsonOutput {
			return printJSON(session)
		}

		switch {
		case finishAbandoned:
			fmt.Printf("🚮 Session abandoned: %s\n", session.ID)
		case finishInterrupted:
			fmt.Printf("⏹️  Session interrupted: %s\n", session.ID)
		case session.IsWorkSession():
			fmt.Printf("🎉 Pomodoro complete! %d minutes of focus.\n", session.DurationMinutes)
		default:
			fmt.Printf("☕ Break over. Back to work!\n")
		}
		return nil
	},
}

func init() {
	finishCmd.Flags().BoolVar(&finishInterrupted, "interrupted", false, "Mark the session as cut short")
	finishCmd.Flags().BoolVar(&finishAbandoned, "abandoned", false, "Close the session without an end time")
}
