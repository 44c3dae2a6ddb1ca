package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pomokit/pomokit/internal/domain"
	"github.com/pomokit/pomokit/internal/services"
)

var (
	startTaskID   string
	startType     string
	startDuration int
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a pomodoro session",
	Long: `Start a new work or break session. The session is recorded immediately;
finish it with "pomokit finish" when the timer runs out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		sessionType := domain.SessionType(startType)

		duration := startDuration
		if duration <= 0 {
			duration = int(app.config.DurationForType(startType).Minutes())
			if duration <= 0 {
				duration = 25
			}
		}

		req := services.StartSessionRequest{
			Type:            sessionType,
			DurationMinutes: duration,
		}
		if startTaskID != "" {
			req.TaskID = &startTaskID
		}

		session, err := app.sessions.StartSession(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}

		if jsonOutput {
			return printJSON(session)
		}

		icon := "🍅"
		if !session.IsWorkSession() {
			icon = "☕"
		}
		fmt.Printf("%s Session started: %s for %d minutes (ID: %s)\n",
			icon, session.Type, session.DurationMinutes, session.ID)
		if session.TaskID != nil {
			fmt.Printf("   Task: %s\n", *session.TaskID)
		}
		return nil
	},
}

func init() {
	startCmd.Flags().StringVarP(&startTaskID, "task", "t", "", "Task ID to associate with the session")
	startCmd.Flags().StringVar(&startType, "type", "work", "Session type: work, short_break or long_break")
	startCmd.Flags().IntVarP(&startDuration, "duration", "d", 0, "Session length in minutes (default from config)")
}
