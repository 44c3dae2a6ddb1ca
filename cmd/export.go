package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportOutput string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all data as JSON",
	Long:  `Export every task, session and daily aggregate as a single JSON document.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		export, err := app.stats.Export(ctx)
		if err != nil {
			return fmt.Errorf("failed to export data: %w", err)
		}

		jsonData, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal export: %w", err)
		}

		if exportOutput == "" {
			fmt.Println(string(jsonData))
			return nil
		}

		if err := os.WriteFile(exportOutput, append(jsonData, '\n'), 0600); err != nil {
			return fmt.Errorf("failed to write export file: %w", err)
		}

		fmt.Printf("💾 Exported %d tasks, %d sessions, %d daily stats to %s\n",
			len(export.Tasks), len(export.PomodoroSessions), len(export.DailyStats), exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
}
