package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pomokit/pomokit/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server exposes the task list, session log and focus statistics as tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.ErrOrStderr(), "🚀 Starting MCP server on stdio. Press Ctrl+C to stop.")

		ctx := setupSignalHandler()

		server := mcp.NewServer(app.tasks, app.sessions, app.stats)
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}

		return nil
	},
}
