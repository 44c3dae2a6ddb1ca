// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pomokit/pomokit/internal/domain"
	"github.com/pomokit/pomokit/internal/ports"
	"github.com/pomokit/pomokit/internal/services"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server   *server.MCPServer
	tasks    *services.TaskService
	sessions *services.SessionService
	stats    *services.StatsService
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(tasks *services.TaskService, sessions *services.SessionService, stats *services.StatsService) *Server {
	s := &Server{
		tasks:    tasks,
		sessions: sessions,
		stats:    stats,
	}

	s.server = server.NewMCPServer(
		"pomokit",
		"1.0.0",
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	// Tool: add_task
	addTaskTool := mcp.NewTool(
		"add_task",
		mcp.WithDescription("Create a new task"),
		mcp.WithString(
			"text",
			mcp.Required(),
			mcp.Description("The text of the task"),
		),
		mcp.WithNumber(
			"priority",
			mcp.Description("Optional priority; higher sorts first (default: 0)"),
		),
		mcp.WithNumber(
			"estimated_pomodoros",
			mcp.Description("Optional estimated pomodoro count (default: 1)"),
		),
	)
	s.server.AddTool(addTaskTool, s.handleAddTask)

	// Tool: list_tasks
	listTasksTool := mcp.NewTool(
		"list_tasks",
		mcp.WithDescription("List all tasks, highest priority first, optionally filtered by completion"),
		mcp.WithString(
			"status",
			mcp.Description("Filter tasks by status: open, completed"),
			mcp.Enum("open", "completed"),
		),
	)
	s.server.AddTool(listTasksTool, s.handleListTasks)

	// Tool: search_tasks
	searchTasksTool := mcp.NewTool(
		"search_tasks",
		mcp.WithDescription("Fuzzy-search tasks by text"),
		mcp.WithString(
			"query",
			mcp.Required(),
			mcp.Description("The text to search for"),
		),
	)
	s.server.AddTool(searchTasksTool, s.handleSearchTasks)

	// Tool: complete_task
	completeTaskTool := mcp.NewTool(
		"complete_task",
		mcp.WithDescription("Mark a task as completed (or re-open it)"),
		mcp.WithString(
			"task_id",
			mcp.Required(),
			mcp.Description("The ID of the task to complete"),
		),
		mcp.WithBoolean(
			"completed",
			mcp.Description("Target completion state (default: true)"),
		),
	)
	s.server.AddTool(completeTaskTool, s.handleCompleteTask)

	// Tool: update_task
	updateTaskTool := mcp.NewTool(
		"update_task",
		mcp.WithDescription("Edit a task's text, priority and estimate"),
		mcp.WithString(
			"task_id",
			mcp.Required(),
			mcp.Description("The ID of the task to update"),
		),
		mcp.WithString(
			"text",
			mcp.Required(),
			mcp.Description("The new task text"),
		),
		mcp.WithNumber(
			"priority",
			mcp.Description("The new priority (default: 0)"),
		),
		mcp.WithNumber(
			"estimated_pomodoros",
			mcp.Description("The new estimated pomodoro count (default: 1)"),
		),
	)
	s.server.AddTool(updateTaskTool, s.handleUpdateTask)

	// Tool: delete_task
	deleteTaskTool := mcp.NewTool(
		"delete_task",
		mcp.WithDescription("Delete a task; its session history survives unlinked"),
		mcp.WithString(
			"task_id",
			mcp.Required(),
			mcp.Description("The ID of the task to delete"),
		),
	)
	s.server.AddTool(deleteTaskTool, s.handleDeleteTask)

	// Tool: start_session
	startSessionTool := mcp.NewTool(
		"start_session",
		mcp.WithDescription("Start a new pomodoro session"),
		mcp.WithString(
			"task_id",
			mcp.Description("Optional task ID to associate with the session"),
		),
		mcp.WithString(
			"session_type",
			mcp.Description("Session type (default: work)"),
			mcp.Enum("work", "short_break", "long_break"),
		),
		mcp.WithNumber(
			"duration_minutes",
			mcp.Description("Session length in minutes (default: 25)"),
		),
	)
	s.server.AddTool(startSessionTool, s.handleStartSession)

	// Tool: complete_session
	completeSessionTool := mcp.NewTool(
		"complete_session",
		mcp.WithDescription("Finish a running session and update the daily aggregates"),
		mcp.WithString(
			"session_id",
			mcp.Required(),
			mcp.Description("The ID of the session to finish"),
		),
		mcp.WithBoolean(
			"interrupted",
			mcp.Description("Whether the session was cut short (default: false)"),
		),
		mcp.WithBoolean(
			"abandoned",
			mcp.Description("Close the session without recording an end time (default: false)"),
		),
	)
	s.server.AddTool(completeSessionTool, s.handleCompleteSession)

	// Tool: task_history
	taskHistoryTool := mcp.NewTool(
		"task_history",
		mcp.WithDescription("Get pomodoro session history and total focus time for a task"),
		mcp.WithString(
			"task_id",
			mcp.Required(),
			mcp.Description("The ID of the task to get history for"),
		),
	)
	s.server.AddTool(taskHistoryTool, s.handleTaskHistory)

	// Tool: daily_stats
	dailyStatsTool := mcp.NewTool(
		"daily_stats",
		mcp.WithDescription("Get recent per-day focus aggregates, newest first"),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum number of days to return (default: 30)"),
		),
	)
	s.server.AddTool(dailyStatsTool, s.handleDailyStats)

	// Tool: stats_for_date
	statsForDateTool := mcp.NewTool(
		"stats_for_date",
		mcp.WithDescription("Get the focus aggregate for one calendar date"),
		mcp.WithString(
			"date",
			mcp.Required(),
			mcp.Description("The date in YYYY-MM-DD form"),
		),
	)
	s.server.AddTool(statsForDateTool, s.handleStatsForDate)

	// Tool: focus_heatmap
	heatmapTool := mcp.NewTool(
		"focus_heatmap",
		mcp.WithDescription("Get the contribution-style heatmap of completed work sessions"),
		mcp.WithNumber(
			"days",
			mcp.Description("Size of the trailing window in days (default: 365)"),
		),
	)
	s.server.AddTool(heatmapTool, s.handleFocusHeatmap)

	// Tool: export_data
	s.server.AddTool(
		mcp.NewTool(
			"export_data",
			mcp.WithDescription("Export all tasks, sessions and daily stats as JSON"),
		),
		s.handleExportData,
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

// handleAddTask handles the add_task tool.
func (s *Server) handleAddTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required: " + err.Error()), nil
	}

	priority := int(request.GetFloat("priority", 0))
	estimated := int(request.GetFloat("estimated_pomodoros", 0))

	task, err := s.tasks.AddTask(ctx, text, priority, estimated)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add task: %v", err)), nil
	}

	return marshalResult(task)
}

// handleListTasks handles the list_tasks tool.
func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := request.GetString("status", "")

	tasks, err := s.tasks.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	filtered := make([]*domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if status == "open" && task.Completed {
			continue
		}
		if status == "completed" && !task.Completed {
			continue
		}
		filtered = append(filtered, task)
	}

	result := map[string]interface{}{
		"tasks":       filtered,
		"total_count": len(filtered),
	}
	if status != "" {
		result["filter_status"] = status
	}

	return marshalResult(result)
}

// handleSearchTasks handles the search_tasks tool.
func (s *Server) handleSearchTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required: " + err.Error()), nil
	}

	tasks, err := s.tasks.SearchTasks(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}

	result := map[string]interface{}{
		"query":       query,
		"tasks":       tasks,
		"total_count": len(tasks),
	}

	return marshalResult(result)
}

// handleCompleteTask handles the complete_task tool.
func (s *Server) handleCompleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}

	completed := request.GetBool("completed", true)

	if err := s.tasks.CompleteTask(ctx, taskID, completed); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to complete task: %v", err)), nil
	}

	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	return marshalResult(task)
}

// handleUpdateTask handles the update_task tool.
func (s *Server) handleUpdateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}

	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required: " + err.Error()), nil
	}

	req := services.UpdateTaskRequest{
		ID:                 taskID,
		Text:               text,
		Priority:           int(request.GetFloat("priority", 0)),
		EstimatedPomodoros: int(request.GetFloat("estimated_pomodoros", 1)),
	}

	if err := s.tasks.UpdateTask(ctx, req); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update task: %v", err)), nil
	}

	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	return marshalResult(task)
}

// handleDeleteTask handles the delete_task tool.
func (s *Server) handleDeleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}

	if err := s.tasks.DeleteTask(ctx, taskID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete task: %v", err)), nil
	}

	result := map[string]interface{}{
		"task_id": taskID,
		"deleted": true,
	}

	return marshalResult(result)
}

// handleStartSession handles the start_session tool.
func (s *Server) handleStartSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var taskID *string
	if t := request.GetString("task_id", ""); t != "" {
		taskID = &t
	}

	sessionType := domain.SessionType(request.GetString("session_type", string(domain.SessionTypeWork)))

	durationMinutes := int(request.GetFloat("duration_minutes", 0))
	if durationMinutes <= 0 {
		durationMinutes = 25
	}

	session, err := s.sessions.StartSession(ctx, services.StartSessionRequest{
		TaskID:          taskID,
		Type:            sessionType,
		DurationMinutes: durationMinutes,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start session: %v", err)), nil
	}

	return marshalResult(session)
}

// handleCompleteSession handles the complete_session tool.
func (s *Server) handleCompleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id is required: " + err.Error()), nil
	}

	interrupted := request.GetBool("interrupted", false)
	abandoned := request.GetBool("abandoned", false)

	if err := s.sessions.CompleteSession(ctx, sessionID, !abandoned, interrupted); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to complete session: %v", err)), nil
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload session: %w", err)
	}

	return marshalResult(session)
}

// handleTaskHistory handles the task_history tool.
func (s *Server) handleTaskHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}

	withStats, err := s.tasks.TaskWithStats(ctx, taskID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get task history: %v", err)), nil
	}

	return marshalResult(withStats)
}

// handleDailyStats handles the daily_stats tool.
func (s *Server) handleDailyStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(request.GetFloat("limit", 0))

	stats, err := s.stats.DailyStats(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}

	result := map[string]interface{}{
		"daily_stats": stats,
		"total_count": len(stats),
	}

	return marshalResult(result)
}

// handleStatsForDate handles the stats_for_date tool.
func (s *Server) handleStatsForDate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := request.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date is required: " + err.Error()), nil
	}

	stat, err := s.stats.StatsForDate(ctx, date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get stats: %v", err)), nil
	}

	return marshalResult(stat)
}

// handleFocusHeatmap handles the focus_heatmap tool.
func (s *Server) handleFocusHeatmap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := int(request.GetFloat("days", 0))

	points, err := s.stats.Heatmap(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get heatmap: %w", err)
	}

	result := map[string]interface{}{
		"heatmap":     points,
		"total_count": len(points),
	}

	return marshalResult(result)
}

// handleExportData handles the export_data tool.
func (s *Server) handleExportData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	export, err := s.stats.Export(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export data: %w", err)
	}

	return marshalResult(export)
}

func marshalResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
