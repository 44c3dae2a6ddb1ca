package domain

import "time"

// DailyStat is the per-date aggregate row. It is a cache of a deterministic
// query over the session/task log, maintained incrementally: pomodoros and
// work minutes count qualifying work sessions attributed to the date, tasks
// counts completion toggles on the date.
type DailyStat struct {
	Date               string `json:"date"`
	PomodorosCompleted int    `json:"pomodoros_completed"`
	TotalWorkTime      int    `json:"total_work_time"`
	TasksCompleted     int    `json:"tasks_completed"`
}

// HeatmapPoint is one day of the contribution heatmap. Level buckets the
// qualifying-session count for calendar rendering.
type HeatmapPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// HeatmapLevel maps a day's qualifying-session count to its 0-4 bucket.
func HeatmapLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 2:
		return 1
	case count <= 5:
		return 2
	case count <= 9:
		return 3
	default:
		return 4
	}
}

// TaskWithStats bundles a task with its session history and the total work
// minutes spent on it (work sessions not interrupted).
type TaskWithStats struct {
	Task             Task               `json:"task"`
	PomodoroSessions []*PomodoroSession `json:"pomodoro_sessions"`
	TotalTimeSpent   int                `json:"total_time_spent"`
}

// Export is the full-database snapshot payload.
type Export struct {
	Tasks            []*Task            `json:"tasks"`
	PomodoroSessions []*PomodoroSession `json:"pomodoro_sessions"`
	DailyStats       []*DailyStat       `json:"daily_stats"`
	ExportedAt       time.Time          `json:"exported_at"`
}

// DateKey formats a timestamp as the daily_stats primary key (UTC calendar
// date). Aggregates are keyed by the date of the triggering event, not the
// session's start date.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
