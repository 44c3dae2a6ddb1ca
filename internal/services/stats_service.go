package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pomokit/pomokit/internal/domain"
	"github.com/pomokit/pomokit/internal/ports"
)

// StatsService exposes the read-only views over the log and aggregates.
type StatsService struct {
	storage ports.Storage
}

// NewStatsService creates a new stats service.
func NewStatsService(storage ports.Storage) *StatsService {
	return &StatsService{storage: storage}
}

// DailyStats returns up to limit aggregate rows, newest first.
func (s *StatsService) DailyStats(ctx context.Context, limit int) ([]*domain.DailyStat, error) {
	return s.storage.Stats().DailyStats(ctx, limit)
}

// StatsForDate returns the aggregate for one calendar date, zero-valued
// when nothing was recorded.
func (s *StatsService) StatsForDate(ctx context.Context, date string) (*domain.DailyStat, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", date, err)
	}
	return s.storage.Stats().StatsForDate(ctx, date)
}

// TodayStats returns the aggregate for the current UTC date.
func (s *StatsService) TodayStats(ctx context.Context) (*domain.DailyStat, error) {
	return s.storage.Stats().StatsForDate(ctx, domain.DateKey(time.Now()))
}

// Heatmap returns the contribution heatmap for the trailing window.
func (s *StatsService) Heatmap(ctx context.Context, days int) ([]*domain.HeatmapPoint, error) {
	return s.storage.Stats().Heatmap(ctx, days)
}

// Export returns a full snapshot of the store.
func (s *StatsService) Export(ctx context.Context) (*domain.Export, error) {
	return s.storage.Stats().Export(ctx)
}
