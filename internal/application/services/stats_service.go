package services

import (
	"context"
	"fmt"

	"github.com/goaltracker/core/internal/domain/entities"
	"github.com/goaltracker/core/internal/infrastructure/logger"
	"github.com/goaltracker/core/internal/ports"
)

// StatsService computes the dashboard aggregates. Everything here is
// recomputed from the task list on each call rather than maintained as
// counters, so the numbers can never drift from the stored records.
type StatsService struct {
	taskRepo ports.TaskRepository
	goalRepo ports.GoalRepository
	logger   *logger.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(taskRepo ports.TaskRepository, goalRepo ports.GoalRepository, logger *logger.Logger) *StatsService {
	return &StatsService{
		taskRepo: taskRepo,
		goalRepo: goalRepo,
		logger:   logger,
	}
}

// Points returns the user's lifetime completed-task point total
func (s *StatsService) Points(ctx context.Context, userID int) (*ports.PointsResponse, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return &ports.PointsResponse{Total: entities.TotalPoints(tasks)}, nil
}

// Stats returns the dashboard summary: total and today's points, the
// completion streak, and per-goal progress.
func (s *StatsService) Stats(ctx context.Context, userID int) (*ports.StatsResponse, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	goals, err := s.goalRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	byGoal := make(map[int][]entities.Task)
	for _, t := range tasks {
		byGoal[t.GoalID] = append(byGoal[t.GoalID], t)
	}

	goalStats := make([]ports.GoalStats, 0, len(goals))
	for _, g := range goals {
		goalStats = append(goalStats, ports.GoalStats{
			GoalID:   g.ID,
			Title:    g.Title,
			Progress: entities.GoalProgress(byGoal[g.ID]),
		})
	}

	today := entities.Today()
	return &ports.StatsResponse{
		TotalPoints: entities.TotalPoints(tasks),
		TodayPoints: entities.PointsOn(tasks, today),
		Streak:      entities.Streak(tasks, today),
		Goals:       goalStats,
	}, nil
}
