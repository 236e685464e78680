package services

import (
	"context"
	"fmt"

	"github.com/goaltracker/core/internal/domain/entities"
	"github.com/goaltracker/core/internal/infrastructure/logger"
	"github.com/goaltracker/core/internal/ports"
)

// GoalService handles goal CRUD operations
type GoalService struct {
	goalRepo ports.GoalRepository
	logger   *logger.Logger
}

// NewGoalService creates a new goal service
func NewGoalService(goalRepo ports.GoalRepository, logger *logger.Logger) *GoalService {
	return &GoalService{
		goalRepo: goalRepo,
		logger:   logger,
	}
}

// Create adds a new goal for the user
func (s *GoalService) Create(ctx context.Context, userID int, req ports.CreateGoalRequest) (*entities.Goal, error) {
	goal := &entities.Goal{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  req.TargetDate,
	}

	if err := s.goalRepo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	s.logger.LogUserAction(userID, "create_goal", map[string]interface{}{
		"goal_id": goal.ID,
		"title":   goal.Title,
	})
	return goal, nil
}

// Get returns one of the user's goals by ID
func (s *GoalService) Get(ctx context.Context, userID, goalID int) (*entities.Goal, error) {
	return s.goalRepo.GetByID(ctx, goalID, userID)
}

// List returns all goals owned by the user
func (s *GoalService) List(ctx context.Context, userID int) ([]entities.Goal, error) {
	goals, err := s.goalRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

// Update rewrites the goal's title, description and deadline
func (s *GoalService) Update(ctx context.Context, userID, goalID int, req ports.UpdateGoalRequest) (*entities.Goal, error) {
	goal, err := s.goalRepo.GetByID(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}

	goal.Title = req.Title
	goal.Description = req.Description
	goal.TargetDate = req.TargetDate

	if err := s.goalRepo.Update(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	s.logger.LogUserAction(userID, "update_goal", map[string]interface{}{
		"goal_id": goal.ID,
	})
	return goal, nil
}

// Delete removes the goal and all of its tasks
func (s *GoalService) Delete(ctx context.Context, userID, goalID int) error {
	if err := s.goalRepo.Delete(ctx, goalID, userID); err != nil {
		return err
	}

	s.logger.LogUserAction(userID, "delete_goal", map[string]interface{}{
		"goal_id": goalID,
	})
	return nil
}
