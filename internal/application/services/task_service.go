package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/goaltracker/core/internal/adapters/grok"
	"github.com/goaltracker/core/internal/domain/entities"
	"github.com/goaltracker/core/internal/infrastructure/logger"
	"github.com/goaltracker/core/internal/ports"
)

// Suggestion sources reported back to the client.
const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// TaskService handles task CRUD, template generation and finalization
type TaskService struct {
	taskRepo  ports.TaskRepository
	goalRepo  ports.GoalRepository
	userRepo  ports.UserRepository
	suggester ports.TaskSuggester
	logger    *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, goalRepo ports.GoalRepository, userRepo ports.UserRepository, suggester ports.TaskSuggester, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		goalRepo:  goalRepo,
		userRepo:  userRepo,
		suggester: suggester,
		logger:    logger,
	}
}

// Create adds a task to one of the user's goals
func (s *TaskService) Create(ctx context.Context, userID int, req ports.CreateTaskRequest) (*entities.Task, error) {
	if _, err := s.goalRepo.GetByID(ctx, req.GoalID, userID); err != nil {
		return nil, err
	}

	task := &entities.Task{
		GoalID:      req.GoalID,
		Type:        req.Type,
		Description: req.Description,
		Points:      req.Points,
		Completed:   req.Completed,
		Date:        req.Date,
		IsTemplate:  req.IsTemplate,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// Get returns one of the user's tasks by ID
func (s *TaskService) Get(ctx context.Context, userID, taskID int) (*entities.Task, error) {
	return s.ownedTask(ctx, userID, taskID)
}

// List returns tasks for the user, optionally narrowed to one goal
func (s *TaskService) List(ctx context.Context, userID int, goalID *int) ([]entities.Task, error) {
	if goalID != nil {
		if _, err := s.goalRepo.GetByID(ctx, *goalID, userID); err != nil {
			return nil, err
		}
		return s.taskRepo.ListByGoal(ctx, *goalID)
	}
	return s.taskRepo.ListByUser(ctx, userID)
}

// Update rewrites every mutable field of a task
func (s *TaskService) Update(ctx context.Context, userID, taskID int, req ports.UpdateTaskRequest) (*entities.Task, error) {
	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.goalRepo.GetByID(ctx, req.GoalID, userID); err != nil {
		return nil, err
	}

	task.GoalID = req.GoalID
	task.Type = req.Type
	task.Description = req.Description
	task.Points = req.Points
	task.Date = req.Date
	task.Completed = req.Completed

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// SetCompleted toggles a task's completion flag
func (s *TaskService) SetCompleted(ctx context.Context, userID, taskID int, completed bool) (*entities.Task, error) {
	if _, err := s.ownedTask(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return s.taskRepo.SetCompleted(ctx, taskID, completed)
}

// Delete removes a single task
func (s *TaskService) Delete(ctx context.Context, userID, taskID int) error {
	if _, err := s.ownedTask(ctx, userID, taskID); err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, taskID)
}

// Generate produces template tasks for a goal, via the AI suggester when
// the user configured a key and the deterministic fallback otherwise.
// Generation refuses to run once concrete daily tasks exist for the goal,
// and always discards stale templates from earlier runs.
func (s *TaskService) Generate(ctx context.Context, userID int, req ports.GenerateTasksRequest) (*ports.GenerateResult, error) {
	if _, err := s.goalRepo.GetByID(ctx, req.GoalID, userID); err != nil {
		return nil, err
	}

	exists, err := s.taskRepo.HasInstances(ctx, req.GoalID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing tasks: %w", err)
	}
	if exists {
		return nil, entities.ErrTasksAlreadyExist
	}

	if err := s.taskRepo.DeleteTemplates(ctx, req.GoalID); err != nil {
		return nil, fmt.Errorf("failed to clear stale templates: %w", err)
	}

	suggestions, source := s.suggest(ctx, userID, req)

	today := entities.Today()
	templates := make([]entities.Task, 0, len(suggestions))
	for _, sg := range suggestions {
		templates = append(templates, entities.Task{
			GoalID:      req.GoalID,
			Type:        sg.Type,
			Description: sg.Description,
			Points:      sg.Points,
			Date:        today,
			IsTemplate:  true,
		})
	}

	created, err := s.taskRepo.CreateBatch(ctx, templates)
	if err != nil {
		return nil, fmt.Errorf("failed to store templates: %w", err)
	}

	s.logger.LogUserAction(userID, "generate_tasks", map[string]interface{}{
		"goal_id": req.GoalID,
		"count":   len(created),
		"source":  source,
	})

	return &ports.GenerateResult{
		Message: "Daily tasks generated successfully",
		Tasks:   created,
		Source:  source,
	}, nil
}

// suggest tries the AI path and falls back to the canned list. AI
// failures are logged and absorbed; generation never fails because the
// model did.
func (s *TaskService) suggest(ctx context.Context, userID int, req ports.GenerateTasksRequest) ([]ports.Suggestion, string) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err == nil && user.HasGrokKey() {
		suggestions, serr := s.suggester.Suggest(ctx, *user.GrokAPIKey, req.GoalTitle, req.GoalDescription)
		if serr == nil && len(suggestions) > 0 {
			return suggestions, SourceAI
		}
		if serr != nil {
			s.logger.Warn("AI suggestion failed, using fallback", "goal_id", req.GoalID, "error", serr)
		}
	}
	return grok.FallbackSuggestions(req.GoalTitle), SourceFallback
}

// Finalize expands a goal's reviewed templates into concrete daily tasks
// for every day from today through the deadline, inclusive, then consumes
// the templates. A deadline already in the past yields zero instances but
// still counts as success and still consumes the templates.
func (s *TaskService) Finalize(ctx context.Context, userID int, req ports.FinalizeRequest) (*ports.FinalizeResult, error) {
	goal, err := s.goalRepo.GetByID(ctx, req.GoalID, userID)
	if err != nil {
		return nil, err
	}

	templates, err := s.taskRepo.ListTemplates(ctx, req.GoalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	if len(templates) == 0 {
		return nil, entities.ErrNoTemplates
	}

	today := entities.Today()
	days := goal.DaysThrough(today)

	instances := make([]entities.Task, 0, days*len(templates))
	for i := 0; i < days; i++ {
		date := entities.AddDays(today, i)
		for _, tpl := range templates {
			instances = append(instances, tpl.Instantiate(date))
		}
	}

	if len(instances) > 0 {
		if _, err := s.taskRepo.CreateBatch(ctx, instances); err != nil {
			return nil, fmt.Errorf("failed to store daily tasks: %w", err)
		}
	}

	if err := s.taskRepo.DeleteTemplates(ctx, req.GoalID); err != nil {
		return nil, fmt.Errorf("failed to consume templates: %w", err)
	}

	s.logger.LogUserAction(userID, "finalize_tasks", map[string]interface{}{
		"goal_id": req.GoalID,
		"days":    days,
		"total":   len(instances),
	})

	return &ports.FinalizeResult{
		Message:             "Daily tasks finalized successfully",
		TotalTasksGenerated: len(instances),
		DaysGenerated:       days,
		TasksPerDay:         len(templates),
	}, nil
}

// DeleteAllForGoal removes every task attached to one of the user's goals
func (s *TaskService) DeleteAllForGoal(ctx context.Context, userID int, req ports.DeleteForGoalRequest) error {
	if _, err := s.goalRepo.GetByID(ctx, req.GoalID, userID); err != nil {
		return err
	}
	if err := s.taskRepo.DeleteByGoal(ctx, req.GoalID); err != nil {
		return fmt.Errorf("failed to delete tasks: %w", err)
	}

	s.logger.LogUserAction(userID, "delete_goal_tasks", map[string]interface{}{
		"goal_id": req.GoalID,
	})
	return nil
}

// DeleteInstances removes every daily instance in the same series as the
// given task
func (s *TaskService) DeleteInstances(ctx context.Context, userID int, req ports.DeleteInstancesRequest) error {
	if _, err := s.goalRepo.GetByID(ctx, req.GoalID, userID); err != nil {
		return err
	}

	task, err := s.taskRepo.GetByID(ctx, req.TaskID)
	if err != nil {
		return err
	}
	if task.GoalID != req.GoalID {
		return entities.ErrTaskNotFound
	}

	key := ports.SeriesKey{Description: task.Description, Type: task.Type}
	if err := s.taskRepo.DeleteSeries(ctx, req.GoalID, key); err != nil {
		return fmt.Errorf("failed to delete task series: %w", err)
	}

	s.logger.LogUserAction(userID, "delete_task_series", map[string]interface{}{
		"goal_id": req.GoalID,
		"task_id": req.TaskID,
	})
	return nil
}

// UpdateInstances rewrites every daily instance in the same series as the
// original task and returns how many were touched
func (s *TaskService) UpdateInstances(ctx context.Context, userID int, req ports.UpdateInstancesRequest) (int, error) {
	if _, err := s.goalRepo.GetByID(ctx, req.GoalID, userID); err != nil {
		return 0, err
	}

	original, err := s.taskRepo.GetByID(ctx, req.OriginalTaskID)
	if err != nil {
		return 0, err
	}
	if original.GoalID != req.GoalID {
		return 0, entities.ErrTaskNotFound
	}

	key := ports.SeriesKey{Description: original.Description, Type: original.Type}
	update := ports.SeriesUpdate{Type: req.Type, Description: req.Description, Points: req.Points}

	count, err := s.taskRepo.UpdateSeries(ctx, req.GoalID, key, update)
	if err != nil {
		return 0, fmt.Errorf("failed to update task series: %w", err)
	}

	s.logger.LogUserAction(userID, "update_task_series", map[string]interface{}{
		"goal_id": req.GoalID,
		"updated": count,
	})
	return count, nil
}

// ownedTask loads a task and verifies it belongs to one of the user's
// goals. Foreign tasks are indistinguishable from missing ones.
func (s *TaskService) ownedTask(ctx context.Context, userID, taskID int) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.goalRepo.GetByID(ctx, task.GoalID, userID); err != nil {
		if errors.Is(err, entities.ErrGoalNotFound) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}
