package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goaltracker/core/internal/domain/entities"
	"github.com/goaltracker/core/internal/infrastructure/logger"
	"github.com/goaltracker/core/internal/ports"
)

// exportVersion tags the backup envelope format.
const exportVersion = "1.0"

// DataService handles whole-account export and import
type DataService struct {
	userRepo ports.UserRepository
	goalRepo ports.GoalRepository
	taskRepo ports.TaskRepository
	logger   *logger.Logger
}

// NewDataService creates a new data service
func NewDataService(userRepo ports.UserRepository, goalRepo ports.GoalRepository, taskRepo ports.TaskRepository, logger *logger.Logger) *DataService {
	return &DataService{
		userRepo: userRepo,
		goalRepo: goalRepo,
		taskRepo: taskRepo,
		logger:   logger,
	}
}

// Export bundles the caller's full account into a backup envelope. The
// password hash never leaves the store.
func (s *DataService) Export(ctx context.Context, userID int) (*ports.ExportData, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	goals, err := s.goalRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}

	s.logger.LogUserAction(userID, "export_data", map[string]interface{}{
		"goals": len(goals),
		"tasks": len(tasks),
	})

	return &ports.ExportData{
		ExportID:   uuid.New(),
		ExportDate: time.Now().UTC(),
		Version:    exportVersion,
		User: ports.ExportUser{
			ID:         user.ID,
			Username:   user.Username,
			GrokAPIKey: user.GrokAPIKey,
			CreatedAt:  user.CreatedAt,
		},
		Goals: goals,
		Tasks: tasks,
		Statistics: ports.ExportStatistics{
			TotalGoals:     len(goals),
			TotalTasks:     len(tasks),
			CompletedTasks: completed,
			TotalPoints:    entities.TotalPoints(tasks),
		},
	}, nil
}

// Import adds the goals and tasks from a backup to the caller's account.
// Existing records are never touched; imported records get fresh IDs,
// task links are remapped through the imported goals' old IDs, and
// ownership is forced to the caller regardless of what the file claims.
// Every task must resolve against the backup's own goals; a dangling
// reference rejects the whole file before anything is written.
func (s *DataService) Import(ctx context.Context, userID int, req ports.ImportRequest) (*ports.ImportResult, error) {
	if req.Goals == nil || req.Tasks == nil {
		return nil, entities.ErrInvalidImport
	}

	backupGoals := make(map[int]struct{}, len(*req.Goals))
	for _, g := range *req.Goals {
		backupGoals[g.ID] = struct{}{}
	}
	for _, t := range *req.Tasks {
		if _, ok := backupGoals[t.GoalID]; !ok {
			return nil, fmt.Errorf("%w: task references goal %d missing from the backup", entities.ErrInvalidImport, t.GoalID)
		}
	}

	goalIDMap := make(map[int]int, len(*req.Goals))
	importedGoals := 0
	for _, g := range *req.Goals {
		oldID := g.ID
		goal := entities.Goal{
			UserID:      userID,
			Title:       g.Title,
			Description: g.Description,
			TargetDate:  g.TargetDate,
		}
		if err := s.goalRepo.Create(ctx, &goal); err != nil {
			return nil, fmt.Errorf("failed to import goal: %w", err)
		}
		goalIDMap[oldID] = goal.ID
		importedGoals++
	}

	toCreate := make([]entities.Task, 0, len(*req.Tasks))
	for _, t := range *req.Tasks {
		task := t
		task.ID = 0
		task.GoalID = goalIDMap[t.GoalID]
		task.UpdatedAt = nil
		toCreate = append(toCreate, task)
	}

	importedTasks := 0
	if len(toCreate) > 0 {
		created, err := s.taskRepo.CreateBatch(ctx, toCreate)
		if err != nil {
			return nil, fmt.Errorf("failed to import tasks: %w", err)
		}
		importedTasks = len(created)
	}

	totalGoals, err := s.goalRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count goals: %w", err)
	}
	totalTasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	s.logger.LogUserAction(userID, "import_data", map[string]interface{}{
		"goals": importedGoals,
		"tasks": importedTasks,
	})

	return &ports.ImportResult{
		Message: "Data imported successfully",
		Imported: ports.ImportCounts{
			Goals: importedGoals,
			Tasks: importedTasks,
		},
		Statistics: ports.ImportTotals{
			TotalGoals: len(totalGoals),
			TotalTasks: len(totalTasks),
		},
	}, nil
}
