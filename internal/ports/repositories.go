package ports

import (
	"context"

	"github.com/goaltracker/core/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id int) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	UpdateGrokKey(ctx context.Context, id int, key *string) error
}

// GoalRepository defines the interface for goal data operations.
// Every lookup and mutation is scoped by the owning user; a goal that
// exists but belongs to someone else is reported as not found, so
// callers cannot distinguish foreign resources from absent ones.
type GoalRepository interface {
	Create(ctx context.Context, goal *entities.Goal) error
	GetByID(ctx context.Context, id, userID int) (*entities.Goal, error)
	ListByUser(ctx context.Context, userID int) ([]entities.Goal, error)
	Update(ctx context.Context, goal *entities.Goal) error
	// Delete removes the goal and cascades to every task referencing it.
	Delete(ctx context.Context, id, userID int) error
}

// SeriesKey identifies all daily instances expanded from one template.
// There is no stable template identifier on instances; description plus
// type within a goal is the join key.
type SeriesKey struct {
	Description string
	Type        entities.TaskType
}

// SeriesUpdate is the replacement content for a bulk series rewrite.
type SeriesUpdate struct {
	Type        entities.TaskType
	Description string
	Points      int
}

// TaskRepository defines the interface for task data operations.
// Ownership is enforced one level up through the goal; task queries are
// keyed by goal or by the calling user's goal set.
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	// CreateBatch persists the tasks in order and assigns fresh IDs.
	CreateBatch(ctx context.Context, tasks []entities.Task) ([]entities.Task, error)
	GetByID(ctx context.Context, id int) (*entities.Task, error)
	ListByUser(ctx context.Context, userID int) ([]entities.Task, error)
	ListByGoal(ctx context.Context, goalID int) ([]entities.Task, error)
	ListTemplates(ctx context.Context, goalID int) ([]entities.Task, error)
	// HasInstances reports whether any non-template tasks exist for the goal.
	HasInstances(ctx context.Context, goalID int) (bool, error)
	Update(ctx context.Context, task *entities.Task) error
	SetCompleted(ctx context.Context, id int, completed bool) (*entities.Task, error)
	Delete(ctx context.Context, id int) error
	DeleteByGoal(ctx context.Context, goalID int) error
	DeleteTemplates(ctx context.Context, goalID int) error
	DeleteSeries(ctx context.Context, goalID int, key SeriesKey) error
	// UpdateSeries rewrites every instance matching key and returns the
	// number of rows touched.
	UpdateSeries(ctx context.Context, goalID int, key SeriesKey, update SeriesUpdate) (int, error)
}
