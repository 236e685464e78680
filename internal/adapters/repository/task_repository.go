package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/goaltracker/core/internal/domain/entities"
	"github.com/goaltracker/core/internal/infrastructure/database"
	"github.com/goaltracker/core/internal/ports"
)

// taskColumns is the shared select list; the date column is rendered as
// a plain YYYY-MM-DD string to match the wire format.
const taskColumns = `id, goal_id, type, description, points, completed,
	to_char(date, 'YYYY-MM-DD') AS date, is_template, created_at, updated_at`

// TaskRepositoryImpl implements the TaskRepository interface. It keeps
// the database wrapper rather than the bare pool because batch inserts
// run through its transaction helper.
type TaskRepositoryImpl struct {
	db *database.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) error {
	query := `
		INSERT INTO tasks (goal_id, type, description, points, completed, date, is_template)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.DB.QueryRowContext(ctx, query,
		task.GoalID, task.Type, task.Description, task.Points,
		task.Completed, task.Date, task.IsTemplate,
	).Scan(&task.ID, &task.CreatedAt)

	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) CreateBatch(ctx context.Context, batch []entities.Task) ([]entities.Task, error) {
	if len(batch) == 0 {
		return []entities.Task{}, nil
	}

	query := `
		INSERT INTO tasks (goal_id, type, description, points, completed, date, is_template)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	created := make([]entities.Task, 0, len(batch))
	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		for _, t := range batch {
			err := tx.QueryRowContext(ctx, query,
				t.GoalID, t.Type, t.Description, t.Points,
				t.Completed, t.Date, t.IsTemplate,
			).Scan(&t.ID, &t.CreatedAt)
			if err != nil {
				return fmt.Errorf("batch insert task: %w", err)
			}
			created = append(created, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	var task entities.Task
	err := r.db.DB.GetContext(ctx, &task, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}

	return &task, nil
}

func (r *TaskRepositoryImpl) ListByUser(ctx context.Context, userID int) ([]entities.Task, error) {
	query := `
		SELECT t.id, t.goal_id, t.type, t.description, t.points, t.completed,
			to_char(t.date, 'YYYY-MM-DD') AS date, t.is_template, t.created_at, t.updated_at
		FROM tasks t
		JOIN goals g ON g.id = t.goal_id
		WHERE g.user_id = $1
		ORDER BY t.date, t.id`

	tasks := []entities.Task{}
	err := r.db.DB.SelectContext(ctx, &tasks, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks by user: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepositoryImpl) ListByGoal(ctx context.Context, goalID int) ([]entities.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE goal_id = $1 ORDER BY date, id`

	tasks := []entities.Task{}
	err := r.db.DB.SelectContext(ctx, &tasks, query, goalID)
	if err != nil {
		return nil, fmt.Errorf("list tasks by goal: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepositoryImpl) ListTemplates(ctx context.Context, goalID int) ([]entities.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE goal_id = $1 AND is_template ORDER BY id`

	tasks := []entities.Task{}
	err := r.db.DB.SelectContext(ctx, &tasks, query, goalID)
	if err != nil {
		return nil, fmt.Errorf("list template tasks: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepositoryImpl) HasInstances(ctx context.Context, goalID int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM tasks WHERE goal_id = $1 AND NOT is_template)`

	var exists bool
	if err := r.db.DB.GetContext(ctx, &exists, query, goalID); err != nil {
		return false, fmt.Errorf("check task instances: %w", err)
	}
	return exists, nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task *entities.Task) error {
	query := `
		UPDATE tasks
		SET goal_id = $2, type = $3, description = $4, points = $5,
			completed = $6, date = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.DB.QueryRowContext(ctx, query,
		task.ID, task.GoalID, task.Type, task.Description,
		task.Points, task.Completed, task.Date,
	).Scan(&task.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.ErrTaskNotFound
		}
		return fmt.Errorf("update task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) SetCompleted(ctx context.Context, id int, completed bool) (*entities.Task, error) {
	query := `UPDATE tasks SET completed = $2 WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id, completed)
	if err != nil {
		return nil, fmt.Errorf("set task completed: %w", err)
	}
	if err := requireRow(result, entities.ErrTaskNotFound); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	return requireRow(result, entities.ErrTaskNotFound)
}

func (r *TaskRepositoryImpl) DeleteByGoal(ctx context.Context, goalID int) error {
	_, err := r.db.DB.ExecContext(ctx, `DELETE FROM tasks WHERE goal_id = $1`, goalID)
	if err != nil {
		return fmt.Errorf("delete tasks by goal: %w", err)
	}
	return nil
}

func (r *TaskRepositoryImpl) DeleteTemplates(ctx context.Context, goalID int) error {
	_, err := r.db.DB.ExecContext(ctx, `DELETE FROM tasks WHERE goal_id = $1 AND is_template`, goalID)
	if err != nil {
		return fmt.Errorf("delete template tasks: %w", err)
	}
	return nil
}

func (r *TaskRepositoryImpl) DeleteSeries(ctx context.Context, goalID int, key ports.SeriesKey) error {
	query := `DELETE FROM tasks WHERE goal_id = $1 AND description = $2 AND type = $3`

	_, err := r.db.DB.ExecContext(ctx, query, goalID, key.Description, key.Type)
	if err != nil {
		return fmt.Errorf("delete task series: %w", err)
	}
	return nil
}

func (r *TaskRepositoryImpl) UpdateSeries(ctx context.Context, goalID int, key ports.SeriesKey, update ports.SeriesUpdate) (int, error) {
	query := `
		UPDATE tasks
		SET type = $4, description = $5, points = $6, updated_at = CURRENT_TIMESTAMP
		WHERE goal_id = $1 AND description = $2 AND type = $3`

	result, err := r.db.DB.ExecContext(ctx, query,
		goalID, key.Description, key.Type,
		update.Type, update.Description, update.Points)
	if err != nil {
		return 0, fmt.Errorf("update task series: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return int(rows), nil
}
