package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/goaltracker/core/internal/domain/entities"
	"github.com/goaltracker/core/internal/ports"
)

// GoalRepositoryImpl implements the GoalRepository interface
type GoalRepositoryImpl struct {
	db *sqlx.DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *sqlx.DB) ports.GoalRepository {
	return &GoalRepositoryImpl{db: db}
}

func (r *GoalRepositoryImpl) Create(ctx context.Context, goal *entities.Goal) error {
	query := `
		INSERT INTO goals (user_id, title, description, target_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		goal.UserID, goal.Title, goal.Description, goal.TargetDate,
	).Scan(&goal.ID, &goal.CreatedAt)

	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}

	return nil
}

func (r *GoalRepositoryImpl) GetByID(ctx context.Context, id, userID int) (*entities.Goal, error) {
	query := `
		SELECT id, user_id, title, description,
			to_char(target_date, 'YYYY-MM-DD') AS target_date, created_at
		FROM goals
		WHERE id = $1 AND user_id = $2`

	var goal entities.Goal
	err := r.db.GetContext(ctx, &goal, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrGoalNotFound
		}
		return nil, fmt.Errorf("get goal by id: %w", err)
	}

	return &goal, nil
}

func (r *GoalRepositoryImpl) ListByUser(ctx context.Context, userID int) ([]entities.Goal, error) {
	query := `
		SELECT id, user_id, title, description,
			to_char(target_date, 'YYYY-MM-DD') AS target_date, created_at
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at`

	goals := []entities.Goal{}
	err := r.db.SelectContext(ctx, &goals, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	return goals, nil
}

func (r *GoalRepositoryImpl) Update(ctx context.Context, goal *entities.Goal) error {
	query := `
		UPDATE goals
		SET title = $3, description = $4, target_date = $5
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		goal.ID, goal.UserID, goal.Title, goal.Description, goal.TargetDate)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}

	return requireRow(result, entities.ErrGoalNotFound)
}

// Delete removes the goal; the tasks FK cascades inside the same
// statement, so goal and tasks disappear atomically.
func (r *GoalRepositoryImpl) Delete(ctx context.Context, id, userID int) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}

	return requireRow(result, entities.ErrGoalNotFound)
}
