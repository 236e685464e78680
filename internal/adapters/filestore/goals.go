package filestore

import (
	"context"
	"time"

	"github.com/goaltracker/core/internal/domain/entities"
)

// GoalStore implements ports.GoalRepository over the goals file.
type GoalStore struct {
	store *Store
}

func (r *GoalStore) Create(ctx context.Context, goal *entities.Goal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	goals, err := readSlice[entities.Goal](r.store, goalsFile)
	if err != nil {
		return err
	}

	goal.ID = nextID(goalIDs(goals))
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now().UTC()
	}

	goals = append(goals, *goal)
	return writeSlice(r.store, goalsFile, goals)
}

func (r *GoalStore) GetByID(ctx context.Context, id, userID int) (*entities.Goal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	goals, err := readSlice[entities.Goal](r.store, goalsFile)
	if err != nil {
		return nil, err
	}

	for i := range goals {
		if goals[i].ID == id && goals[i].UserID == userID {
			g := goals[i]
			return &g, nil
		}
	}
	return nil, entities.ErrGoalNotFound
}

func (r *GoalStore) ListByUser(ctx context.Context, userID int) ([]entities.Goal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	goals, err := readSlice[entities.Goal](r.store, goalsFile)
	if err != nil {
		return nil, err
	}

	owned := []entities.Goal{}
	for _, g := range goals {
		if g.UserID == userID {
			owned = append(owned, g)
		}
	}
	return owned, nil
}

func (r *GoalStore) Update(ctx context.Context, goal *entities.Goal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	goals, err := readSlice[entities.Goal](r.store, goalsFile)
	if err != nil {
		return err
	}

	for i := range goals {
		if goals[i].ID == goal.ID && goals[i].UserID == goal.UserID {
			goals[i].Title = goal.Title
			goals[i].Description = goal.Description
			goals[i].TargetDate = goal.TargetDate
			*goal = goals[i]
			return writeSlice(r.store, goalsFile, goals)
		}
	}
	return entities.ErrGoalNotFound
}

// Delete removes the goal and then every task referencing it. The two
// files are written sequentially; a crash between the writes leaves
// orphaned tasks behind, a known failure window of the file driver.
func (r *GoalStore) Delete(ctx context.Context, id, userID int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	goals, err := readSlice[entities.Goal](r.store, goalsFile)
	if err != nil {
		return err
	}

	found := false
	kept := goals[:0]
	for _, g := range goals {
		if g.ID == id && g.UserID == userID {
			found = true
			continue
		}
		kept = append(kept, g)
	}
	if !found {
		return entities.ErrGoalNotFound
	}

	if err := writeSlice(r.store, goalsFile, kept); err != nil {
		return err
	}

	tasks, err := readSlice[entities.Task](r.store, tasksFile)
	if err != nil {
		return err
	}

	remaining := tasks[:0]
	for _, t := range tasks {
		if t.GoalID != id {
			remaining = append(remaining, t)
		}
	}
	return writeSlice(r.store, tasksFile, remaining)
}
