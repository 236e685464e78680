package filestore

import (
	"context"
	"time"

	"github.com/goaltracker/core/internal/domain/entities"
	"github.com/goaltracker/core/internal/ports"
)

// TaskStore implements ports.TaskRepository over the tasks file.
type TaskStore struct {
	store *Store
}

func (r *TaskStore) Create(ctx context.Context, task *entities.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tasks, err := readSlice[entities.Task](r.store, tasksFile)
	if err != nil {
		return err
	}

	task.ID = nextID(taskIDs(tasks))
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}

	tasks = append(tasks, *task)
	return writeSlice(r.store, tasksFile, tasks)
}

func (r *TaskStore) CreateBatch(ctx context.Context, batch []entities.Task) ([]entities.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tasks, err := readSlice[entities.Task](r.store, tasksFile)
	if err != nil {
		return nil, err
	}

	id := nextID(taskIDs(tasks))
	now := time.Now().UTC()
	created := make([]entities.Task, 0, len(batch))
	for _, t := range batch {
		t.ID = id
		id++
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		created = append(created, t)
	}

	tasks = append(tasks, created...)
	if err := writeSlice(r.store, tasksFile, tasks); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *TaskStore) GetByID(ctx context.Context, id int) (*entities.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tasks, err := readSlice[entities.Task](r.store, tasksFile)
	if err != nil {
		return nil, err
	}

	for i := range tasks {
		if tasks[i].ID == id {
			t := tasks[i]
			return &t, nil
		}
	}
	return nil, entities.ErrTaskNotFound
}

// ListByUser returns the tasks of every goal owned by the user.
func (r *TaskStore) ListByUser(ctx context.Context, userID int) ([]entities.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	goals, err := readSlice[entities.Goal](r.store, goalsFile)
	if err != nil {
		return nil, err
	}

	owned := make(map[int]bool)
	for _, g := range goals {
		if g.UserID == userID {
			owned[g.ID] = true
		}
	}

	tasks, err := readSlice[entities.Task](r.store, tasksFile)
	if err != nil {
		return nil, err
	}

	out := []entities.Task{}
	for _, t := range tasks {
		if owned[t.GoalID] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TaskStore) ListByGoal(ctx context.Context, goalID int) ([]entities.Task, error) {
	return r.filter(func(t *entities.Task) bool {
		return t.GoalID == goalID
	})
}

func (r *TaskStore) ListTemplates(ctx context.Context, goalID int) ([]entities.Task, error) {
	return r.filter(func(t *entities.Task) bool {
		return t.GoalID == goalID && t.IsTemplate
	})
}

func (r *TaskStore) HasInstances(ctx context.Context, goalID int) (bool, error) {
	instances, err := r.filter(func(t *entities.Task) bool {
		return t.GoalID == goalID && !t.IsTemplate
	})
	if err != nil {
		return false, err
	}
	return len(instances) > 0, nil
}

func (r *TaskStore) Update(ctx context.Context, task *entities.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tasks, err := readSlice[entities.Task](r.store, tasksFile)
	if err != nil {
		return err
	}

	for i := range tasks {
		if tasks[i].ID == task.ID {
			now := time.Now().UTC()
			task.CreatedAt = tasks[i].CreatedAt
			task.UpdatedAt = &now
			tasks[i] = *task
			return writeSlice(r.store, tasksFile, tasks)
		}
	}
	return entities.ErrTaskNotFound
}

func (r *TaskStore) SetCompleted(ctx context.Context, id int, completed bool) (*entities.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tasks, err := readSlice[entities.Task](r.store, tasksFile)
	if err != nil {
		return nil, err
	}

	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].Completed = completed
			if err := writeSlice(r.store, tasksFile, tasks); err != nil {
				return nil, err
			}
			t := tasks[i]
			return &t, nil
		}
	}
	return nil, entities.ErrTaskNotFound
}

func (r *TaskStore) Delete(ctx context.Context, id int) error {
	return r.remove(func(t *entities.Task) bool {
		return t.ID == id
	}, true)
}

func (r *TaskStore) DeleteByGoal(ctx context.Context, goalID int) error {
	return r.remove(func(t *entities.Task) bool {
		return t.GoalID == goalID
	}, false)
}

func (r *TaskStore) DeleteTemplates(ctx context.Context, goalID int) error {
	return r.remove(func(t *entities.Task) bool {
		return t.GoalID == goalID && t.IsTemplate
	}, false)
}

func (r *TaskStore) DeleteSeries(ctx context.Context, goalID int, key ports.SeriesKey) error {
	return r.remove(func(t *entities.Task) bool {
		return t.GoalID == goalID && t.Description == key.Description && t.Type == key.Type
	}, false)
}

func (r *TaskStore) UpdateSeries(ctx context.Context, goalID int, key ports.SeriesKey, update ports.SeriesUpdate) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tasks, err := readSlice[entities.Task](r.store, tasksFile)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	touched := 0
	for i := range tasks {
		t := &tasks[i]
		if t.GoalID != goalID || t.Description != key.Description || t.Type != key.Type {
			continue
		}
		t.Type = update.Type
		t.Description = update.Description
		t.Points = update.Points
		t.UpdatedAt = &now
		touched++
	}

	if touched == 0 {
		return 0, nil
	}
	if err := writeSlice(r.store, tasksFile, tasks); err != nil {
		return 0, err
	}
	return touched, nil
}

func (r *TaskStore) filter(keep func(*entities.Task) bool) ([]entities.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tasks, err := readSlice[entities.Task](r.store, tasksFile)
	if err != nil {
		return nil, err
	}

	out := []entities.Task{}
	for i := range tasks {
		if keep(&tasks[i]) {
			out = append(out, tasks[i])
		}
	}
	return out, nil
}

// remove drops every task matching the predicate. When mustMatch is set,
// removing nothing reports ErrTaskNotFound.
func (r *TaskStore) remove(match func(*entities.Task) bool, mustMatch bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tasks, err := readSlice[entities.Task](r.store, tasksFile)
	if err != nil {
		return err
	}

	kept := tasks[:0]
	removed := 0
	for _, t := range tasks {
		if match(&t) {
			removed++
			continue
		}
		kept = append(kept, t)
	}

	if removed == 0 {
		if mustMatch {
			return entities.ErrTaskNotFound
		}
		return nil
	}
	return writeSlice(r.store, tasksFile, kept)
}
