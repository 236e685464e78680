// Package filestore persists users, goals and tasks as three flat JSON
// arrays on disk. It implements the same repository ports as the SQL
// adapter and is selected by the storage driver configuration.
//
// A single mutex serializes read-modify-write cycles within the process.
// Concurrent processes sharing a data directory still race with
// last-writer-wins semantics; that is an accepted limitation of the file
// driver, not a guarantee.
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goaltracker/core/internal/domain/entities"
	"github.com/goaltracker/core/internal/infrastructure/logger"
)

const (
	usersFile = "users.json"
	goalsFile = "goals.json"
	tasksFile = "tasks.json"
)

// Store owns the data directory and the lock shared by the per-entity
// repositories.
type Store struct {
	dir    string
	mu     sync.Mutex
	logger *logger.Logger
}

// New creates the data directory if needed and returns a store rooted at it.
func New(dir string, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir, logger: log}, nil
}

// Users returns the user repository backed by this store.
func (s *Store) Users() *UserStore { return &UserStore{store: s} }

// Goals returns the goal repository backed by this store.
func (s *Store) Goals() *GoalStore { return &GoalStore{store: s} }

// Tasks returns the task repository backed by this store.
func (s *Store) Tasks() *TaskStore { return &TaskStore{store: s} }

// HealthCheck verifies the data directory is still reachable.
func (s *Store) HealthCheck() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("data dir unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", s.dir)
	}
	return nil
}

// readSlice loads a JSON array from the named file. A missing file is an
// empty dataset; a corrupt file is treated the same way rather than
// blocking every request on a bad byte.
func readSlice[T any](s *Store, name string) ([]T, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		s.logger.Warn("Discarding unreadable data file", "file", name, "error", err)
		return []T{}, nil
	}
	return out, nil
}

// writeSlice replaces the named file with the marshaled slice.
func writeSlice[T any](s *Store, name string, items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// nextID returns max(id)+1, so identifiers stay monotonic for the life
// of the dataset even after deletions at the tail are reloaded.
func nextID(ids []int) int {
	max := 0
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	return max + 1
}

func goalIDs(goals []entities.Goal) []int {
	ids := make([]int, len(goals))
	for i, g := range goals {
		ids[i] = g.ID
	}
	return ids
}

func taskIDs(tasks []entities.Task) []int {
	ids := make([]int, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}
