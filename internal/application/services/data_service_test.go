package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goaltracker/core/internal/adapters/filestore"
	"github.com/goaltracker/core/internal/domain/entities"
	"github.com/goaltracker/core/internal/infrastructure/logger"
	"github.com/goaltracker/core/internal/ports"
)

func newDataFixture(t *testing.T) (*DataService, *filestore.Store, *entities.User) {
	t.Helper()
	ctx := context.Background()

	store, err := filestore.New(t.TempDir(), logger.NewNop())
	require.NoError(t, err)

	user := &entities.User{Username: "alice", Password: "hash"}
	require.NoError(t, store.Users().Create(ctx, user))

	svc := NewDataService(store.Users(), store.Goals(), store.Tasks(), logger.NewNop())
	return svc, store, user
}

func TestDataServiceExport(t *testing.T) {
	ctx := context.Background()
	svc, store, user := newDataFixture(t)

	goal := &entities.Goal{UserID: user.ID, Title: "Read more", Description: "Books", TargetDate: "2026-12-31"}
	require.NoError(t, store.Goals().Create(ctx, goal))
	_, err := store.Tasks().CreateBatch(ctx, []entities.Task{
		{GoalID: goal.ID, Type: entities.TaskTypePositive, Description: "Read a chapter", Points: 25, Completed: true, Date: "2026-08-31"},
		{GoalID: goal.ID, Type: entities.TaskTypeNegative, Description: "Doomscroll", Points: -10, Completed: true, Date: "2026-08-31"},
		{GoalID: goal.ID, Type: entities.TaskTypePositive, Description: "Read a chapter", Points: 25, Date: "2026-09-01"},
	})
	require.NoError(t, err)

	data, err := svc.Export(ctx, user.ID)
	require.NoError(t, err)

	assert.NotEqual(t, "", data.ExportID.String())
	assert.Equal(t, "1.0", data.Version)
	assert.Equal(t, user.Username, data.User.Username)
	assert.Len(t, data.Goals, 1)
	assert.Len(t, data.Tasks, 3)
	assert.Equal(t, 1, data.Statistics.TotalGoals)
	assert.Equal(t, 3, data.Statistics.TotalTasks)
	assert.Equal(t, 2, data.Statistics.CompletedTasks)
	assert.Equal(t, 15, data.Statistics.TotalPoints)
}

func TestDataServiceImport(t *testing.T) {
	ctx := context.Background()

	t.Run("remaps goal ids and forces ownership", func(t *testing.T) {
		svc, store, user := newDataFixture(t)

		goals := []entities.Goal{
			{ID: 42, UserID: 999, Title: "Imported goal", Description: "From backup", TargetDate: "2026-12-31"},
		}
		tasks := []entities.Task{
			{ID: 7, GoalID: 42, Type: entities.TaskTypePositive, Description: "Imported task", Points: 10, Date: "2026-08-31"},
		}

		result, err := svc.Import(ctx, user.ID, ports.ImportRequest{Goals: &goals, Tasks: &tasks})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Imported.Goals)
		assert.Equal(t, 1, result.Imported.Tasks)

		owned, err := store.Goals().ListByUser(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, owned, 1)
		assert.Equal(t, user.ID, owned[0].UserID)
		assert.NotEqual(t, 42, owned[0].ID)

		mine, err := store.Tasks().ListByUser(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, owned[0].ID, mine[0].GoalID)
		assert.NotEqual(t, 7, mine[0].ID)
	})

	t.Run("import is additive", func(t *testing.T) {
		svc, store, user := newDataFixture(t)

		existing := &entities.Goal{UserID: user.ID, Title: "Existing", Description: "Keep me", TargetDate: "2026-12-31"}
		require.NoError(t, store.Goals().Create(ctx, existing))

		goals := []entities.Goal{{ID: 1, Title: "New", Description: "x", TargetDate: "2026-12-31"}}
		tasks := []entities.Task{}

		result, err := svc.Import(ctx, user.ID, ports.ImportRequest{Goals: &goals, Tasks: &tasks})
		require.NoError(t, err)

		assert.Equal(t, 2, result.Statistics.TotalGoals)
	})

	t.Run("task referencing a goal missing from the backup rejects the file", func(t *testing.T) {
		svc, store, user := newDataFixture(t)

		goals := []entities.Goal{
			{ID: 1, Title: "Valid", Description: "x", TargetDate: "2026-12-31"},
		}
		tasks := []entities.Task{
			{GoalID: 1, Type: entities.TaskTypePositive, Description: "Linked", Points: 5, Date: "2026-08-31"},
			{GoalID: 12345, Type: entities.TaskTypePositive, Description: "Orphan", Points: 5, Date: "2026-08-31"},
		}

		_, err := svc.Import(ctx, user.ID, ports.ImportRequest{Goals: &goals, Tasks: &tasks})
		assert.ErrorIs(t, err, entities.ErrInvalidImport)

		owned, err := store.Goals().ListByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, owned, "nothing is written when the file is rejected")
	})

	t.Run("task pointing at an existing goal instead of the backup rejects the file", func(t *testing.T) {
		svc, store, user := newDataFixture(t)

		existing := &entities.Goal{UserID: user.ID, Title: "Mine", Description: "x", TargetDate: "2026-12-31"}
		require.NoError(t, store.Goals().Create(ctx, existing))

		goals := []entities.Goal{}
		tasks := []entities.Task{
			{GoalID: existing.ID, Type: entities.TaskTypePositive, Description: "Sideload", Points: 5, Date: "2026-08-31"},
		}

		_, err := svc.Import(ctx, user.ID, ports.ImportRequest{Goals: &goals, Tasks: &tasks})
		assert.ErrorIs(t, err, entities.ErrInvalidImport)

		mine, err := store.Tasks().ListByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, mine)
	})

	t.Run("missing arrays are rejected", func(t *testing.T) {
		svc, _, user := newDataFixture(t)

		goals := []entities.Goal{}
		_, err := svc.Import(ctx, user.ID, ports.ImportRequest{Goals: &goals})
		assert.ErrorIs(t, err, entities.ErrInvalidImport)

		_, err = svc.Import(ctx, user.ID, ports.ImportRequest{})
		assert.ErrorIs(t, err, entities.ErrInvalidImport)
	})

	t.Run("export import round trip", func(t *testing.T) {
		svc, store, user := newDataFixture(t)

		goal := &entities.Goal{UserID: user.ID, Title: "Round trip", Description: "x", TargetDate: "2026-12-31"}
		require.NoError(t, store.Goals().Create(ctx, goal))
		_, err := store.Tasks().CreateBatch(ctx, []entities.Task{
			{GoalID: goal.ID, Type: entities.TaskTypePositive, Description: "Keep", Points: 10, Completed: true, Date: "2026-08-31"},
		})
		require.NoError(t, err)

		exported, err := svc.Export(ctx, user.ID)
		require.NoError(t, err)

		result, err := svc.Import(ctx, user.ID, ports.ImportRequest{Goals: &exported.Goals, Tasks: &exported.Tasks})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Imported.Goals)
		assert.Equal(t, 2, result.Statistics.TotalGoals)
		assert.Equal(t, 2, result.Statistics.TotalTasks)
	})
}
