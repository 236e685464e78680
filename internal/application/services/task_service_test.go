package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goaltracker/core/internal/adapters/filestore"
	"github.com/goaltracker/core/internal/domain/entities"
	"github.com/goaltracker/core/internal/infrastructure/logger"
	"github.com/goaltracker/core/internal/ports"
)

// stubSuggester scripts the AI path for tests.
type stubSuggester struct {
	suggestions []ports.Suggestion
	err         error
	calls       int
}

func (s *stubSuggester) Suggest(ctx context.Context, apiKey, goalTitle, goalDescription string) ([]ports.Suggestion, error) {
	s.calls++
	return s.suggestions, s.err
}

type taskFixture struct {
	svc   *TaskService
	store *filestore.Store
	stub  *stubSuggester
	user  *entities.User
	goal  *entities.Goal
}

func newTaskFixture(t *testing.T, targetDate string) *taskFixture {
	t.Helper()
	ctx := context.Background()

	store, err := filestore.New(t.TempDir(), logger.NewNop())
	require.NoError(t, err)

	user := &entities.User{Username: "alice", Password: "hash"}
	require.NoError(t, store.Users().Create(ctx, user))

	goal := &entities.Goal{UserID: user.ID, Title: "Learn guitar", Description: "Daily practice", TargetDate: targetDate}
	require.NoError(t, store.Goals().Create(ctx, goal))

	stub := &stubSuggester{}
	svc := NewTaskService(store.Tasks(), store.Goals(), store.Users(), stub, logger.NewNop())

	return &taskFixture{svc: svc, store: store, stub: stub, user: user, goal: goal}
}

func (f *taskFixture) setGrokKey(t *testing.T, key string) {
	t.Helper()
	require.NoError(t, f.store.Users().UpdateGrokKey(context.Background(), f.user.ID, &key))
}

func TestTaskServiceGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back without an api key", func(t *testing.T) {
		f := newTaskFixture(t, entities.AddDays(entities.Today(), 7))

		result, err := f.svc.Generate(ctx, f.user.ID, ports.GenerateTasksRequest{
			GoalID: f.goal.ID, GoalTitle: f.goal.Title, GoalDescription: f.goal.Description,
		})
		require.NoError(t, err)

		assert.Equal(t, SourceFallback, result.Source)
		assert.Len(t, result.Tasks, 5)
		assert.Zero(t, f.stub.calls, "suggester must not be called without a key")

		positive, negative := 0, 0
		for _, task := range result.Tasks {
			assert.True(t, task.IsTemplate)
			assert.Equal(t, f.goal.ID, task.GoalID)
			switch task.Type {
			case entities.TaskTypePositive:
				positive++
				assert.Greater(t, task.Points, 0)
			case entities.TaskTypeNegative:
				negative++
				assert.Less(t, task.Points, 0)
			}
		}
		assert.Equal(t, 3, positive)
		assert.Equal(t, 2, negative)
	})

	t.Run("uses the suggester when a key is configured", func(t *testing.T) {
		f := newTaskFixture(t, entities.AddDays(entities.Today(), 7))
		f.setGrokKey(t, "xai-test")
		f.stub.suggestions = []ports.Suggestion{
			{Description: "Practice chords", Type: entities.TaskTypePositive, Points: 30},
			{Description: "Skip practice", Type: entities.TaskTypeNegative, Points: -20},
		}

		result, err := f.svc.Generate(ctx, f.user.ID, ports.GenerateTasksRequest{
			GoalID: f.goal.ID, GoalTitle: f.goal.Title,
		})
		require.NoError(t, err)

		assert.Equal(t, SourceAI, result.Source)
		assert.Len(t, result.Tasks, 2)
		assert.Equal(t, 1, f.stub.calls)
	})

	t.Run("suggester failure is absorbed into the fallback", func(t *testing.T) {
		f := newTaskFixture(t, entities.AddDays(entities.Today(), 7))
		f.setGrokKey(t, "xai-test")
		f.stub.err = errors.New("model unavailable")

		result, err := f.svc.Generate(ctx, f.user.ID, ports.GenerateTasksRequest{
			GoalID: f.goal.ID, GoalTitle: f.goal.Title,
		})
		require.NoError(t, err)
		assert.Equal(t, SourceFallback, result.Source)
		assert.Len(t, result.Tasks, 5)
	})

	t.Run("refuses once concrete tasks exist", func(t *testing.T) {
		f := newTaskFixture(t, entities.AddDays(entities.Today(), 7))
		require.NoError(t, f.store.Tasks().Create(ctx, &entities.Task{
			GoalID: f.goal.ID, Type: entities.TaskTypePositive, Description: "Existing", Points: 10, Date: entities.Today(),
		}))

		_, err := f.svc.Generate(ctx, f.user.ID, ports.GenerateTasksRequest{
			GoalID: f.goal.ID, GoalTitle: f.goal.Title,
		})
		assert.ErrorIs(t, err, entities.ErrTasksAlreadyExist)
	})

	t.Run("stale templates are replaced", func(t *testing.T) {
		f := newTaskFixture(t, entities.AddDays(entities.Today(), 7))
		require.NoError(t, f.store.Tasks().Create(ctx, &entities.Task{
			GoalID: f.goal.ID, Type: entities.TaskTypePositive, Description: "Old template", Points: 10,
			Date: entities.Today(), IsTemplate: true,
		}))

		result, err := f.svc.Generate(ctx, f.user.ID, ports.GenerateTasksRequest{
			GoalID: f.goal.ID, GoalTitle: f.goal.Title,
		})
		require.NoError(t, err)
		assert.Len(t, result.Tasks, 5)

		templates, err := f.store.Tasks().ListTemplates(ctx, f.goal.ID)
		require.NoError(t, err)
		assert.Len(t, templates, 5, "old template must be gone")
		for _, tpl := range templates {
			assert.NotEqual(t, "Old template", tpl.Description)
		}
	})

	t.Run("foreign goal reads as not found", func(t *testing.T) {
		f := newTaskFixture(t, entities.AddDays(entities.Today(), 7))

		_, err := f.svc.Generate(ctx, f.user.ID+1, ports.GenerateTasksRequest{
			GoalID: f.goal.ID, GoalTitle: f.goal.Title,
		})
		assert.ErrorIs(t, err, entities.ErrGoalNotFound)
	})
}

func TestTaskServiceFinalize(t *testing.T) {
	ctx := context.Background()

	seedTemplates := func(t *testing.T, f *taskFixture, n int) {
		t.Helper()
		batch := make([]entities.Task, 0, n)
		descriptions := []string{"Practice scales", "Avoid distractions", "Record progress"}
		for i := 0; i < n; i++ {
			batch = append(batch, entities.Task{
				GoalID: f.goal.ID, Type: entities.TaskTypePositive, Description: descriptions[i],
				Points: 20, Date: entities.Today(), IsTemplate: true,
			})
		}
		_, err := f.store.Tasks().CreateBatch(ctx, batch)
		require.NoError(t, err)
	}

	t.Run("expands templates across every day through the deadline", func(t *testing.T) {
		f := newTaskFixture(t, entities.AddDays(entities.Today(), 2))
		seedTemplates(t, f, 2)

		result, err := f.svc.Finalize(ctx, f.user.ID, ports.FinalizeRequest{GoalID: f.goal.ID})
		require.NoError(t, err)

		assert.Equal(t, 3, result.DaysGenerated)
		assert.Equal(t, 2, result.TasksPerDay)
		assert.Equal(t, 6, result.TotalTasksGenerated)

		all, err := f.store.Tasks().ListByGoal(ctx, f.goal.ID)
		require.NoError(t, err)
		assert.Len(t, all, 6)
		for _, task := range all {
			assert.False(t, task.IsTemplate)
			assert.False(t, task.Completed)
		}

		templates, err := f.store.Tasks().ListTemplates(ctx, f.goal.ID)
		require.NoError(t, err)
		assert.Empty(t, templates, "templates are consumed")
	})

	t.Run("deadline today expands one day", func(t *testing.T) {
		f := newTaskFixture(t, entities.Today())
		seedTemplates(t, f, 3)

		result, err := f.svc.Finalize(ctx, f.user.ID, ports.FinalizeRequest{GoalID: f.goal.ID})
		require.NoError(t, err)
		assert.Equal(t, 1, result.DaysGenerated)
		assert.Equal(t, 3, result.TotalTasksGenerated)
	})

	t.Run("past deadline still succeeds with zero instances", func(t *testing.T) {
		f := newTaskFixture(t, entities.AddDays(entities.Today(), -1))
		seedTemplates(t, f, 2)

		result, err := f.svc.Finalize(ctx, f.user.ID, ports.FinalizeRequest{GoalID: f.goal.ID})
		require.NoError(t, err)
		assert.Equal(t, 0, result.DaysGenerated)
		assert.Equal(t, 0, result.TotalTasksGenerated)

		templates, err := f.store.Tasks().ListTemplates(ctx, f.goal.ID)
		require.NoError(t, err)
		assert.Empty(t, templates, "templates are consumed even with no instances")
	})

	t.Run("no templates is an error", func(t *testing.T) {
		f := newTaskFixture(t, entities.AddDays(entities.Today(), 2))

		_, err := f.svc.Finalize(ctx, f.user.ID, ports.FinalizeRequest{GoalID: f.goal.ID})
		assert.ErrorIs(t, err, entities.ErrNoTemplates)
	})
}

func TestTaskServiceOwnership(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t, entities.AddDays(entities.Today(), 7))

	task, err := f.svc.Create(ctx, f.user.ID, ports.CreateTaskRequest{
		GoalID: f.goal.ID, Type: entities.TaskTypePositive, Description: "Practice", Points: 10, Date: entities.Today(),
	})
	require.NoError(t, err)

	stranger := f.user.ID + 1

	t.Run("foreign task reads as not found", func(t *testing.T) {
		_, err := f.svc.Get(ctx, stranger, task.ID)
		assert.ErrorIs(t, err, entities.ErrTaskNotFound)
	})

	t.Run("foreign patch reads as not found", func(t *testing.T) {
		_, err := f.svc.SetCompleted(ctx, stranger, task.ID, true)
		assert.ErrorIs(t, err, entities.ErrTaskNotFound)
	})

	t.Run("owner can toggle completion", func(t *testing.T) {
		updated, err := f.svc.SetCompleted(ctx, f.user.ID, task.ID, true)
		require.NoError(t, err)
		assert.True(t, updated.Completed)
	})

	t.Run("foreign delete reads as not found", func(t *testing.T) {
		err := f.svc.Delete(ctx, stranger, task.ID)
		assert.ErrorIs(t, err, entities.ErrTaskNotFound)
	})
}

func TestTaskServiceSeries(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t, entities.AddDays(entities.Today(), 7))

	created, err := f.store.Tasks().CreateBatch(ctx, []entities.Task{
		{GoalID: f.goal.ID, Type: entities.TaskTypePositive, Description: "Practice scales", Points: 20, Date: entities.Today()},
		{GoalID: f.goal.ID, Type: entities.TaskTypePositive, Description: "Practice scales", Points: 20, Date: entities.AddDays(entities.Today(), 1)},
		{GoalID: f.goal.ID, Type: entities.TaskTypeNegative, Description: "Skip practice", Points: -10, Date: entities.Today()},
	})
	require.NoError(t, err)

	t.Run("update rewrites the whole series", func(t *testing.T) {
		count, err := f.svc.UpdateInstances(ctx, f.user.ID, ports.UpdateInstancesRequest{
			GoalID: f.goal.ID, OriginalTaskID: created[0].ID,
			Type: entities.TaskTypePositive, Description: "Practice arpeggios", Points: 25,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("delete removes the whole series", func(t *testing.T) {
		require.NoError(t, f.svc.DeleteInstances(ctx, f.user.ID, ports.DeleteInstancesRequest{
			GoalID: f.goal.ID, TaskID: created[2].ID,
		}))

		all, err := f.store.Tasks().ListByGoal(ctx, f.goal.ID)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("task outside the goal reads as not found", func(t *testing.T) {
		otherGoal := &entities.Goal{UserID: f.user.ID, Title: "Other", Description: "x", TargetDate: entities.AddDays(entities.Today(), 7)}
		require.NoError(t, f.store.Goals().Create(ctx, otherGoal))

		err := f.svc.DeleteInstances(ctx, f.user.ID, ports.DeleteInstancesRequest{
			GoalID: otherGoal.ID, TaskID: created[0].ID,
		})
		assert.ErrorIs(t, err, entities.ErrTaskNotFound)
	})
}
