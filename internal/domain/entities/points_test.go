package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTotalPoints(t *testing.T) {
	tasks := []Task{
		{Points: 25, Completed: true, Type: TaskTypePositive},
		{Points: -10, Completed: true, Type: TaskTypeNegative},
		{Points: 50, Completed: false, Type: TaskTypePositive},
	}

	assert.Equal(t, 15, TotalPoints(tasks))
	assert.Equal(t, 0, TotalPoints(nil))
}

func TestPointsOn(t *testing.T) {
	tasks := []Task{
		{Points: 20, Completed: true, Date: "2026-08-30"},
		{Points: 10, Completed: true, Date: "2026-08-31"},
		{Points: -5, Completed: true, Date: "2026-08-31"},
		{Points: 40, Completed: false, Date: "2026-08-31"},
	}

	assert.Equal(t, 5, PointsOn(tasks, "2026-08-31"))
	assert.Equal(t, 20, PointsOn(tasks, "2026-08-30"))
	assert.Equal(t, 0, PointsOn(tasks, "2026-01-01"))
}

func TestGoalProgress(t *testing.T) {
	t.Run("counts only positive tasks", func(t *testing.T) {
		tasks := []Task{
			{Type: TaskTypePositive, Completed: true},
			{Type: TaskTypePositive, Completed: false},
			{Type: TaskTypeNegative, Completed: true},
			{Type: TaskTypeNegative, Completed: false},
		}
		assert.InDelta(t, 50.0, GoalProgress(tasks), 0.001)
	})

	t.Run("no positive tasks yields zero", func(t *testing.T) {
		tasks := []Task{{Type: TaskTypeNegative, Completed: true}}
		assert.Equal(t, 0.0, GoalProgress(tasks))
	})

	t.Run("empty slice yields zero", func(t *testing.T) {
		assert.Equal(t, 0.0, GoalProgress(nil))
	})
}

func TestStreak(t *testing.T) {
	today := "2026-08-31"
	day := func(n int) string {
		d, _ := time.Parse(DateLayout, today)
		return d.AddDate(0, 0, -n).Format(DateLayout)
	}

	t.Run("consecutive days count", func(t *testing.T) {
		tasks := []Task{
			{Completed: true, Date: day(0)},
			{Completed: true, Date: day(1)},
			{Completed: true, Date: day(2)},
		}
		assert.Equal(t, 3, Streak(tasks, today))
	})

	t.Run("gap breaks the streak", func(t *testing.T) {
		tasks := []Task{
			{Completed: true, Date: day(0)},
			{Completed: true, Date: day(2)},
		}
		assert.Equal(t, 1, Streak(tasks, today))
	})

	t.Run("nothing today means no streak", func(t *testing.T) {
		tasks := []Task{{Completed: true, Date: day(1)}}
		assert.Equal(t, 0, Streak(tasks, today))
	})

	t.Run("templates and incomplete tasks are ignored", func(t *testing.T) {
		tasks := []Task{
			{Completed: true, IsTemplate: true, Date: day(0)},
			{Completed: false, Date: day(0)},
		}
		assert.Equal(t, 0, Streak(tasks, today))
	})

	t.Run("walk is capped at thirty days", func(t *testing.T) {
		var tasks []Task
		for i := 0; i < 60; i++ {
			tasks = append(tasks, Task{Completed: true, Date: day(i)})
		}
		assert.Equal(t, 30, Streak(tasks, today))
	})
}

func TestGoalDaysThrough(t *testing.T) {
	goal := Goal{TargetDate: "2026-09-02"}

	assert.Equal(t, 3, goal.DaysThrough("2026-08-31"))
	assert.Equal(t, 1, goal.DaysThrough("2026-09-02"))
	assert.Equal(t, 0, goal.DaysThrough("2026-09-03"), "past deadline yields zero days")
}

func TestAddDays(t *testing.T) {
	assert.Equal(t, "2026-09-01", AddDays("2026-08-31", 1))
	assert.Equal(t, "2026-08-31", AddDays("2026-08-31", 0))
	assert.Equal(t, "garbage", AddDays("garbage", 5))
}

func TestTaskInstantiate(t *testing.T) {
	now := time.Now()
	tpl := Task{
		ID:          7,
		GoalID:      3,
		Type:        TaskTypePositive,
		Description: "Practice scales",
		Points:      20,
		Completed:   true,
		Date:        "2026-08-31",
		IsTemplate:  true,
		UpdatedAt:   &now,
	}

	inst := tpl.Instantiate("2026-09-01")

	assert.Zero(t, inst.ID)
	assert.Equal(t, "2026-09-01", inst.Date)
	assert.False(t, inst.Completed)
	assert.False(t, inst.IsTemplate)
	assert.Nil(t, inst.UpdatedAt)
	assert.Equal(t, tpl.Description, inst.Description)
	assert.Equal(t, tpl.Points, inst.Points)
	assert.True(t, inst.SameSeries(&tpl))
}
