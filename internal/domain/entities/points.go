package entities

import "time"

// Aggregation helpers for the dashboard numbers. All of them are pure
// functions over a task slice and are recomputed on every read; at this
// entity scale a linear pass is cheaper than any cache invalidation.

// TotalPoints sums the stored points of completed tasks. Negative-type
// tasks carry negative point values, so the raw sum already reflects
// the penalty.
func TotalPoints(tasks []Task) int {
	total := 0
	for _, t := range tasks {
		if t.Completed {
			total += t.Points
		}
	}
	return total
}

// PointsOn sums the stored points of completed tasks dated on the given
// calendar day.
func PointsOn(tasks []Task, date string) int {
	total := 0
	for _, t := range tasks {
		if t.Completed && t.Date == date {
			total += t.Points
		}
	}
	return total
}

// GoalProgress returns the completion percentage of a goal's positive
// tasks. Negative tasks are habits to avoid, not milestones, so they are
// excluded from both numerator and denominator.
func GoalProgress(tasks []Task) float64 {
	var positive, completed int
	for _, t := range tasks {
		if t.Type != TaskTypePositive {
			continue
		}
		positive++
		if t.Completed {
			completed++
		}
	}
	if positive == 0 {
		return 0
	}
	return float64(completed) / float64(positive) * 100
}

// streakWindow caps how far back the streak walk goes.
const streakWindow = 30

// Streak counts consecutive calendar days, walking backward from today,
// on which at least one non-template task was completed. The walk stops
// at the first gap and looks back at most 30 days.
func Streak(tasks []Task, today string) int {
	days := make(map[string]bool)
	for _, t := range tasks {
		if t.Completed && !t.IsTemplate {
			days[t.Date] = true
		}
	}

	start, err := time.Parse(DateLayout, today)
	if err != nil {
		return 0
	}

	streak := 0
	for i := 0; i < streakWindow; i++ {
		day := start.AddDate(0, 0, -i).Format(DateLayout)
		if !days[day] {
			break
		}
		streak++
	}
	return streak
}
