package entities

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrGoalNotFound       = errors.New("goal not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrTasksAlreadyExist  = errors.New("daily tasks already exist for this goal")
	ErrNoTemplates        = errors.New("no template tasks found")
	ErrInvalidImport      = errors.New("invalid import data format")
)

// DateLayout is the wire and storage format for calendar days. Tasks and
// goal deadlines are day-granular, so they are carried as plain dates
// rather than timestamps to keep day comparisons timezone-free.
const DateLayout = "2006-01-02"

// Today returns the current calendar day in DateLayout.
func Today() string {
	return time.Now().Format(DateLayout)
}

// AddDays shifts a DateLayout day by n calendar days. An unparseable
// input is returned unchanged.
func AddDays(date string, n int) string {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return d.AddDate(0, 0, n).Format(DateLayout)
}

// TaskType classifies a task as a point-earning or point-losing habit.
type TaskType string

const (
	TaskTypePositive TaskType = "positive"
	TaskTypeNegative TaskType = "negative"
)

func (tt TaskType) IsValid() bool {
	return tt == TaskTypePositive || tt == TaskTypeNegative
}

// User represents a registered account.
type User struct {
	ID         int       `json:"id" db:"id"`
	Username   string    `json:"username" db:"username"`
	Password   string    `json:"-" db:"password"`
	GrokAPIKey *string   `json:"grokApiKey" db:"grok_api_key"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// HasGrokKey reports whether the user configured an AI key.
func (u *User) HasGrokKey() bool {
	return u.GrokAPIKey != nil && *u.GrokAPIKey != ""
}

// Goal is a user-owned objective with a deadline.
type Goal struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"userId" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	TargetDate  string    `json:"targetDate" db:"target_date"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// DaysThrough returns the number of calendar days from the given day
// through the goal deadline, inclusive. A deadline in the past yields 0.
func (g *Goal) DaysThrough(from string) int {
	start, err := time.Parse(DateLayout, from)
	if err != nil {
		return 0
	}
	end, err := time.Parse(DateLayout, g.TargetDate)
	if err != nil {
		return 0
	}
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Task is a dated, point-valued unit of work linked to a goal. A task
// with IsTemplate set is an unmaterialized daily pattern awaiting user
// review; finalization expands templates into concrete dated instances.
type Task struct {
	ID          int        `json:"id" db:"id"`
	GoalID      int        `json:"goalId" db:"goal_id"`
	Type        TaskType   `json:"type" db:"type"`
	Description string     `json:"description" db:"description"`
	Points      int        `json:"points" db:"points"`
	Completed   bool       `json:"completed" db:"completed"`
	Date        string     `json:"date" db:"date"`
	IsTemplate  bool       `json:"isTemplate" db:"is_template"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// SameSeries reports whether two tasks are daily instances of the same
// template. Instances carry no stable template identifier, so the join
// key is description plus type within a goal.
func (t *Task) SameSeries(other *Task) bool {
	return t.GoalID == other.GoalID &&
		t.Description == other.Description &&
		t.Type == other.Type
}

// Instantiate copies a template into a concrete instance for the given
// day. The returned task has no ID; the store assigns one on create.
func (t *Task) Instantiate(date string) Task {
	inst := *t
	inst.ID = 0
	inst.Date = date
	inst.Completed = false
	inst.IsTemplate = false
	inst.UpdatedAt = nil
	return inst
}
