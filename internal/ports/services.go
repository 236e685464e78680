package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/goaltracker/core/internal/domain/entities"
)

// Claims is the authenticated identity extracted from a session token.
// It establishes who the caller is, not what they may touch; handlers
// re-verify resource ownership on every operation.
type Claims struct {
	UserID   int    `json:"userId"`
	Username string `json:"username"`
}

// Auth DTOs

type RegisterRequest struct {
	Username   string `json:"username" validate:"required,min=3,max=50"`
	Password   string `json:"password" validate:"required,min=6"`
	GrokAPIKey string `json:"grokApiKey"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserSummary is the safe user shape returned to clients.
type UserSummary struct {
	ID         int     `json:"id"`
	Username   string  `json:"username"`
	GrokAPIKey *string `json:"grokApiKey"`
}

// AuthResponse carries the login result. The token travels in an
// HTTP-only cookie, never in the body.
type AuthResponse struct {
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
	Token   string      `json:"-"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type UpdateGrokKeyRequest struct {
	GrokAPIKey string `json:"grokApiKey"`
}

// Goal DTOs

type CreateGoalRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
	TargetDate  string `json:"targetDate" validate:"required,datetime=2006-01-02"`
}

type UpdateGoalRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
	TargetDate  string `json:"targetDate" validate:"required,datetime=2006-01-02"`
}

// Task DTOs

type CreateTaskRequest struct {
	GoalID      int               `json:"goalId" validate:"required"`
	Type        entities.TaskType `json:"type" validate:"required,oneof=positive negative"`
	Description string            `json:"description" validate:"required"`
	Points      int               `json:"points"`
	Date        string            `json:"date" validate:"required,datetime=2006-01-02"`
	Completed   bool              `json:"completed"`
	IsTemplate  bool              `json:"isTemplate"`
}

type UpdateTaskRequest struct {
	GoalID      int               `json:"goalId" validate:"required"`
	Type        entities.TaskType `json:"type" validate:"required,oneof=positive negative"`
	Description string            `json:"description" validate:"required"`
	Points      int               `json:"points"`
	Date        string            `json:"date" validate:"required,datetime=2006-01-02"`
	Completed   bool              `json:"completed"`
}

type PatchTaskRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

type GenerateTasksRequest struct {
	GoalID          int    `json:"goalId" validate:"required"`
	GoalTitle       string `json:"goalTitle" validate:"required"`
	GoalDescription string `json:"goalDescription"`
}

type GenerateResult struct {
	Message string          `json:"message"`
	Tasks   []entities.Task `json:"tasks"`
	Source  string          `json:"source"`
}

type FinalizeRequest struct {
	GoalID int `json:"goalId" validate:"required"`
}

type FinalizeResult struct {
	Message             string `json:"message"`
	TotalTasksGenerated int    `json:"totalTasksGenerated"`
	DaysGenerated       int    `json:"daysGenerated"`
	TasksPerDay         int    `json:"tasksPerDay"`
}

type DeleteForGoalRequest struct {
	GoalID int `json:"goalId" validate:"required"`
}

type DeleteInstancesRequest struct {
	GoalID int `json:"goalId" validate:"required"`
	TaskID int `json:"taskId" validate:"required"`
}

type UpdateInstancesRequest struct {
	GoalID         int               `json:"goalId" validate:"required"`
	OriginalTaskID int               `json:"originalTaskId" validate:"required"`
	Type           entities.TaskType `json:"type" validate:"required,oneof=positive negative"`
	Description    string            `json:"description" validate:"required"`
	Points         int               `json:"points"`
}

// Stats DTOs

type PointsResponse struct {
	Total int `json:"total"`
}

type GoalStats struct {
	GoalID   int     `json:"goalId"`
	Title    string  `json:"title"`
	Progress float64 `json:"progress"`
}

type StatsResponse struct {
	TotalPoints int         `json:"totalPoints"`
	TodayPoints int         `json:"todayPoints"`
	Streak      int         `json:"streak"`
	Goals       []GoalStats `json:"goals"`
}

// Export / import DTOs

type ExportUser struct {
	ID         int       `json:"id"`
	Username   string    `json:"username"`
	GrokAPIKey *string   `json:"grokApiKey"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ExportStatistics struct {
	TotalGoals     int `json:"totalGoals"`
	TotalTasks     int `json:"totalTasks"`
	CompletedTasks int `json:"completedTasks"`
	TotalPoints    int `json:"totalPoints"`
}

// ExportData is the full backup envelope for one account.
type ExportData struct {
	ExportID   uuid.UUID        `json:"exportId"`
	ExportDate time.Time        `json:"exportDate"`
	Version    string           `json:"version"`
	User       ExportUser       `json:"user"`
	Goals      []entities.Goal  `json:"goals"`
	Tasks      []entities.Task  `json:"tasks"`
	Statistics ExportStatistics `json:"statistics"`
}

// ImportRequest uses slice pointers so a missing key is distinguishable
// from an empty array; both top-level arrays must be present.
type ImportRequest struct {
	Goals *[]entities.Goal `json:"goals"`
	Tasks *[]entities.Task `json:"tasks"`
}

type ImportCounts struct {
	Goals int `json:"goals"`
	Tasks int `json:"tasks"`
}

type ImportTotals struct {
	TotalGoals int `json:"totalGoals"`
	TotalTasks int `json:"totalTasks"`
}

type ImportResult struct {
	Message    string       `json:"message"`
	Imported   ImportCounts `json:"imported"`
	Statistics ImportTotals `json:"statistics"`
}

// Suggestion is one AI- or fallback-produced task template.
type Suggestion struct {
	Description string            `json:"description"`
	Type        entities.TaskType `json:"type"`
	Points      int               `json:"points"`
}

// TaskSuggester produces daily task templates for a goal. Implementations
// are best-effort: they must return a usable suggestion list or an error,
// and the caller substitutes the deterministic fallback on any error.
type TaskSuggester interface {
	Suggest(ctx context.Context, apiKey, goalTitle, goalDescription string) ([]Suggestion, error)
}
