package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/goaltracker/core/internal/application/services"
	"github.com/goaltracker/core/internal/domain/entities"
	"github.com/goaltracker/core/internal/infrastructure/logger"
	"github.com/goaltracker/core/internal/ports"
)

// TaskHandler handles task CRUD, generation and finalization requests
type TaskHandler struct {
	taskService *services.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// Create handles task creation
func (h *TaskHandler) Create(c echo.Context) error {
	claims := getClaims(c)

	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.Create(c.Request().Context(), claims.UserID, req)
	if err != nil {
		return h.taskError(c, err, claims.UserID, "Create task failed")
	}

	return c.JSON(http.StatusCreated, task)
}

// Get handles fetching a single task
func (h *TaskHandler) Get(c echo.Context) error {
	claims := getClaims(c)

	taskID, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	task, err := h.taskService.Get(c.Request().Context(), claims.UserID, taskID)
	if err != nil {
		return h.taskError(c, err, claims.UserID, "Get task failed")
	}

	return c.JSON(http.StatusOK, task)
}

// List handles listing tasks, optionally filtered by goal via ?goalId=
func (h *TaskHandler) List(c echo.Context) error {
	claims := getClaims(c)

	var goalID *int
	if raw := c.QueryParam("goalId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid goal ID")
		}
		goalID = &id
	}

	tasks, err := h.taskService.List(c.Request().Context(), claims.UserID, goalID)
	if err != nil {
		return h.taskError(c, err, claims.UserID, "List tasks failed")
	}

	return c.JSON(http.StatusOK, tasks)
}

// Update handles full task rewrites
func (h *TaskHandler) Update(c echo.Context) error {
	claims := getClaims(c)

	taskID, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.Update(c.Request().Context(), claims.UserID, taskID, req)
	if err != nil {
		return h.taskError(c, err, claims.UserID, "Update task failed")
	}

	return c.JSON(http.StatusOK, task)
}

// Patch handles completion toggles
func (h *TaskHandler) Patch(c echo.Context) error {
	claims := getClaims(c)

	taskID, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	var req ports.PatchTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "completed field is required")
	}

	task, err := h.taskService.SetCompleted(c.Request().Context(), claims.UserID, taskID, *req.Completed)
	if err != nil {
		return h.taskError(c, err, claims.UserID, "Patch task failed")
	}

	return c.JSON(http.StatusOK, task)
}

// Delete handles removing a single task
func (h *TaskHandler) Delete(c echo.Context) error {
	claims := getClaims(c)

	taskID, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	if err := h.taskService.Delete(c.Request().Context(), claims.UserID, taskID); err != nil {
		return h.taskError(c, err, claims.UserID, "Delete task failed")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
}

// Generate handles AI or fallback template generation for a goal
func (h *TaskHandler) Generate(c echo.Context) error {
	claims := getClaims(c)

	var req ports.GenerateTasksRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.taskService.Generate(c.Request().Context(), claims.UserID, req)
	if err != nil {
		if errors.Is(err, entities.ErrTasksAlreadyExist) {
			return echo.NewHTTPError(http.StatusBadRequest, "Daily tasks already exist for this goal")
		}
		return h.taskError(c, err, claims.UserID, "Generate tasks failed")
	}

	return c.JSON(http.StatusOK, result)
}

// Finalize handles expanding reviewed templates into daily instances
func (h *TaskHandler) Finalize(c echo.Context) error {
	claims := getClaims(c)

	var req ports.FinalizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.taskService.Finalize(c.Request().Context(), claims.UserID, req)
	if err != nil {
		if errors.Is(err, entities.ErrNoTemplates) {
			return echo.NewHTTPError(http.StatusNotFound, "No template tasks found for this goal")
		}
		return h.taskError(c, err, claims.UserID, "Finalize tasks failed")
	}

	return c.JSON(http.StatusOK, result)
}

// DeleteAllForGoal handles bulk deletion of a goal's tasks
func (h *TaskHandler) DeleteAllForGoal(c echo.Context) error {
	claims := getClaims(c)

	var req ports.DeleteForGoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.taskService.DeleteAllForGoal(c.Request().Context(), claims.UserID, req); err != nil {
		return h.taskError(c, err, claims.UserID, "Delete goal tasks failed")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "All tasks deleted for goal"})
}

// DeleteInstances handles removing every instance of a task series
func (h *TaskHandler) DeleteInstances(c echo.Context) error {
	claims := getClaims(c)

	var req ports.DeleteInstancesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.taskService.DeleteInstances(c.Request().Context(), claims.UserID, req); err != nil {
		return h.taskError(c, err, claims.UserID, "Delete task series failed")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "All task instances deleted"})
}

// UpdateInstances handles rewriting every instance of a task series
func (h *TaskHandler) UpdateInstances(c echo.Context) error {
	claims := getClaims(c)

	var req ports.UpdateInstancesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	count, err := h.taskService.UpdateInstances(c.Request().Context(), claims.UserID, req)
	if err != nil {
		return h.taskError(c, err, claims.UserID, "Update task series failed")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":      "All task instances updated",
		"updatedCount": count,
	})
}

// taskError maps domain sentinels to HTTP codes; anything else is a 500.
func (h *TaskHandler) taskError(c echo.Context, err error, userID int, msg string) error {
	switch {
	case errors.Is(err, entities.ErrTaskNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	case errors.Is(err, entities.ErrGoalNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Goal not found")
	default:
		h.logger.Error(msg, "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
