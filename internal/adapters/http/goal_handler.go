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

// GoalHandler handles goal CRUD requests
type GoalHandler struct {
	goalService *services.GoalService
	logger      *logger.Logger
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(goalService *services.GoalService, logger *logger.Logger) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
		logger:      logger,
	}
}

// Create handles goal creation
func (h *GoalHandler) Create(c echo.Context) error {
	claims := getClaims(c)

	var req ports.CreateGoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	goal, err := h.goalService.Create(c.Request().Context(), claims.UserID, req)
	if err != nil {
		h.logger.Error("Create goal failed", "error", err, "user_id", claims.UserID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create goal")
	}

	return c.JSON(http.StatusCreated, goal)
}

// Get handles fetching a single goal
func (h *GoalHandler) Get(c echo.Context) error {
	claims := getClaims(c)

	goalID, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid goal ID")
	}

	goal, err := h.goalService.Get(c.Request().Context(), claims.UserID, goalID)
	if err != nil {
		if errors.Is(err, entities.ErrGoalNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Goal not found")
		}
		h.logger.Error("Get goal failed", "error", err, "user_id", claims.UserID, "goal_id", goalID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load goal")
	}

	return c.JSON(http.StatusOK, goal)
}

// List handles listing the caller's goals
func (h *GoalHandler) List(c echo.Context) error {
	claims := getClaims(c)

	goals, err := h.goalService.List(c.Request().Context(), claims.UserID)
	if err != nil {
		h.logger.Error("List goals failed", "error", err, "user_id", claims.UserID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list goals")
	}

	return c.JSON(http.StatusOK, goals)
}

// Update handles rewriting a goal
func (h *GoalHandler) Update(c echo.Context) error {
	claims := getClaims(c)

	goalID, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid goal ID")
	}

	var req ports.UpdateGoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	goal, err := h.goalService.Update(c.Request().Context(), claims.UserID, goalID, req)
	if err != nil {
		if errors.Is(err, entities.ErrGoalNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Goal not found")
		}
		h.logger.Error("Update goal failed", "error", err, "user_id", claims.UserID, "goal_id", goalID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update goal")
	}

	return c.JSON(http.StatusOK, goal)
}

// Delete handles removing a goal and its tasks
func (h *GoalHandler) Delete(c echo.Context) error {
	claims := getClaims(c)

	goalID, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid goal ID")
	}

	if err := h.goalService.Delete(c.Request().Context(), claims.UserID, goalID); err != nil {
		if errors.Is(err, entities.ErrGoalNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Goal not found")
		}
		h.logger.Error("Delete goal failed", "error", err, "user_id", claims.UserID, "goal_id", goalID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete goal")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Goal deleted successfully"})
}

func pathID(c echo.Context) (int, error) {
	return strconv.Atoi(c.Param("id"))
}
