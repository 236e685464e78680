package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goaltracker/core/internal/application/services"
	"github.com/goaltracker/core/internal/infrastructure/logger"
)

// StatsHandler serves the dashboard aggregates
type StatsHandler struct {
	statsService *services.StatsService
	logger       *logger.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *services.StatsService, logger *logger.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		logger:       logger,
	}
}

// Points returns the caller's lifetime point total
func (h *StatsHandler) Points(c echo.Context) error {
	claims := getClaims(c)

	points, err := h.statsService.Points(c.Request().Context(), claims.UserID)
	if err != nil {
		h.logger.Error("Points lookup failed", "error", err, "user_id", claims.UserID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute points")
	}

	return c.JSON(http.StatusOK, points)
}

// Stats returns the full dashboard summary
func (h *StatsHandler) Stats(c echo.Context) error {
	claims := getClaims(c)

	stats, err := h.statsService.Stats(c.Request().Context(), claims.UserID)
	if err != nil {
		h.logger.Error("Stats lookup failed", "error", err, "user_id", claims.UserID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute stats")
	}

	return c.JSON(http.StatusOK, stats)
}
