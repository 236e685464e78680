package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/goaltracker/core/internal/application/services"
	"github.com/goaltracker/core/internal/domain/entities"
	"github.com/goaltracker/core/internal/infrastructure/logger"
	"github.com/goaltracker/core/internal/ports"
)

// DataHandler serves account export and import
type DataHandler struct {
	dataService *services.DataService
	logger      *logger.Logger
}

// NewDataHandler creates a new data handler
func NewDataHandler(dataService *services.DataService, logger *logger.Logger) *DataHandler {
	return &DataHandler{
		dataService: dataService,
		logger:      logger,
	}
}

// Export streams the caller's full account as a downloadable JSON backup
func (h *DataHandler) Export(c echo.Context) error {
	claims := getClaims(c)

	data, err := h.dataService.Export(c.Request().Context(), claims.UserID)
	if err != nil {
		h.logger.Error("Export failed", "error", err, "user_id", claims.UserID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export data")
	}

	filename := fmt.Sprintf("goaltracker-export-%s.json", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.JSON(http.StatusOK, data)
}

// Import merges a backup file into the caller's account
func (h *DataHandler) Import(c echo.Context) error {
	claims := getClaims(c)

	var req ports.ImportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	result, err := h.dataService.Import(c.Request().Context(), claims.UserID, req)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidImport) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.logger.Error("Import failed", "error", err, "user_id", claims.UserID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to import data")
	}

	return c.JSON(http.StatusOK, result)
}
