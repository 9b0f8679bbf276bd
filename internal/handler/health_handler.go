package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"techblog/internal/db"
	"techblog/internal/errors"
)

// HealthHandler reports database connectivity.
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(gormDB *gorm.DB) *HealthHandler {
	return &HealthHandler{db: gormDB}
}

// Check godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} errors.ErrorResponse
// @Router /healthz [get]
func (h *HealthHandler) Check(c echo.Context) error {
	if err := db.Ping(h.db); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "database connection failed",
			Code:  "STORAGE_ERROR",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
