package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandlers struct {
	db Pinger
}

func NewHealthHandlers(db Pinger) *HealthHandlers {
	return &HealthHandlers{db: db}
}

func (h *HealthHandlers) Health(c echo.Context) error {
	if err := h.db.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":   "unhealthy",
			"database": "down",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":   "ok",
		"database": "up",
	})
}
