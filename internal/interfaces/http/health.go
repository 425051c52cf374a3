package http

import (
	stdhttp "net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	started time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{started: time.Now()}
}

func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}
