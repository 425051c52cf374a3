package http

import (
	stdhttp "net/http"

	"github.com/labstack/echo/v4"

	"disaster-response/internal/application"
	"disaster-response/internal/domain"
	"disaster-response/internal/ports"
)

type NewsHandler struct {
	service *application.NewsService
	logger  ports.Logger
}

func NewNewsHandler(service *application.NewsService, logger ports.Logger) *NewsHandler {
	return &NewsHandler{service: service, logger: logger}
}

func (h *NewsHandler) Latest(c echo.Context) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return handleError(c, h.logger, err)
	}
	snapshot, err := h.service.Latest(c.Request().Context(), domain.NewsQuery{
		Source:   c.QueryParam("source"),
		Category: c.QueryParam("category"),
		Limit:    limit,
	})
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, snapshot)
}

// Refresh polls every source now instead of waiting for the next tick.
func (h *NewsHandler) Refresh(c echo.Context) error {
	snapshot, err := h.service.Refresh(c.Request().Context())
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, snapshot)
}
