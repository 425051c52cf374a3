package http

import (
	"fmt"
	stdhttp "net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"disaster-response/internal/application"
	"disaster-response/internal/domain"
	"disaster-response/internal/ports"
)

const defaultStatsWindow = 24 * time.Hour

type AuditHandler struct {
	service *application.AuditService
	logger  ports.Logger
}

func NewAuditHandler(service *application.AuditService, logger ports.Logger) *AuditHandler {
	return &AuditHandler{service: service, logger: logger}
}

func (h *AuditHandler) List(c echo.Context) error {
	filters := domain.AuditFilters{
		ActorID:    c.QueryParam("actor_id"),
		Action:     c.QueryParam("action"),
		TargetType: c.QueryParam("target_type"),
		Search:     c.QueryParam("search"),
	}
	var err error
	if filters.From, err = queryTime(c, "from"); err != nil {
		return handleError(c, h.logger, err)
	}
	if filters.To, err = queryTime(c, "to"); err != nil {
		return handleError(c, h.logger, err)
	}
	if filters.Page, err = queryInt(c, "page"); err != nil {
		return handleError(c, h.logger, err)
	}
	if filters.PageSize, err = queryInt(c, "page_size"); err != nil {
		return handleError(c, h.logger, err)
	}
	page, err := h.service.List(c.Request().Context(), filters)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, page)
}

func (h *AuditHandler) Stats(c echo.Context) error {
	window := defaultStatsWindow
	if raw := c.QueryParam("window"); raw != "" {
		parsed, err := parseWindow(raw)
		if err != nil {
			return handleError(c, h.logger, err)
		}
		window = parsed
	}
	stats, err := h.service.Stats(c.Request().Context(), window)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, stats)
}

// parseWindow accepts Go durations plus a whole-day form such as "7d".
func parseWindow(raw string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(raw, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("window %q: %w", raw, domain.ErrInvalidInput)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("window %q: %w", raw, domain.ErrInvalidInput)
	}
	return d, nil
}

func queryTime(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be RFC3339: %w", name, domain.ErrInvalidInput)
	}
	return t, nil
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer: %w", name, domain.ErrInvalidInput)
	}
	return n, nil
}
