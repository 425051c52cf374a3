package http

import (
	stdhttp "net/http"

	"github.com/labstack/echo/v4"

	"disaster-response/internal/adapters/http/middleware"
	"disaster-response/internal/application"
	"disaster-response/internal/domain"
	"disaster-response/internal/ports"
)

type ReportsHandler struct {
	service *application.ReportService
	users   *application.UserService
	logger  ports.Logger
}

func NewReportsHandler(service *application.ReportService, users *application.UserService, logger ports.Logger) *ReportsHandler {
	return &ReportsHandler{service: service, users: users, logger: logger}
}

func (h *ReportsHandler) Submit(c echo.Context) error {
	var req struct {
		Title        string  `json:"title" validate:"required,max=200"`
		Description  string  `json:"description" validate:"required,max=5000"`
		DisasterType string  `json:"disaster_type" validate:"required,disaster_type"`
		Location     string  `json:"location" validate:"max=200"`
		Latitude     float64 `json:"latitude" validate:"gte=-90,lte=90"`
		Longitude    float64 `json:"longitude" validate:"gte=-180,lte=180"`
		Severity     string  `json:"severity" validate:"omitempty,oneof=low medium high critical"`
	}
	if err := bind(c, &req); err != nil {
		return respondBindError(c, h.logger, err)
	}
	report, err := h.service.Submit(c.Request().Context(), middleware.UserID(c), domain.Report{
		Title:        req.Title,
		Description:  req.Description,
		DisasterType: req.DisasterType,
		Location:     req.Location,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Severity:     domain.Severity(req.Severity),
	})
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusCreated, report)
}

func (h *ReportsHandler) List(c echo.Context) error {
	filters := domain.ReportFilters{
		Status:     domain.ReportStatus(c.QueryParam("status")),
		ReporterID: c.QueryParam("reporter_id"),
	}
	var err error
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

func (h *ReportsHandler) Get(c echo.Context) error {
	report, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, report)
}

func (h *ReportsHandler) Verify(c echo.Context) error { return h.review(c, true) }

func (h *ReportsHandler) Reject(c echo.Context) error { return h.review(c, false) }

func (h *ReportsHandler) review(c echo.Context, verified bool) error {
	var req struct {
		Note string `json:"note" validate:"max=1000"`
	}
	if err := bind(c, &req); err != nil {
		return respondBindError(c, h.logger, err)
	}
	report, err := h.service.Review(c.Request().Context(), middleware.UserID(c), c.Param("id"), verified, req.Note)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, report)
}

func (h *ReportsHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	actor, err := loadActor(ctx, h.users, middleware.UserID(c))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	if err := h.service.Delete(ctx, &actor, c.Param("id")); err != nil {
		return handleError(c, h.logger, err)
	}
	return c.NoContent(stdhttp.StatusNoContent)
}
