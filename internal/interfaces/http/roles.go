package http

import (
	stdhttp "net/http"

	"github.com/labstack/echo/v4"

	"disaster-response/internal/adapters/http/middleware"
	"disaster-response/internal/application"
	"disaster-response/internal/domain"
	"disaster-response/internal/ports"
)

type RolesHandler struct {
	service *application.RoleService
	users   *application.UserService
	logger  ports.Logger
}

func NewRolesHandler(service *application.RoleService, users *application.UserService, logger ports.Logger) *RolesHandler {
	return &RolesHandler{service: service, users: users, logger: logger}
}

type roleRequest struct {
	Name        string              `json:"name" validate:"required,min=2,max=50"`
	DisplayName string              `json:"display_name" validate:"required,max=100"`
	Description string              `json:"description" validate:"max=500"`
	Permissions []domain.Permission `json:"permissions" validate:"dive,permission"`
	IsActive    *bool               `json:"is_active"`
}

func (r roleRequest) toDomain(id string) domain.Role {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return domain.Role{
		ID:          id,
		Name:        r.Name,
		DisplayName: r.DisplayName,
		Description: r.Description,
		Permissions: r.Permissions,
		IsActive:    active,
	}
}

func (h *RolesHandler) List(c echo.Context) error {
	roles, err := h.service.List(c.Request().Context())
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, roles)
}

func (h *RolesHandler) Get(c echo.Context) error {
	role, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, role)
}

func (h *RolesHandler) Create(c echo.Context) error {
	var req roleRequest
	if err := bind(c, &req); err != nil {
		return respondBindError(c, h.logger, err)
	}
	ctx := c.Request().Context()
	actor, err := loadActor(ctx, h.users, middleware.UserID(c))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	role, err := h.service.Create(ctx, &actor, req.toDomain(""))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusCreated, role)
}

func (h *RolesHandler) Update(c echo.Context) error {
	var req roleRequest
	if err := bind(c, &req); err != nil {
		return respondBindError(c, h.logger, err)
	}
	ctx := c.Request().Context()
	actor, err := loadActor(ctx, h.users, middleware.UserID(c))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	role, err := h.service.Update(ctx, &actor, req.toDomain(c.Param("id")))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, role)
}

func (h *RolesHandler) SetActive(c echo.Context) error {
	var req struct {
		Active *bool `json:"active" validate:"required"`
	}
	if err := bind(c, &req); err != nil {
		return respondBindError(c, h.logger, err)
	}
	role, err := h.service.SetActive(c.Request().Context(), middleware.UserID(c), c.Param("id"), *req.Active)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, role)
}

func (h *RolesHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), middleware.UserID(c), c.Param("id")); err != nil {
		return handleError(c, h.logger, err)
	}
	return c.NoContent(stdhttp.StatusNoContent)
}
