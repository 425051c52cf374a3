package http

import (
	stdhttp "net/http"

	"github.com/labstack/echo/v4"

	"disaster-response/internal/adapters/http/middleware"
	"disaster-response/internal/application"
	"disaster-response/internal/domain"
	"disaster-response/internal/ports"
)

type UsersHandler struct {
	service *application.UserService
	logger  ports.Logger
}

func NewUsersHandler(service *application.UserService, logger ports.Logger) *UsersHandler {
	return &UsersHandler{service: service, logger: logger}
}

type permissionsRequest struct {
	Permissions []domain.Permission `json:"permissions" validate:"dive,permission"`
}

func (r permissionsRequest) list() []domain.Permission {
	if r.Permissions == nil {
		return []domain.Permission{}
	}
	return r.Permissions
}

func (h *UsersHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, users)
}

func (h *UsersHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, user)
}

func (h *UsersHandler) Create(c echo.Context) error {
	var req struct {
		ID          string              `json:"id" validate:"omitempty,max=128"`
		Name        string              `json:"name" validate:"required,max=100"`
		Email       string              `json:"email" validate:"required,email"`
		Roles       []string            `json:"roles" validate:"dive,required"`
		Permissions []domain.Permission `json:"permissions" validate:"dive,permission"`
	}
	if err := bind(c, &req); err != nil {
		return respondBindError(c, h.logger, err)
	}
	user, err := h.service.Create(c.Request().Context(), middleware.UserID(c), domain.UserRecord{
		ID:                req.ID,
		Name:              req.Name,
		Email:             req.Email,
		RoleIDs:           req.Roles,
		DirectPermissions: req.Permissions,
	})
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusCreated, user)
}

func (h *UsersHandler) AssignRole(c echo.Context) error {
	var req struct {
		RoleID string `json:"role_id" validate:"required"`
	}
	if err := bind(c, &req); err != nil {
		return respondBindError(c, h.logger, err)
	}
	user, err := h.service.AssignRole(c.Request().Context(), middleware.UserID(c), c.Param("id"), req.RoleID)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, user)
}

func (h *UsersHandler) RemoveRole(c echo.Context) error {
	user, err := h.service.RemoveRole(c.Request().Context(), middleware.UserID(c), c.Param("id"), c.Param("role_id"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, user)
}

// ValidatePermissions previews a direct permission change without saving it.
func (h *UsersHandler) ValidatePermissions(c echo.Context) error {
	var req permissionsRequest
	if err := bind(c, &req); err != nil {
		return respondBindError(c, h.logger, err)
	}
	result, err := h.service.ValidatePermissionChanges(c.Request().Context(), middleware.UserID(c), c.Param("id"), req.list())
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, result)
}

func (h *UsersHandler) UpdatePermissions(c echo.Context) error {
	var req permissionsRequest
	if err := bind(c, &req); err != nil {
		return respondBindError(c, h.logger, err)
	}
	user, result, err := h.service.UpdateDirectPermissions(c.Request().Context(), middleware.UserID(c), c.Param("id"), req.list())
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, map[string]any{"user": user, "validation": result})
}

func (h *UsersHandler) SetBlacklisted(c echo.Context) error {
	var req struct {
		Blacklisted *bool `json:"blacklisted" validate:"required"`
	}
	if err := bind(c, &req); err != nil {
		return respondBindError(c, h.logger, err)
	}
	user, err := h.service.SetBlacklisted(c.Request().Context(), middleware.UserID(c), c.Param("id"), *req.Blacklisted)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, user)
}
