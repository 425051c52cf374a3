package http

import (
	stdhttp "net/http"

	"github.com/labstack/echo/v4"

	"disaster-response/internal/adapters/http/middleware"
	"disaster-response/internal/application"
	"disaster-response/internal/authz"
	"disaster-response/internal/domain"
	"disaster-response/internal/ports"
)

type PermissionsHandler struct {
	catalog *domain.Catalog
	logger  ports.Logger
}

func NewPermissionsHandler(catalog *domain.Catalog, logger ports.Logger) *PermissionsHandler {
	if catalog == nil {
		catalog = domain.DefaultCatalog()
	}
	return &PermissionsHandler{catalog: catalog, logger: logger}
}

func (h *PermissionsHandler) List(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, h.catalog.Metadata())
}

func (h *PermissionsHandler) Categories(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, authz.GroupByCategory(h.catalog.Metadata()))
}

type AuthorizationHandler struct {
	service *application.AuthorizationService
	users   *application.UserService
	logger  ports.Logger
}

func NewAuthorizationHandler(service *application.AuthorizationService, users *application.UserService, logger ports.Logger) *AuthorizationHandler {
	return &AuthorizationHandler{service: service, users: users, logger: logger}
}

type mePermissionsResponse struct {
	UserID        string                                                    `json:"user_id"`
	IsSuperAdmin  bool                                                      `json:"is_super_admin"`
	IsBlacklisted bool                                                      `json:"is_blacklisted"`
	Roles         []string                                                  `json:"roles"`
	Permissions   []domain.Permission                                       `json:"permissions"`
	ByCategory    map[domain.PermissionCategory][]domain.PermissionMetadata `json:"by_category"`
}

// MePermissions returns the caller's resolved permissions for display gating.
func (h *AuthorizationHandler) MePermissions(c echo.Context) error {
	user, err := h.users.Get(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	resp := mePermissionsResponse{
		UserID:        user.ID,
		IsSuperAdmin:  user.IsSuperAdmin,
		IsBlacklisted: user.IsBlacklisted,
		Roles:         make([]string, 0, len(user.Roles)),
		Permissions:   user.EffectivePermissions,
	}
	for _, r := range user.Roles {
		resp.Roles = append(resp.Roles, r.Name)
	}
	if user.IsBlacklisted {
		resp.Permissions = []domain.Permission{}
	}
	catalog := domain.DefaultCatalog()
	held := make([]domain.PermissionMetadata, 0, len(resp.Permissions))
	for _, p := range resp.Permissions {
		if meta, ok := catalog.Lookup(p); ok {
			held = append(held, meta)
		}
	}
	resp.ByCategory = authz.GroupByCategory(held)
	return c.JSON(stdhttp.StatusOK, resp)
}

func (h *AuthorizationHandler) Authorize(c echo.Context) error {
	var req struct {
		UserID      string              `json:"user_id"`
		Permissions []domain.Permission `json:"permissions" validate:"required,min=1,dive,permission"`
		Mode        string              `json:"mode" validate:"omitempty,oneof=all any"`
	}
	if err := bind(c, &req); err != nil {
		return respondBindError(c, h.logger, err)
	}
	ctx := c.Request().Context()
	caller := middleware.UserID(c)
	if req.UserID == "" {
		req.UserID = caller
	}
	// Checking someone else's permissions is itself a user read.
	if req.UserID != caller {
		ok, err := h.service.Check(ctx, caller, application.MatchAll, domain.PermViewUser)
		if err != nil {
			return handleError(c, h.logger, err)
		}
		if !ok {
			return handleError(c, h.logger, domain.ErrPermissionDeny)
		}
	}
	mode := application.MatchMode(req.Mode)
	if mode == "" {
		mode = application.MatchAll
	}
	allowed, err := h.service.Check(ctx, req.UserID, mode, req.Permissions...)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, map[string]any{"allowed": allowed, "user_id": req.UserID, "mode": mode})
}
