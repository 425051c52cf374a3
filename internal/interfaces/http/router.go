package http

import (
	stdhttp "net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	adaptermiddleware "disaster-response/internal/adapters/http/middleware"
	"disaster-response/internal/application"
	"disaster-response/internal/domain"
)

// Middleware collects the cross-cutting handlers. NewsRateLimit applies only
// to the public news endpoints.
type Middleware struct {
	Auth           echo.MiddlewareFunc
	XRay           echo.MiddlewareFunc
	RequestLogger  echo.MiddlewareFunc
	Metrics        echo.MiddlewareFunc
	NewsRateLimit  echo.MiddlewareFunc
	MetricsHandler stdhttp.Handler
	Authorizer     adaptermiddleware.Authorizer
}

type Handlers struct {
	Health        *HealthHandler
	News          *NewsHandler
	Permissions   *PermissionsHandler
	Authorization *AuthorizationHandler
	Roles         *RolesHandler
	Users         *UsersHandler
	Audit         *AuditHandler
	Reports       *ReportsHandler
}

func newEcho(m Middleware) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	for _, mw := range []echo.MiddlewareFunc{m.XRay, m.RequestLogger, m.Metrics, m.Auth} {
		if mw != nil {
			e.Use(mw)
		}
	}
	return e
}

func NewRouter(h Handlers, m Middleware) *echo.Echo {
	e := newEcho(m)
	require := func(perms ...domain.Permission) echo.MiddlewareFunc {
		return adaptermiddleware.RequirePermission(m.Authorizer, application.MatchAll, perms...)
	}
	authenticated := adaptermiddleware.RequireAuthenticated()

	e.GET("/healthz", h.Health.Health)
	if m.MetricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(m.MetricsHandler))
	}

	news := e.Group("/news")
	if m.NewsRateLimit != nil {
		news.Use(m.NewsRateLimit)
	}
	news.GET("", h.News.Latest)
	news.POST("/refresh", h.News.Refresh)

	e.GET("/permissions", h.Permissions.List, require(domain.PermViewPermissions))
	e.GET("/permissions/categories", h.Permissions.Categories, require(domain.PermViewPermissions))
	e.GET("/me/permissions", h.Authorization.MePermissions, authenticated)
	e.POST("/authorize", h.Authorization.Authorize, authenticated)

	e.GET("/roles", h.Roles.List, require(domain.PermViewRole))
	e.GET("/roles/:id", h.Roles.Get, require(domain.PermViewRole))
	e.POST("/roles", h.Roles.Create, require(domain.PermCreateRole))
	e.PUT("/roles/:id", h.Roles.Update, require(domain.PermEditRole))
	e.PUT("/roles/:id/active", h.Roles.SetActive, require(domain.PermEditRole))
	e.DELETE("/roles/:id", h.Roles.Delete, require(domain.PermDeleteRole))

	e.GET("/users", h.Users.List, require(domain.PermViewUser))
	e.POST("/users", h.Users.Create, require(domain.PermCreateUser))
	e.GET("/users/:id", h.Users.Get, require(domain.PermViewUser))
	e.POST("/users/:id/roles", h.Users.AssignRole, require(domain.PermAssignRole))
	e.DELETE("/users/:id/roles/:role_id", h.Users.RemoveRole, require(domain.PermAssignRole))
	e.PUT("/users/:id/permissions", h.Users.UpdatePermissions, require(domain.PermManagePermissions))
	e.POST("/users/:id/permissions/validate", h.Users.ValidatePermissions, require(domain.PermManagePermissions))
	e.PUT("/users/:id/blacklist", h.Users.SetBlacklisted, require(domain.PermBlacklistUser))

	e.GET("/audit-logs", h.Audit.List, require(domain.PermViewAuditLog))
	e.GET("/audit-logs/stats", h.Audit.Stats, require(domain.PermViewAuditLog))

	e.POST("/reports", h.Reports.Submit, require(domain.PermCreateReport))
	e.GET("/reports", h.Reports.List, require(domain.PermViewReport))
	e.GET("/reports/:id", h.Reports.Get, require(domain.PermViewReport))
	e.POST("/reports/:id/verify", h.Reports.Verify, require(domain.PermVerifyReport))
	e.POST("/reports/:id/reject", h.Reports.Reject, require(domain.PermVerifyReport))
	e.DELETE("/reports/:id", h.Reports.Delete, authenticated)
	return e
}
