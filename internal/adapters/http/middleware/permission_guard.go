package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"disaster-response/internal/application"
	"disaster-response/internal/domain"
)

// Authorizer decides whether a user holds permissions.
type Authorizer interface {
	Check(ctx context.Context, userID string, mode application.MatchMode, perms ...domain.Permission) (bool, error)
}

// RequireAuthenticated rejects anonymous requests with 401.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if UserID(c) == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": domain.ErrUnauthenticated.Error()})
			}
			return next(c)
		}
	}
}

// RequirePermission rejects requests whose user does not hold perms under
// mode. Blacklisted and unknown users are denied.
func RequirePermission(authz Authorizer, mode application.MatchMode, perms ...domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := UserID(c)
			if userID == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": domain.ErrUnauthenticated.Error()})
			}
			ok, err := authz.Check(c.Request().Context(), userID, mode, perms...)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
			}
			if !ok {
				return c.JSON(http.StatusForbidden, map[string]any{
					"error":    domain.ErrPermissionDeny.Error(),
					"required": perms,
					"mode":     mode,
				})
			}
			return next(c)
		}
	}
}
