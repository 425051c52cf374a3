package http

import (
	"context"
	"errors"
	stdhttp "net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"disaster-response/internal/domain"
	"disaster-response/internal/ports"
)

func handleError(c echo.Context, logger ports.Logger, err error) error {
	var changeErr *domain.PermissionChangeError
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &changeErr):
		return c.JSON(stdhttp.StatusForbidden, map[string]any{"error": err.Error(), "result": changeErr.Result})
	case errors.As(err, &validationErrs):
		return c.JSON(stdhttp.StatusBadRequest, map[string]any{"error": "validation failed", "fields": fieldErrors(validationErrs)})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthenticated):
		return c.JSON(stdhttp.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrPermissionDeny):
		return c.JSON(stdhttp.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(stdhttp.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrSystemRole):
		return c.JSON(stdhttp.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrUpstream):
		return c.JSON(stdhttp.StatusBadGateway, map[string]string{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return c.JSON(stdhttp.StatusServiceUnavailable, map[string]string{"error": "request cancelled"})
	default:
		logger.Error(c.Request().Context(), "unhandled error", "path", c.Path(), "error", err)
		return c.JSON(stdhttp.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func invalidPayload(c echo.Context) error {
	return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": "invalid payload"})
}

// bind decodes the request into dest and runs struct validation.
func bind(c echo.Context, dest any) error {
	if err := c.Bind(dest); err != nil {
		return errBadPayload
	}
	return c.Validate(dest)
}

var errBadPayload = errors.New("invalid payload")

// respondBindError writes the response for a failed bind call.
func respondBindError(c echo.Context, logger ports.Logger, err error) error {
	if errors.Is(err, errBadPayload) {
		return invalidPayload(c)
	}
	return handleError(c, logger, err)
}
