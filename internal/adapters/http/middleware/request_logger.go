package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"disaster-response/internal/ports"
)

// RequestLogger logs one line per request. Server errors log at error level.
func RequestLogger(logger ports.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			started := time.Now()
			err := next(c)
			if err != nil {
				// Let echo write the response so the logged status is final.
				c.Error(err)
			}
			duration := time.Since(started)
			ctx := c.Request().Context()
			args := []any{
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"route_pattern", c.Path(),
				"status", c.Response().Status,
				"duration", duration.String(),
			}
			if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
				args = append(args, "request_id", id)
			}
			if userID := UserID(c); userID != "" {
				args = append(args, "user_id", userID)
			}
			if err != nil {
				args = append(args, "error", err.Error())
			}
			if c.Response().Status >= 500 {
				logger.Error(ctx, "http request", args...)
			} else {
				logger.Info(ctx, "http request", args...)
			}
			return nil
		}
	}
}
