package middleware

import (
	"time"

	"github.com/go-chi/httprate"
	"github.com/labstack/echo/v4"
)

// RateLimit limits each client IP to perMinute requests per sliding minute.
func RateLimit(perMinute int) echo.MiddlewareFunc {
	return echo.WrapMiddleware(httprate.LimitByIP(perMinute, time.Minute))
}
