package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"disaster-response/internal/infrastructure/auth"
)

type Mode string

const (
	ModeNone    Mode = "none"
	ModeAPIKey  Mode = "api_key"
	ModeCognito Mode = "cognito"
)

const (
	HeaderUserID = "X-User-ID"
	HeaderAPIKey = "X-API-Key"
)

func ParseAuthMode(raw string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(raw)))
	switch mode {
	case "", ModeNone, ModeAPIKey, ModeCognito:
		if mode == "" {
			return ModeNone, nil
		}
		return mode, nil
	default:
		return "", errors.New("invalid auth mode")
	}
}

type AuthConfig struct {
	Mode    Mode
	APIKey  string
	Cognito echo.MiddlewareFunc
}

// AuthMiddleware establishes the acting user id under auth.ContextUserID.
// In none and api_key modes the id comes from the X-User-ID header. Requests
// without credentials proceed anonymously in every mode; a wrong api key or
// bearer token is rejected.
func AuthMiddleware(cfg AuthConfig) (echo.MiddlewareFunc, error) {
	if cfg.Mode == "" {
		cfg.Mode = ModeNone
	}
	switch cfg.Mode {
	case ModeNone:
	case ModeAPIKey:
		if cfg.APIKey == "" {
			return nil, errors.New("API_KEY is required when AUTH_MODE=api_key")
		}
	case ModeCognito:
		if cfg.Cognito == nil {
			return nil, errors.New("cognito middleware is required when AUTH_MODE=cognito")
		}
	default:
		return nil, errors.New("invalid auth mode")
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch cfg.Mode {
			case ModeNone:
				setHeaderUser(c)
				return next(c)
			case ModeAPIKey:
				got := c.Request().Header.Get(HeaderAPIKey)
				if got == "" {
					return next(c)
				}
				if subtle.ConstantTimeCompare([]byte(got), []byte(cfg.APIKey)) != 1 {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid api key"})
				}
				setHeaderUser(c)
				return next(c)
			case ModeCognito:
				return cfg.Cognito(next)(c)
			default:
				return echo.NewHTTPError(http.StatusInternalServerError, "invalid auth mode")
			}
		}
	}, nil
}

func setHeaderUser(c echo.Context) {
	if id := strings.TrimSpace(c.Request().Header.Get(HeaderUserID)); id != "" {
		c.Set(auth.ContextUserID, id)
	}
}

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(c echo.Context) string {
	id, _ := c.Get(auth.ContextUserID).(string)
	return id
}
