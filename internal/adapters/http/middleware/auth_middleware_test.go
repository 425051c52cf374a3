package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAuth(t *testing.T, mw echo.MiddlewareFunc, headers map[string]string) (*httptest.ResponseRecorder, string, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var userID string
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		userID = UserID(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, userID, called
}

func TestAuthMiddleware_None(t *testing.T) {
	mw, err := AuthMiddleware(AuthConfig{Mode: ModeNone})
	require.NoError(t, err)

	_, userID, called := runAuth(t, mw, map[string]string{HeaderUserID: " u-1 "})
	assert.True(t, called)
	assert.Equal(t, "u-1", userID)

	_, userID, called = runAuth(t, mw, nil)
	assert.True(t, called)
	assert.Empty(t, userID)
}

func TestAuthMiddleware_APIKey(t *testing.T) {
	mw, err := AuthMiddleware(AuthConfig{Mode: ModeAPIKey, APIKey: "secret"})
	require.NoError(t, err)

	_, userID, called := runAuth(t, mw, map[string]string{HeaderAPIKey: "secret", HeaderUserID: "u-2"})
	assert.True(t, called)
	assert.Equal(t, "u-2", userID)

	rec, _, called := runAuth(t, mw, map[string]string{HeaderAPIKey: "wrong", HeaderUserID: "u-2"})
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_APIKeyMissingIsAnonymous(t *testing.T) {
	mw, err := AuthMiddleware(AuthConfig{Mode: ModeAPIKey, APIKey: "secret"})
	require.NoError(t, err)

	// without a key the user header is not trusted
	rec, userID, called := runAuth(t, mw, map[string]string{HeaderUserID: "u-2"})
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, userID)
}

func TestAuthMiddleware_APIKeyRequiresKey(t *testing.T) {
	mw, err := AuthMiddleware(AuthConfig{Mode: ModeAPIKey})
	assert.Nil(t, mw)
	assert.Error(t, err)
}

func TestAuthMiddleware_Cognito(t *testing.T) {
	cognitoCalled := false
	mockCognito := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cognitoCalled = true
			c.Set("user_id", "sub-1")
			return next(c)
		}
	}

	mw, err := AuthMiddleware(AuthConfig{Mode: ModeCognito, Cognito: mockCognito})
	require.NoError(t, err)

	_, userID, _ := runAuth(t, mw, map[string]string{HeaderUserID: "spoofed"})
	assert.True(t, cognitoCalled)
	assert.Equal(t, "sub-1", userID)
}

func TestAuthMiddleware_CognitoRequiresMiddleware(t *testing.T) {
	mw, err := AuthMiddleware(AuthConfig{Mode: ModeCognito})
	assert.Nil(t, mw)
	assert.Error(t, err)
}

func TestAuthMiddleware_Invalid(t *testing.T) {
	mw, err := AuthMiddleware(AuthConfig{Mode: "invalid"})
	assert.Nil(t, mw)
	assert.Error(t, err)
}

func TestParseAuthMode(t *testing.T) {
	mode, err := ParseAuthMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeNone, mode)

	mode, err = ParseAuthMode(" Cognito ")
	require.NoError(t, err)
	assert.Equal(t, ModeCognito, mode)

	_, err = ParseAuthMode("basic")
	assert.Error(t, err)
}
