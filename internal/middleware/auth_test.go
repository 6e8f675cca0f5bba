package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workspace-service/internal/authz"
	"workspace-service/internal/middleware"
	"workspace-service/pkg/jwtutil"
)

func newAuthTestServer(t *testing.T) (*echo.Echo, *jwtutil.JWTUtil) {
	t.Helper()
	util := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "middleware-test-key", ExpirationHours: 1})

	e := echo.New()
	api := e.Group("/api", middleware.JWTAuthMiddleware(util))
	api.GET("/whoami", func(c echo.Context) error {
		p, ok := middleware.PrincipalFrom(c)
		require.True(t, ok)
		return c.JSON(http.StatusOK, echo.Map{"user_id": p.UserID, "role": string(p.Role)})
	})
	return e, util
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	e, util := newAuthTestServer(t)

	tenantID := "tenant-1"
	token, err := util.GenerateToken("user-1", "member@acme.test", &tenantID, string(authz.RoleUser))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user-1")
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	e, _ := newAuthTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddleware_MalformedHeader(t *testing.T) {
	e, util := newAuthTestServer(t)

	token, err := util.GenerateToken("user-1", "member@acme.test", nil, string(authz.RoleSuperAdmin))
	require.NoError(t, err)

	for _, header := range []string{"Basic xyz", token, "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestJWTAuthMiddleware_WrongKey(t *testing.T) {
	e, _ := newAuthTestServer(t)

	forged := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "some-other-key", ExpirationHours: 1})
	token, err := forged.GenerateToken("user-1", "member@acme.test", nil, string(authz.RoleUser))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddleware_UnknownRole(t *testing.T) {
	e, util := newAuthTestServer(t)

	token, err := util.GenerateToken("user-1", "member@acme.test", nil, "owner")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
