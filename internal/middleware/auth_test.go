package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskdesk/internal/common"
	"taskdesk/internal/models"
	"taskdesk/internal/services"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestServer(t *testing.T, tokens services.TokenService) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		userID, ok := common.GetUserID(c)
		if !ok {
			return echo.NewHTTPError(http.StatusInternalServerError, "identity missing")
		}
		role, _ := common.GetRole(c)
		return c.JSON(http.StatusOK, map[string]string{
			"user_id": userID.String(),
			"role":    string(role),
		})
	}, echojwt.WithConfig(JWTConfig(tokens)))
	return e
}

func TestJWTMiddlewareAttachesIdentity(t *testing.T) {
	tokens := services.NewTokenService("test-secret", time.Hour)
	e := authTestServer(t, tokens)

	userID := uuid.New()
	tenantID := uuid.New()
	token, err := tokens.Issue(userID, &tenantID, models.RoleTenantAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), userID.String())
	assert.Contains(t, rec.Body.String(), string(models.RoleTenantAdmin))
}

func TestJWTMiddlewareRejectsMissingToken(t *testing.T) {
	tokens := services.NewTokenService("test-secret", time.Hour)
	e := authTestServer(t, tokens)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareRejectsForgedToken(t *testing.T) {
	tokens := services.NewTokenService("test-secret", time.Hour)
	forger := services.NewTokenService("other-secret", time.Hour)
	e := authTestServer(t, tokens)

	token, err := forger.Issue(uuid.New(), nil, models.RoleSuperAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareRejectsExpiredToken(t *testing.T) {
	issuer := services.NewTokenService("test-secret", -time.Minute)
	tokens := services.NewTokenService("test-secret", time.Hour)
	e := authTestServer(t, tokens)

	token, err := issuer.Issue(uuid.New(), nil, models.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
