package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"taskdesk/internal/common"
	"taskdesk/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireRoles allows the request through only when the caller's role is in
// the given allow-list.
func RequireRoles(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := common.GetRole(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}

// TenantGuard rejects requests that name a tenant other than the caller's.
// The tenant id may appear in one of the listed path params, in the
// tenant_id query param, or in a tenant_id JSON body field. super_admin is
// exempt. Repositories filter by tenant_id regardless; this check exists so
// cross-tenant attempts fail loudly with a 403 instead of a quiet 404.
func TenantGuard(tenantParams ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := common.GetRole(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			if role == models.RoleSuperAdmin {
				return next(c)
			}

			tenantID, ok := common.GetTenantID(c)
			if !ok || tenantID == nil {
				return echo.NewHTTPError(http.StatusForbidden, "Tenant context required")
			}
			want := tenantID.String()

			for _, param := range tenantParams {
				if v := c.Param(param); v != "" && v != want {
					return echo.NewHTTPError(http.StatusForbidden, "Cross-tenant access denied")
				}
			}
			if v := c.QueryParam("tenant_id"); v != "" && v != want {
				return echo.NewHTTPError(http.StatusForbidden, "Cross-tenant access denied")
			}

			bodyTenant, err := peekBodyTenantID(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
			}
			if bodyTenant != "" && bodyTenant != want {
				return echo.NewHTTPError(http.StatusForbidden, "Cross-tenant access denied")
			}

			return next(c)
		}
	}
}

// peekBodyTenantID reads a tenant_id field out of a JSON body, then restores
// the body so the handler can still bind it. Non-JSON bodies are ignored.
func peekBodyTenantID(c echo.Context) (string, error) {
	req := c.Request()
	if req.Body == nil || req.ContentLength == 0 {
		return "", nil
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return "", err
	}
	req.Body = io.NopCloser(bytes.NewReader(body))

	var probe struct {
		TenantID string `json:"tenant_id"`
	}
	// A body that is not JSON is the handler's problem, not the guard's.
	if err := json.Unmarshal(body, &probe); err != nil {
		return "", nil
	}
	return probe.TenantID, nil
}
