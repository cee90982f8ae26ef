package common

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskdesk/internal/models"
)

// Context keys set by the auth middleware after token verification.
const (
	UserIDKey   = "user_id"
	TenantIDKey = "tenant_id"
	RoleKey     = "role"
)

// SetIdentity stores the verified caller identity on the echo context.
func SetIdentity(c echo.Context, userID uuid.UUID, tenantID *uuid.UUID, role models.Role) {
	c.Set(UserIDKey, userID)
	c.Set(TenantIDKey, tenantID)
	c.Set(RoleKey, role)
}

// GetUserID returns the authenticated user's id, or false if unset.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(UserIDKey).(uuid.UUID)
	return id, ok
}

// GetTenantID returns the caller's tenant id. The pointer is nil for the
// super admin; the bool reports whether the middleware ran at all.
func GetTenantID(c echo.Context) (*uuid.UUID, bool) {
	v := c.Get(TenantIDKey)
	if v == nil {
		return nil, false
	}
	id, ok := v.(*uuid.UUID)
	return id, ok
}

// GetRole returns the caller's role, or false if unset.
func GetRole(c echo.Context) (models.Role, bool) {
	role, ok := c.Get(RoleKey).(models.Role)
	return role, ok
}
