package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of user roles. Stored as text in the database.
type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleTenantAdmin Role = "tenant_admin"
	RoleUser        Role = "user"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleTenantAdmin, RoleUser:
		return true
	}
	return false
}

// Assignable reports whether r may be granted through the user API.
// super_admin is seeded once and never assignable.
func (r Role) Assignable() bool {
	return r == RoleTenantAdmin || r == RoleUser
}

type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	TenantID     *uuid.UUID `json:"tenant_id" db:"tenant_id"` // nil only for the super admin
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never serialize in JSON
	FullName     string     `json:"full_name" db:"full_name"`
	Role         Role       `json:"role" db:"role"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
