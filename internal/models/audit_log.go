package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit action tags. One per mutating operation, stable across releases.
const (
	ActionRegisterTenant = "REGISTER_TENANT"
	ActionLogin          = "LOGIN"
	ActionLogout         = "LOGOUT"
	ActionUpdateTenant   = "UPDATE_TENANT"
	ActionCreateUser     = "CREATE_USER"
	ActionUpdateUser     = "UPDATE_USER"
	ActionDeactivateUser = "DEACTIVATE_USER"
	ActionCreateProject  = "CREATE_PROJECT"
	ActionUpdateProject  = "UPDATE_PROJECT"
	ActionDeleteProject  = "DELETE_PROJECT"
	ActionCreateTask     = "CREATE_TASK"
	ActionUpdateTask     = "UPDATE_TASK"
	ActionDeleteTask     = "DELETE_TASK"
)

// AuditLog rows are append-only. There is no update or delete path.
type AuditLog struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	TenantID   *uuid.UUID `json:"tenant_id" db:"tenant_id"`
	UserID     *uuid.UUID `json:"user_id" db:"user_id"`
	Action     string     `json:"action" db:"action"`
	EntityType string     `json:"entity_type" db:"entity_type"`
	EntityID   *uuid.UUID `json:"entity_id" db:"entity_id"`
	IPAddress  string     `json:"ip_address" db:"ip_address"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
