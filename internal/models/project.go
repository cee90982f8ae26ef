package models

import (
	"time"

	"github.com/google/uuid"
)

// Project status values
const (
	ProjectStatusActive    = "active"
	ProjectStatusArchived  = "archived"
	ProjectStatusCompleted = "completed"
)

type Project struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TenantID    uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Status      string    `json:"status" db:"status"`
	CreatedBy   uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ValidProjectStatus reports whether status is one of the allowed values.
func ValidProjectStatus(status string) bool {
	switch status {
	case ProjectStatusActive, ProjectStatusArchived, ProjectStatusCompleted:
		return true
	}
	return false
}
