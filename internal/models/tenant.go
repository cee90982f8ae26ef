package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant status values
const (
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"
	TenantStatusTrial     = "trial"
)

// Subscription plans
const (
	PlanFree       = "free"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// Defaults applied to tenants created through registration
const (
	DefaultMaxUsers    = 5
	DefaultMaxProjects = 3
)

type Tenant struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Subdomain        string    `json:"subdomain" db:"subdomain"`
	Status           string    `json:"status" db:"status"`
	SubscriptionPlan string    `json:"subscription_plan" db:"subscription_plan"`
	MaxUsers         int       `json:"max_users" db:"max_users"`
	MaxProjects      int       `json:"max_projects" db:"max_projects"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// ValidTenantStatus reports whether status is one of the allowed values.
func ValidTenantStatus(status string) bool {
	switch status {
	case TenantStatusActive, TenantStatusSuspended, TenantStatusTrial:
		return true
	}
	return false
}

// ValidSubscriptionPlan reports whether plan is one of the allowed values.
func ValidSubscriptionPlan(plan string) bool {
	switch plan {
	case PlanFree, PlanPro, PlanEnterprise:
		return true
	}
	return false
}
