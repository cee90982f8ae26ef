package services

import (
	"context"
	"errors"
	"strings"

	"taskdesk/internal/common"
	"taskdesk/internal/models"
	"taskdesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// requireTenant rejects callers without a tenant. The super admin has none
// and cannot perform tenant-scoped mutations.
func requireTenant(tenantID *uuid.UUID) (uuid.UUID, error) {
	if tenantID == nil {
		return uuid.Nil, common.NewValidationError("Tenant context required")
	}
	return *tenantID, nil
}

type TenantUpdateInput struct {
	Name             *string `json:"name"`
	Status           *string `json:"status"`
	SubscriptionPlan *string `json:"subscription_plan"`
	MaxUsers         *int    `json:"max_users"`
	MaxProjects      *int    `json:"max_projects"`
}

type TenantService interface {
	Create(ctx context.Context, name, subdomain string) (*models.Tenant, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	List(ctx context.Context, limit, offset int) ([]*models.Tenant, error)
	Update(ctx context.Context, id, actorID uuid.UUID, input TenantUpdateInput, ipAddress string) (*models.Tenant, error)
}

type tenantService struct {
	repo  repositories.TenantRepository
	audit AuditService
}

func NewTenantService(repo repositories.TenantRepository, audit AuditService) TenantService {
	return &tenantService{repo: repo, audit: audit}
}

func (s *tenantService) Create(ctx context.Context, name, subdomain string) (*models.Tenant, error) {
	name = strings.TrimSpace(name)
	subdomain = strings.ToLower(strings.TrimSpace(subdomain))
	if name == "" || subdomain == "" {
		return nil, common.NewValidationError("Name and subdomain are required")
	}

	taken, err := s.repo.SubdomainExists(ctx, subdomain)
	if err != nil {
		return nil, common.NewInternalError("Failed to check subdomain", err)
	}
	if taken {
		return nil, common.NewConflictError("Subdomain already taken")
	}

	tenant := &models.Tenant{
		ID:               uuid.New(),
		Name:             name,
		Subdomain:        subdomain,
		Status:           models.TenantStatusTrial,
		SubscriptionPlan: models.PlanFree,
		MaxUsers:         models.DefaultMaxUsers,
		MaxProjects:      models.DefaultMaxProjects,
	}
	if err := s.repo.Create(ctx, tenant); err != nil {
		return nil, common.NewInternalError("Failed to create tenant", err)
	}
	return tenant, nil
}

func (s *tenantService) Get(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	tenant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("Tenant not found")
		}
		return nil, common.NewInternalError("Failed to look up tenant", err)
	}
	return tenant, nil
}

func (s *tenantService) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	tenants, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, common.NewInternalError("Failed to list tenants", err)
	}
	return tenants, nil
}

func (s *tenantService) Update(ctx context.Context, id, actorID uuid.UUID, input TenantUpdateInput, ipAddress string) (*models.Tenant, error) {
	changes := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, common.NewValidationError("Name cannot be empty")
		}
		changes["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Status != nil {
		if !models.ValidTenantStatus(*input.Status) {
			return nil, common.NewValidationError("Invalid tenant status")
		}
		changes["status"] = *input.Status
	}
	if input.SubscriptionPlan != nil {
		if !models.ValidSubscriptionPlan(*input.SubscriptionPlan) {
			return nil, common.NewValidationError("Invalid subscription plan")
		}
		changes["subscription_plan"] = *input.SubscriptionPlan
	}
	if input.MaxUsers != nil {
		if *input.MaxUsers < 1 {
			return nil, common.NewValidationError("max_users must be positive")
		}
		changes["max_users"] = *input.MaxUsers
	}
	if input.MaxProjects != nil {
		if *input.MaxProjects < 1 {
			return nil, common.NewValidationError("max_projects must be positive")
		}
		changes["max_projects"] = *input.MaxProjects
	}
	if len(changes) == 0 {
		return nil, common.NewValidationError("No fields to update")
	}

	affected, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, common.NewInternalError("Failed to update tenant", err)
	}
	if affected == 0 {
		return nil, common.NewNotFoundError("Tenant not found")
	}

	s.audit.Record(ctx, &id, &actorID, models.ActionUpdateTenant, "tenant", &id, ipAddress)
	return s.Get(ctx, id)
}
