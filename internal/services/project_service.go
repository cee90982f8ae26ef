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

type ProjectCreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type ProjectUpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type ProjectService interface {
	Create(ctx context.Context, tenantID *uuid.UUID, creatorID uuid.UUID, input ProjectCreateInput, ipAddress string) (*models.Project, error)
	Get(ctx context.Context, tenantID *uuid.UUID, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context, tenantID *uuid.UUID) ([]*models.Project, error)
	Update(ctx context.Context, tenantID *uuid.UUID, actorID, id uuid.UUID, input ProjectUpdateInput, ipAddress string) (*models.Project, error)
	Delete(ctx context.Context, tenantID *uuid.UUID, actorID, id uuid.UUID, ipAddress string) error
}

type projectService struct {
	repo  repositories.ProjectRepository
	audit AuditService
}

func NewProjectService(repo repositories.ProjectRepository, audit AuditService) ProjectService {
	return &projectService{repo: repo, audit: audit}
}

func (s *projectService) Create(ctx context.Context, tenantID *uuid.UUID, creatorID uuid.UUID, input ProjectCreateInput, ipAddress string) (*models.Project, error) {
	tid, err := requireTenant(tenantID)
	if err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, common.NewValidationError("Name is required")
	}
	if input.Status == "" {
		input.Status = models.ProjectStatusActive
	}
	if !models.ValidProjectStatus(input.Status) {
		return nil, common.NewValidationError("Invalid project status")
	}

	project := &models.Project{
		ID:          uuid.New(),
		TenantID:    tid,
		Name:        input.Name,
		Description: input.Description,
		Status:      input.Status,
		CreatedBy:   creatorID,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, common.NewInternalError("Failed to create project", err)
	}

	s.audit.Record(ctx, &tid, &creatorID, models.ActionCreateProject, "project", &project.ID, ipAddress)
	return project, nil
}

func (s *projectService) Get(ctx context.Context, tenantID *uuid.UUID, id uuid.UUID) (*models.Project, error) {
	if tenantID == nil {
		return nil, common.NewNotFoundError("Project not found")
	}
	project, err := s.repo.GetByID(ctx, *tenantID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("Project not found")
		}
		return nil, common.NewInternalError("Failed to look up project", err)
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context, tenantID *uuid.UUID) ([]*models.Project, error) {
	if tenantID == nil {
		return []*models.Project{}, nil
	}
	projects, err := s.repo.List(ctx, *tenantID)
	if err != nil {
		return nil, common.NewInternalError("Failed to list projects", err)
	}
	if projects == nil {
		projects = []*models.Project{}
	}
	return projects, nil
}

func (s *projectService) Update(ctx context.Context, tenantID *uuid.UUID, actorID, id uuid.UUID, input ProjectUpdateInput, ipAddress string) (*models.Project, error) {
	tid, err := requireTenant(tenantID)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, common.NewValidationError("Name cannot be empty")
		}
		changes["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		changes["description"] = *input.Description
	}
	if input.Status != nil {
		if !models.ValidProjectStatus(*input.Status) {
			return nil, common.NewValidationError("Invalid project status")
		}
		changes["status"] = *input.Status
	}
	if len(changes) == 0 {
		return nil, common.NewValidationError("No fields to update")
	}

	affected, err := s.repo.Update(ctx, tid, id, changes)
	if err != nil {
		return nil, common.NewInternalError("Failed to update project", err)
	}
	if affected == 0 {
		return nil, common.NewNotFoundError("Project not found")
	}

	s.audit.Record(ctx, &tid, &actorID, models.ActionUpdateProject, "project", &id, ipAddress)
	return s.Get(ctx, tenantID, id)
}

// Delete removes the project row. Tasks under it go with it via the foreign
// key cascade.
func (s *projectService) Delete(ctx context.Context, tenantID *uuid.UUID, actorID, id uuid.UUID, ipAddress string) error {
	tid, err := requireTenant(tenantID)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, tid, id)
	if err != nil {
		return common.NewInternalError("Failed to delete project", err)
	}
	if affected == 0 {
		return common.NewNotFoundError("Project not found")
	}

	s.audit.Record(ctx, &tid, &actorID, models.ActionDeleteProject, "project", &id, ipAddress)
	return nil
}
