package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskdesk/internal/common"
	"taskdesk/internal/models"
	"taskdesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TaskCreateInput struct {
	ProjectID   uuid.UUID  `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

type TaskUpdateInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

type TaskService interface {
	Create(ctx context.Context, tenantID *uuid.UUID, creatorID uuid.UUID, input TaskCreateInput, ipAddress string) (*models.Task, error)
	Get(ctx context.Context, tenantID *uuid.UUID, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, tenantID *uuid.UUID, projectID *uuid.UUID) ([]*models.Task, error)
	Update(ctx context.Context, tenantID *uuid.UUID, actorID, id uuid.UUID, input TaskUpdateInput, ipAddress string) (*models.Task, error)
	Delete(ctx context.Context, tenantID *uuid.UUID, actorID, id uuid.UUID, ipAddress string) error
}

type taskService struct {
	repo        repositories.TaskRepository
	projectRepo repositories.ProjectRepository
	audit       AuditService
}

func NewTaskService(repo repositories.TaskRepository, projectRepo repositories.ProjectRepository, audit AuditService) TaskService {
	return &taskService{repo: repo, projectRepo: projectRepo, audit: audit}
}

func (s *taskService) Create(ctx context.Context, tenantID *uuid.UUID, creatorID uuid.UUID, input TaskCreateInput, ipAddress string) (*models.Task, error) {
	tid, err := requireTenant(tenantID)
	if err != nil {
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, common.NewValidationError("Title is required")
	}
	if input.ProjectID == uuid.Nil {
		return nil, common.NewValidationError("project_id is required")
	}
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !models.ValidTaskStatus(input.Status) {
		return nil, common.NewValidationError("Invalid task status")
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !models.ValidTaskPriority(input.Priority) {
		return nil, common.NewValidationError("Invalid task priority")
	}

	// The project must belong to the caller's tenant. A foreign project id
	// reads as absent, same as the repository scoping.
	if _, err := s.projectRepo.GetByID(ctx, tid, input.ProjectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("Project not found")
		}
		return nil, common.NewInternalError("Failed to look up project", err)
	}

	task := &models.Task{
		ID:          uuid.New(),
		TenantID:    tid,
		ProjectID:   input.ProjectID,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		AssignedTo:  input.AssignedTo,
		DueDate:     input.DueDate,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, common.NewInternalError("Failed to create task", err)
	}

	s.audit.Record(ctx, &tid, &creatorID, models.ActionCreateTask, "task", &task.ID, ipAddress)
	return task, nil
}

func (s *taskService) Get(ctx context.Context, tenantID *uuid.UUID, id uuid.UUID) (*models.Task, error) {
	if tenantID == nil {
		return nil, common.NewNotFoundError("Task not found")
	}
	task, err := s.repo.GetByID(ctx, *tenantID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("Task not found")
		}
		return nil, common.NewInternalError("Failed to look up task", err)
	}
	return task, nil
}

func (s *taskService) List(ctx context.Context, tenantID *uuid.UUID, projectID *uuid.UUID) ([]*models.Task, error) {
	if tenantID == nil {
		return []*models.Task{}, nil
	}
	tasks, err := s.repo.List(ctx, *tenantID, projectID)
	if err != nil {
		return nil, common.NewInternalError("Failed to list tasks", err)
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	return tasks, nil
}

func (s *taskService) Update(ctx context.Context, tenantID *uuid.UUID, actorID, id uuid.UUID, input TaskUpdateInput, ipAddress string) (*models.Task, error) {
	tid, err := requireTenant(tenantID)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, common.NewValidationError("Title cannot be empty")
		}
		changes["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		changes["description"] = *input.Description
	}
	if input.Status != nil {
		if !models.ValidTaskStatus(*input.Status) {
			return nil, common.NewValidationError("Invalid task status")
		}
		changes["status"] = *input.Status
	}
	if input.Priority != nil {
		if !models.ValidTaskPriority(*input.Priority) {
			return nil, common.NewValidationError("Invalid task priority")
		}
		changes["priority"] = *input.Priority
	}
	if input.AssignedTo != nil {
		changes["assigned_to"] = *input.AssignedTo
	}
	if input.DueDate != nil {
		changes["due_date"] = *input.DueDate
	}
	if len(changes) == 0 {
		return nil, common.NewValidationError("No fields to update")
	}

	affected, err := s.repo.Update(ctx, tid, id, changes)
	if err != nil {
		return nil, common.NewInternalError("Failed to update task", err)
	}
	if affected == 0 {
		return nil, common.NewNotFoundError("Task not found")
	}

	s.audit.Record(ctx, &tid, &actorID, models.ActionUpdateTask, "task", &id, ipAddress)
	return s.Get(ctx, tenantID, id)
}

func (s *taskService) Delete(ctx context.Context, tenantID *uuid.UUID, actorID, id uuid.UUID, ipAddress string) error {
	tid, err := requireTenant(tenantID)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, tid, id)
	if err != nil {
		return common.NewInternalError("Failed to delete task", err)
	}
	if affected == 0 {
		return common.NewNotFoundError("Task not found")
	}

	s.audit.Record(ctx, &tid, &actorID, models.ActionDeleteTask, "task", &id, ipAddress)
	return nil
}
