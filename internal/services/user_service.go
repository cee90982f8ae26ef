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
	"golang.org/x/crypto/bcrypt"
)

type UserCreateInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	FullName string      `json:"full_name"`
	Role     models.Role `json:"role"`
}

type UserUpdateInput struct {
	FullName *string      `json:"full_name"`
	Role     *models.Role `json:"role"`
	IsActive *bool        `json:"is_active"`
}

type UserService interface {
	Create(ctx context.Context, tenantID *uuid.UUID, actorID uuid.UUID, input UserCreateInput, ipAddress string) (*models.User, error)
	Get(ctx context.Context, tenantID *uuid.UUID, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, tenantID *uuid.UUID) ([]*models.User, error)
	Update(ctx context.Context, tenantID *uuid.UUID, actorID, id uuid.UUID, input UserUpdateInput, ipAddress string) (*models.User, error)
	Deactivate(ctx context.Context, tenantID *uuid.UUID, actorID, id uuid.UUID, ipAddress string) error
}

type userService struct {
	repo  repositories.UserRepository
	audit AuditService
}

func NewUserService(repo repositories.UserRepository, audit AuditService) UserService {
	return &userService{repo: repo, audit: audit}
}

func (s *userService) Create(ctx context.Context, tenantID *uuid.UUID, actorID uuid.UUID, input UserCreateInput, ipAddress string) (*models.User, error) {
	tid, err := requireTenant(tenantID)
	if err != nil {
		return nil, err
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)
	if input.Email == "" || input.Password == "" || input.FullName == "" {
		return nil, common.NewValidationError("Email, password and full_name are required")
	}
	if input.Role == "" {
		input.Role = models.RoleUser
	}
	if !input.Role.Assignable() {
		return nil, common.NewValidationError("Role must be tenant_admin or user")
	}

	exists, err := s.repo.EmailExistsInTenant(ctx, tid, input.Email)
	if err != nil {
		return nil, common.NewInternalError("Failed to check email", err)
	}
	if exists {
		return nil, common.NewConflictError("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewInternalError("Failed to hash password", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		TenantID:     &tid,
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         input.Role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, common.NewInternalError("Failed to create user", err)
	}

	s.audit.Record(ctx, &tid, &actorID, models.ActionCreateUser, "user", &user.ID, ipAddress)
	return user, nil
}

func (s *userService) Get(ctx context.Context, tenantID *uuid.UUID, id uuid.UUID) (*models.User, error) {
	if tenantID == nil {
		return nil, common.NewNotFoundError("User not found")
	}
	user, err := s.repo.GetByID(ctx, *tenantID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("User not found")
		}
		return nil, common.NewInternalError("Failed to look up user", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, tenantID *uuid.UUID) ([]*models.User, error) {
	if tenantID == nil {
		return []*models.User{}, nil
	}
	users, err := s.repo.List(ctx, *tenantID)
	if err != nil {
		return nil, common.NewInternalError("Failed to list users", err)
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

func (s *userService) Update(ctx context.Context, tenantID *uuid.UUID, actorID, id uuid.UUID, input UserUpdateInput, ipAddress string) (*models.User, error) {
	tid, err := requireTenant(tenantID)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if input.FullName != nil {
		if strings.TrimSpace(*input.FullName) == "" {
			return nil, common.NewValidationError("full_name cannot be empty")
		}
		changes["full_name"] = strings.TrimSpace(*input.FullName)
	}
	if input.Role != nil {
		if !input.Role.Assignable() {
			return nil, common.NewValidationError("Role must be tenant_admin or user")
		}
		changes["role"] = *input.Role
	}
	if input.IsActive != nil {
		changes["is_active"] = *input.IsActive
	}
	if len(changes) == 0 {
		return nil, common.NewValidationError("No fields to update")
	}

	affected, err := s.repo.Update(ctx, tid, id, changes)
	if err != nil {
		return nil, common.NewInternalError("Failed to update user", err)
	}
	if affected == 0 {
		return nil, common.NewNotFoundError("User not found")
	}

	s.audit.Record(ctx, &tid, &actorID, models.ActionUpdateUser, "user", &id, ipAddress)
	return s.Get(ctx, tenantID, id)
}

func (s *userService) Deactivate(ctx context.Context, tenantID *uuid.UUID, actorID, id uuid.UUID, ipAddress string) error {
	tid, err := requireTenant(tenantID)
	if err != nil {
		return err
	}

	affected, err := s.repo.Deactivate(ctx, tid, id)
	if err != nil {
		return common.NewInternalError("Failed to deactivate user", err)
	}
	if affected == 0 {
		return common.NewNotFoundError("User not found")
	}

	s.audit.Record(ctx, &tid, &actorID, models.ActionDeactivateUser, "user", &id, ipAddress)
	return nil
}
