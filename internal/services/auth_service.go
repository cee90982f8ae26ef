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

type RegisterInput struct {
	TenantName string
	Subdomain  string
	Email      string
	Password   string
	FullName   string
	IPAddress  string
}

type RegisterResult struct {
	Token  string
	Tenant *models.Tenant
	User   *models.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	Login(ctx context.Context, email, password, ipAddress string) (string, *models.User, error)
	Me(ctx context.Context, userID uuid.UUID) (*models.User, error)
	Logout(ctx context.Context, userID uuid.UUID, tenantID *uuid.UUID, ipAddress string)
}

type authService struct {
	db         repositories.DB
	tenantRepo repositories.TenantRepository
	userRepo   repositories.UserRepository
	tokens     TokenService
	audit      AuditService
}

func NewAuthService(db repositories.DB, tenantRepo repositories.TenantRepository, userRepo repositories.UserRepository, tokens TokenService, audit AuditService) AuthService {
	return &authService{
		db:         db,
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		tokens:     tokens,
		audit:      audit,
	}
}

// Register creates a tenant and its admin user in one transaction. Either
// both rows exist afterwards or neither does.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	input.TenantName = strings.TrimSpace(input.TenantName)
	input.Subdomain = strings.ToLower(strings.TrimSpace(input.Subdomain))
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)

	if input.TenantName == "" || input.Subdomain == "" || input.Email == "" || input.Password == "" || input.FullName == "" {
		return nil, common.NewValidationError("All fields are required")
	}

	taken, err := s.tenantRepo.SubdomainExists(ctx, input.Subdomain)
	if err != nil {
		return nil, common.NewInternalError("Failed to check subdomain", err)
	}
	if taken {
		return nil, common.NewConflictError("Subdomain already taken")
	}

	exists, err := s.userRepo.EmailExists(ctx, input.Email)
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

	tenant := &models.Tenant{
		ID:               uuid.New(),
		Name:             input.TenantName,
		Subdomain:        input.Subdomain,
		Status:           models.TenantStatusTrial,
		SubscriptionPlan: models.PlanFree,
		MaxUsers:         models.DefaultMaxUsers,
		MaxProjects:      models.DefaultMaxProjects,
	}
	user := &models.User{
		ID:           uuid.New(),
		TenantID:     &tenant.ID,
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         models.RoleTenantAdmin,
		IsActive:     true,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, common.NewInternalError("Failed to start transaction", err)
	}
	defer tx.Rollback(ctx)

	if err := s.tenantRepo.CreateTx(ctx, tx, tenant); err != nil {
		return nil, common.NewInternalError("Failed to create tenant", err)
	}
	if err := s.userRepo.CreateTx(ctx, tx, user); err != nil {
		return nil, common.NewInternalError("Failed to create user", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, common.NewInternalError("Failed to commit registration", err)
	}

	s.audit.Record(ctx, &tenant.ID, &user.ID, models.ActionRegisterTenant, "tenant", &tenant.ID, input.IPAddress)

	token, err := s.tokens.Issue(user.ID, user.TenantID, user.Role)
	if err != nil {
		return nil, common.NewInternalError("Failed to issue token", err)
	}

	return &RegisterResult{Token: token, Tenant: tenant, User: user}, nil
}

// Login deliberately reports unknown email, deactivated account, and wrong
// password with the same message so callers cannot probe which emails exist.
func (s *authService) Login(ctx context.Context, email, password, ipAddress string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, common.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, common.NewAuthError("Invalid credentials")
		}
		return "", nil, common.NewInternalError("Failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, common.NewAuthError("Invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID, user.TenantID, user.Role)
	if err != nil {
		return "", nil, common.NewInternalError("Failed to issue token", err)
	}

	if user.TenantID != nil {
		s.audit.Record(ctx, user.TenantID, &user.ID, models.ActionLogin, "user", &user.ID, ipAddress)
	}
	return token, user, nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByIDGlobal(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("User not found")
		}
		return nil, common.NewInternalError("Failed to look up user", err)
	}
	return user, nil
}

// Logout only records the event. Tokens are not invalidated server-side;
// the client discards its copy.
func (s *authService) Logout(ctx context.Context, userID uuid.UUID, tenantID *uuid.UUID, ipAddress string) {
	if tenantID != nil {
		s.audit.Record(ctx, tenantID, &userID, models.ActionLogout, "user", &userID, ipAddress)
	}
}
