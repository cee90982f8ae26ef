package services

import (
	"context"

	"taskdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) CreateTx(ctx context.Context, tx pgx.Tx, tenant *models.Tenant) error {
	args := m.Called(ctx, tx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	args := m.Called(ctx, subdomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) SubdomainExists(ctx context.Context, subdomain string) (bool, error) {
	args := m.Called(ctx, subdomain)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenantRepository) Update(ctx context.Context, id uuid.UUID, changes map[string]any) (int64, error) {
	args := m.Called(ctx, id, changes)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTenantRepository) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) CreateTx(ctx context.Context, tx pgx.Tx, user *models.User) error {
	args := m.Called(ctx, tx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDGlobal(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) EmailExistsInTenant(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, tenantID, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*models.User, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, tenantID, id uuid.UUID, changes map[string]any) (int64, error) {
	args := m.Called(ctx, tenantID, id, changes)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *models.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Project, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Project), args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, tenantID, id uuid.UUID, changes map[string]any) (int64, error) {
	args := m.Called(ctx, tenantID, id, changes)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *models.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context, tenantID uuid.UUID, projectID *uuid.UUID) ([]*models.Task, error) {
	args := m.Called(ctx, tenantID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, tenantID, id uuid.UUID, changes map[string]any) (int64, error) {
	args := m.Called(ctx, tenantID, id, changes)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockAuditLogsRepository struct {
	mock.Mock
}

func (m *MockAuditLogsRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditLogsRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

// recordedAudit captures Record calls so tests can assert on the trail
// without a database.
type recordedAudit struct {
	Action     string
	EntityType string
	TenantID   *uuid.UUID
	UserID     *uuid.UUID
	EntityID   *uuid.UUID
}

type captureAudit struct {
	entries []recordedAudit
}

func (a *captureAudit) Record(ctx context.Context, tenantID, userID *uuid.UUID, action, entityType string, entityID *uuid.UUID, ipAddress string) {
	a.entries = append(a.entries, recordedAudit{
		Action:     action,
		EntityType: entityType,
		TenantID:   tenantID,
		UserID:     userID,
		EntityID:   entityID,
	})
}

func (a *captureAudit) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	return nil, nil
}
