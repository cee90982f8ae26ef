package services

import (
	"context"
	"net/http"
	"testing"

	"taskdesk/internal/common"
	"taskdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TenantServiceTestSuite struct {
	suite.Suite
	repo    *MockTenantRepository
	audit   *captureAudit
	service TenantService
}

func (s *TenantServiceTestSuite) SetupTest() {
	s.repo = new(MockTenantRepository)
	s.audit = &captureAudit{}
	s.service = NewTenantService(s.repo, s.audit)
}

func (s *TenantServiceTestSuite) TearDownTest() {
	s.repo.AssertExpectations(s.T())
}

func (s *TenantServiceTestSuite) appStatus(err error) int {
	var appErr *common.AppError
	s.Require().ErrorAs(err, &appErr)
	return appErr.Status
}

func (s *TenantServiceTestSuite) TestCreateDefaults() {
	s.repo.On("SubdomainExists", mock.Anything, "acme").Return(false, nil)
	s.repo.On("Create", mock.Anything, mock.MatchedBy(func(t *models.Tenant) bool {
		return t.Status == models.TenantStatusTrial && t.SubscriptionPlan == models.PlanFree &&
			t.MaxUsers == models.DefaultMaxUsers && t.MaxProjects == models.DefaultMaxProjects
	})).Return(nil)

	tenant, err := s.service.Create(context.Background(), "Acme Corp", "ACME")
	s.Require().NoError(err)
	s.Equal("acme", tenant.Subdomain)
}

func (s *TenantServiceTestSuite) TestCreateSubdomainTaken() {
	s.repo.On("SubdomainExists", mock.Anything, "acme").Return(true, nil)

	_, err := s.service.Create(context.Background(), "Acme Corp", "acme")
	s.Equal(http.StatusBadRequest, s.appStatus(err))
}

func (s *TenantServiceTestSuite) TestGetNotFound() {
	id := uuid.New()
	s.repo.On("GetByID", mock.Anything, id).Return(nil, pgx.ErrNoRows)

	_, err := s.service.Get(context.Background(), id)
	s.Equal(http.StatusNotFound, s.appStatus(err))
}

func (s *TenantServiceTestSuite) TestUpdateEmptyChangeSet() {
	_, err := s.service.Update(context.Background(), uuid.New(), uuid.New(), TenantUpdateInput{}, "")
	s.Equal(http.StatusBadRequest, s.appStatus(err))
}

func (s *TenantServiceTestSuite) TestUpdateInvalidStatus() {
	status := "deleted"
	_, err := s.service.Update(context.Background(), uuid.New(), uuid.New(), TenantUpdateInput{Status: &status}, "")
	s.Equal(http.StatusBadRequest, s.appStatus(err))
}

func (s *TenantServiceTestSuite) TestUpdateNotFound() {
	id := uuid.New()
	name := "New Name"
	s.repo.On("Update", mock.Anything, id, map[string]any{"name": "New Name"}).Return(int64(0), nil)

	_, err := s.service.Update(context.Background(), id, uuid.New(), TenantUpdateInput{Name: &name}, "")
	s.Equal(http.StatusNotFound, s.appStatus(err))
	s.Empty(s.audit.entries)
}

func (s *TenantServiceTestSuite) TestUpdateAudits() {
	id := uuid.New()
	actorID := uuid.New()
	plan := models.PlanPro
	s.repo.On("Update", mock.Anything, id, map[string]any{"subscription_plan": plan}).Return(int64(1), nil)
	s.repo.On("GetByID", mock.Anything, id).Return(&models.Tenant{ID: id, SubscriptionPlan: plan}, nil)

	tenant, err := s.service.Update(context.Background(), id, actorID, TenantUpdateInput{SubscriptionPlan: &plan}, "")
	s.Require().NoError(err)
	s.Equal(plan, tenant.SubscriptionPlan)

	s.Require().Len(s.audit.entries, 1)
	s.Equal(models.ActionUpdateTenant, s.audit.entries[0].Action)
}

func TestTenantServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TenantServiceTestSuite))
}
