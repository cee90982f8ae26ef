package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"taskdesk/internal/common"
	"taskdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db         pgxmock.PgxPoolIface
	tenantRepo *MockTenantRepository
	userRepo   *MockUserRepository
	audit      *captureAudit
	service    AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	db, err := pgxmock.NewPool()
	s.Require().NoError(err)

	s.db = db
	s.tenantRepo = new(MockTenantRepository)
	s.userRepo = new(MockUserRepository)
	s.audit = &captureAudit{}
	s.service = NewAuthService(db, s.tenantRepo, s.userRepo, NewTokenService("test-secret", time.Hour), s.audit)
}

func (s *AuthServiceTestSuite) TearDownTest() {
	s.tenantRepo.AssertExpectations(s.T())
	s.userRepo.AssertExpectations(s.T())
	s.db.Close()
}

func (s *AuthServiceTestSuite) appStatus(err error) int {
	var appErr *common.AppError
	s.Require().ErrorAs(err, &appErr)
	return appErr.Status
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		TenantName: "Acme Corp",
		Subdomain:  "acme",
		Email:      "admin@acme.test",
		Password:   "hunter22",
		FullName:   "Ada Admin",
	}
}

func (s *AuthServiceTestSuite) TestRegisterSuccess() {
	s.tenantRepo.On("SubdomainExists", mock.Anything, "acme").Return(false, nil)
	s.userRepo.On("EmailExists", mock.Anything, "admin@acme.test").Return(false, nil)
	s.tenantRepo.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.userRepo.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.db.ExpectBegin()
	s.db.ExpectCommit()

	result, err := s.service.Register(context.Background(), validRegisterInput())
	s.Require().NoError(err)

	s.NotEmpty(result.Token)
	s.Equal("acme", result.Tenant.Subdomain)
	s.Equal(models.TenantStatusTrial, result.Tenant.Status)
	s.Equal(models.PlanFree, result.Tenant.SubscriptionPlan)
	s.Equal(models.DefaultMaxUsers, result.Tenant.MaxUsers)
	s.Equal(models.RoleTenantAdmin, result.User.Role)
	s.Require().NotNil(result.User.TenantID)
	s.Equal(result.Tenant.ID, *result.User.TenantID)

	s.Require().Len(s.audit.entries, 1)
	s.Equal(models.ActionRegisterTenant, s.audit.entries[0].Action)
	s.NoError(s.db.ExpectationsWereMet())
}

func (s *AuthServiceTestSuite) TestRegisterNormalizesCase() {
	s.tenantRepo.On("SubdomainExists", mock.Anything, "acme").Return(false, nil)
	s.userRepo.On("EmailExists", mock.Anything, "admin@acme.test").Return(false, nil)
	s.tenantRepo.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.userRepo.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.db.ExpectBegin()
	s.db.ExpectCommit()

	input := validRegisterInput()
	input.Subdomain = "  ACME "
	input.Email = "Admin@Acme.Test"

	result, err := s.service.Register(context.Background(), input)
	s.Require().NoError(err)
	s.Equal("acme", result.Tenant.Subdomain)
	s.Equal("admin@acme.test", result.User.Email)
}

func (s *AuthServiceTestSuite) TestRegisterMissingFields() {
	input := validRegisterInput()
	input.Password = ""

	_, err := s.service.Register(context.Background(), input)
	s.Equal(http.StatusBadRequest, s.appStatus(err))
}

func (s *AuthServiceTestSuite) TestRegisterSubdomainTaken() {
	s.tenantRepo.On("SubdomainExists", mock.Anything, "acme").Return(true, nil)

	_, err := s.service.Register(context.Background(), validRegisterInput())
	s.Equal(http.StatusBadRequest, s.appStatus(err))
	s.Empty(s.audit.entries)
}

func (s *AuthServiceTestSuite) TestRegisterEmailTaken() {
	s.tenantRepo.On("SubdomainExists", mock.Anything, "acme").Return(false, nil)
	s.userRepo.On("EmailExists", mock.Anything, "admin@acme.test").Return(true, nil)

	_, err := s.service.Register(context.Background(), validRegisterInput())
	s.Equal(http.StatusBadRequest, s.appStatus(err))
}

func (s *AuthServiceTestSuite) TestRegisterRollsBackWhenUserInsertFails() {
	s.tenantRepo.On("SubdomainExists", mock.Anything, "acme").Return(false, nil)
	s.userRepo.On("EmailExists", mock.Anything, "admin@acme.test").Return(false, nil)
	s.tenantRepo.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.userRepo.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("insert failed"))
	s.db.ExpectBegin()
	s.db.ExpectRollback()

	_, err := s.service.Register(context.Background(), validRegisterInput())
	s.Equal(http.StatusInternalServerError, s.appStatus(err))
	s.Empty(s.audit.entries)
	s.NoError(s.db.ExpectationsWereMet())
}

func (s *AuthServiceTestSuite) activeUser(password string, tenantID *uuid.UUID) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	s.Require().NoError(err)
	return &models.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        "user@acme.test",
		PasswordHash: string(hash),
		FullName:     "Norm User",
		Role:         models.RoleUser,
		IsActive:     true,
	}
}

func (s *AuthServiceTestSuite) TestLoginSuccess() {
	tenantID := uuid.New()
	user := s.activeUser("hunter22", &tenantID)
	s.userRepo.On("GetActiveByEmail", mock.Anything, "user@acme.test").Return(user, nil)

	token, got, err := s.service.Login(context.Background(), "User@Acme.Test", "hunter22", "127.0.0.1")
	s.Require().NoError(err)
	s.NotEmpty(token)
	s.Equal(user.ID, got.ID)

	s.Require().Len(s.audit.entries, 1)
	s.Equal(models.ActionLogin, s.audit.entries[0].Action)
}

func (s *AuthServiceTestSuite) TestLoginFailuresAreIndistinguishable() {
	tenantID := uuid.New()
	user := s.activeUser("correct-password", &tenantID)

	s.userRepo.On("GetActiveByEmail", mock.Anything, "missing@acme.test").Return(nil, pgx.ErrNoRows)
	s.userRepo.On("GetActiveByEmail", mock.Anything, "user@acme.test").Return(user, nil)

	_, _, errUnknown := s.service.Login(context.Background(), "missing@acme.test", "whatever", "")
	_, _, errBadPass := s.service.Login(context.Background(), "user@acme.test", "wrong-password", "")

	var appUnknown, appBadPass *common.AppError
	s.Require().ErrorAs(errUnknown, &appUnknown)
	s.Require().ErrorAs(errBadPass, &appBadPass)
	s.Equal(http.StatusUnauthorized, appUnknown.Status)
	s.Equal(http.StatusUnauthorized, appBadPass.Status)
	s.Equal(appUnknown.Message, appBadPass.Message)
	s.Empty(s.audit.entries)
}

func (s *AuthServiceTestSuite) TestLoginSuperAdminSkipsAudit() {
	user := s.activeUser("hunter22", nil)
	user.Role = models.RoleSuperAdmin
	s.userRepo.On("GetActiveByEmail", mock.Anything, "user@acme.test").Return(user, nil)

	token, _, err := s.service.Login(context.Background(), "user@acme.test", "hunter22", "")
	s.Require().NoError(err)
	s.NotEmpty(token)
	s.Empty(s.audit.entries)
}

func (s *AuthServiceTestSuite) TestMeNotFound() {
	id := uuid.New()
	s.userRepo.On("GetByIDGlobal", mock.Anything, id).Return(nil, pgx.ErrNoRows)

	_, err := s.service.Me(context.Background(), id)
	s.Equal(http.StatusNotFound, s.appStatus(err))
}

func (s *AuthServiceTestSuite) TestLogoutAuditsTenantUsersOnly() {
	userID := uuid.New()
	tenantID := uuid.New()

	s.service.Logout(context.Background(), userID, &tenantID, "")
	s.Require().Len(s.audit.entries, 1)
	s.Equal(models.ActionLogout, s.audit.entries[0].Action)

	s.service.Logout(context.Background(), userID, nil, "")
	s.Len(s.audit.entries, 1)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
