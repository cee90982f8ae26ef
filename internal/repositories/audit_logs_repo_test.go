package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"taskdesk/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/suite"
)

type AuditLogsRepoTestSuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	repo AuditLogsRepository
}

func (s *AuditLogsRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	s.Require().NoError(err)
	s.mock = mock
	s.repo = NewAuditLogsRepo(mock)
}

func (s *AuditLogsRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.mock.Close()
}

func (s *AuditLogsRepoTestSuite) TestCreateAssignsID() {
	tenantID := uuid.New()
	userID := uuid.New()
	entry := &models.AuditLog{
		TenantID:   &tenantID,
		UserID:     &userID,
		Action:     models.ActionCreateProject,
		EntityType: "project",
	}

	s.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
		WithArgs(pgxmock.AnyArg(), entry.TenantID, entry.UserID, entry.Action, entry.EntityType, entry.EntityID, entry.IPAddress).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	s.Require().NoError(s.repo.Create(context.Background(), entry))
	s.NotEqual(uuid.Nil, entry.ID)
}

func (s *AuditLogsRepoTestSuite) TestListIsTenantScoped() {
	tenantID := uuid.New()
	userID := uuid.New()
	rows := pgxmock.NewRows([]string{"id", "tenant_id", "user_id", "action", "entity_type", "entity_id", "ip_address", "created_at"}).
		AddRow(uuid.New(), &tenantID, &userID, models.ActionLogin, "user", &userID, "127.0.0.1", time.Now())

	s.mock.ExpectQuery(regexp.QuoteMeta("WHERE tenant_id = $1")).
		WithArgs(tenantID, 50, 0).
		WillReturnRows(rows)

	entries, err := s.repo.List(context.Background(), tenantID, 50, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(models.ActionLogin, entries[0].Action)
}

func TestAuditLogsRepoTestSuite(t *testing.T) {
	suite.Run(t, new(AuditLogsRepoTestSuite))
}
