package services

import (
	"context"

	"taskdesk/internal/models"
	"taskdesk/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuditService interface {
	// Record appends an audit entry. It never returns an error: a failed
	// write must not fail the mutation it describes, so failures are only
	// logged.
	Record(ctx context.Context, tenantID, userID *uuid.UUID, action, entityType string, entityID *uuid.UUID, ipAddress string)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.AuditLog, error)
}

type auditService struct {
	repo   repositories.AuditLogsRepository
	logger *zap.Logger
}

func NewAuditService(repo repositories.AuditLogsRepository, logger *zap.Logger) AuditService {
	return &auditService{repo: repo, logger: logger}
}

func (s *auditService) Record(ctx context.Context, tenantID, userID *uuid.UUID, action, entityType string, entityID *uuid.UUID, ipAddress string) {
	entry := &models.AuditLog{
		TenantID:   tenantID,
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  ipAddress,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("audit write failed",
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.Error(err),
		)
	}
}

func (s *auditService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, tenantID, limit, offset)
}
