package repositories

import (
	"context"

	"taskdesk/internal/models"

	"github.com/google/uuid"
)

// AuditLogsRepository is append-only. There is no update or delete method
// and none should be added.
type AuditLogsRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.AuditLog, error)
}

type auditLogsRepo struct {
	db DB
}

func NewAuditLogsRepo(db DB) AuditLogsRepository {
	return &auditLogsRepo{db: db}
}

func (r *auditLogsRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	query := `
		INSERT INTO audit_logs (id, tenant_id, user_id, action, entity_type, entity_id, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	_, err := r.db.Exec(ctx, query, entry.ID, entry.TenantID, entry.UserID, entry.Action, entry.EntityType, entry.EntityID, entry.IPAddress)
	return err
}

func (r *auditLogsRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	query := `
		SELECT id, tenant_id, user_id, action, entity_type, entity_id, ip_address, created_at
		FROM audit_logs
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.AuditLog
	for rows.Next() {
		entry := &models.AuditLog{}
		if err := rows.Scan(&entry.ID, &entry.TenantID, &entry.UserID, &entry.Action, &entry.EntityType, &entry.EntityID, &entry.IPAddress, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
