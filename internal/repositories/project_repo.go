package repositories

import (
	"context"
	"fmt"
	"strings"

	"taskdesk/internal/models"

	"github.com/google/uuid"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.Project, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, changes map[string]any) (int64, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) (int64, error)
}

var projectUpdateColumns = map[string]bool{
	"name":        true,
	"description": true,
	"status":      true,
}

type projectRepo struct {
	db DB
}

func NewProjectRepo(db DB) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (id, tenant_id, name, description, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, project.ID, project.TenantID, project.Name, project.Description, project.Status, project.CreatedBy)
	return err
}

func (r *projectRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Project, error) {
	project := &models.Project{}
	query := `
		SELECT id, tenant_id, name, description, status, created_by, created_at, updated_at
		FROM projects
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&project.ID, &project.TenantID, &project.Name, &project.Description, &project.Status, &project.CreatedBy, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (r *projectRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Project, error) {
	query := `
		SELECT id, tenant_id, name, description, status, created_by, created_at, updated_at
		FROM projects
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project := &models.Project{}
		if err := rows.Scan(&project.ID, &project.TenantID, &project.Name, &project.Description, &project.Status, &project.CreatedBy, &project.CreatedAt, &project.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (r *projectRepo) Update(ctx context.Context, tenantID, id uuid.UUID, changes map[string]any) (int64, error) {
	setClauses, args := buildSetClauses(changes, projectUpdateColumns)
	if len(setClauses) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		UPDATE projects
		SET %s, updated_at = NOW()
		WHERE tenant_id = $%d AND id = $%d
	`, strings.Join(setClauses, ", "), len(args)+1, len(args)+2)
	args = append(args, tenantID, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *projectRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) (int64, error) {
	query := `DELETE FROM projects WHERE tenant_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
