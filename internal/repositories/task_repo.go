package repositories

import (
	"context"
	"fmt"
	"strings"

	"taskdesk/internal/models"

	"github.com/google/uuid"
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, tenantID uuid.UUID, projectID *uuid.UUID) ([]*models.Task, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, changes map[string]any) (int64, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) (int64, error)
}

var taskUpdateColumns = map[string]bool{
	"title":       true,
	"description": true,
	"status":      true,
	"priority":    true,
	"assigned_to": true,
	"due_date":    true,
}

const taskColumns = "id, tenant_id, project_id, title, description, status, priority, assigned_to, due_date, created_at, updated_at"

type taskRepo struct {
	db DB
}

func NewTaskRepo(db DB) TaskRepository {
	return &taskRepo{db: db}
}

func (r *taskRepo) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, tenant_id, project_id, title, description, status, priority, assigned_to, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, task.ID, task.TenantID, task.ProjectID, task.Title, task.Description, task.Status, task.Priority, task.AssignedTo, task.DueDate)
	return err
}

func (r *taskRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Task, error) {
	task := &models.Task{}
	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE tenant_id = $1 AND id = $2
	`, taskColumns)
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&task.ID, &task.TenantID, &task.ProjectID, &task.Title, &task.Description, &task.Status, &task.Priority, &task.AssignedTo, &task.DueDate, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepo) List(ctx context.Context, tenantID uuid.UUID, projectID *uuid.UUID) ([]*models.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE tenant_id = $1
	`, taskColumns)
	args := []any{tenantID}

	if projectID != nil {
		query += " AND project_id = $2"
		args = append(args, *projectID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{}
		if err := rows.Scan(&task.ID, &task.TenantID, &task.ProjectID, &task.Title, &task.Description, &task.Status, &task.Priority, &task.AssignedTo, &task.DueDate, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *taskRepo) Update(ctx context.Context, tenantID, id uuid.UUID, changes map[string]any) (int64, error) {
	setClauses, args := buildSetClauses(changes, taskUpdateColumns)
	if len(setClauses) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		UPDATE tasks
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

func (r *taskRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) (int64, error) {
	query := `DELETE FROM tasks WHERE tenant_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
