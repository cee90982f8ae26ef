package repositories

import (
	"context"
	"fmt"
	"strings"

	"taskdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	CreateTx(ctx context.Context, tx pgx.Tx, tenant *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)
	SubdomainExists(ctx context.Context, subdomain string) (bool, error)
	Update(ctx context.Context, id uuid.UUID, changes map[string]any) (int64, error)
	List(ctx context.Context, limit, offset int) ([]*models.Tenant, error)
}

// Columns the partial update accepts. Everything else is ignored upstream.
var tenantUpdateColumns = map[string]bool{
	"name":              true,
	"status":            true,
	"subscription_plan": true,
	"max_users":         true,
	"max_projects":      true,
}

type tenantRepo struct {
	db DB
}

func NewTenantRepo(db DB) TenantRepository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	return createTenant(ctx, r.db, tenant)
}

func (r *tenantRepo) CreateTx(ctx context.Context, tx pgx.Tx, tenant *models.Tenant) error {
	return createTenant(ctx, tx, tenant)
}

func createTenant(ctx context.Context, q Querier, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, subdomain, status, subscription_plan, max_users, max_projects, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := q.Exec(ctx, query, tenant.ID, tenant.Name, tenant.Subdomain, tenant.Status, tenant.SubscriptionPlan, tenant.MaxUsers, tenant.MaxProjects)
	return err
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	query := `
		SELECT id, name, subdomain, status, subscription_plan, max_users, max_projects, created_at, updated_at
		FROM tenants
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&tenant.ID, &tenant.Name, &tenant.Subdomain, &tenant.Status, &tenant.SubscriptionPlan, &tenant.MaxUsers, &tenant.MaxProjects, &tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

func (r *tenantRepo) GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	query := `
		SELECT id, name, subdomain, status, subscription_plan, max_users, max_projects, created_at, updated_at
		FROM tenants
		WHERE lower(subdomain) = lower($1)
	`
	err := r.db.QueryRow(ctx, query, subdomain).Scan(&tenant.ID, &tenant.Name, &tenant.Subdomain, &tenant.Status, &tenant.SubscriptionPlan, &tenant.MaxUsers, &tenant.MaxProjects, &tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

func (r *tenantRepo) SubdomainExists(ctx context.Context, subdomain string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM tenants WHERE lower(subdomain) = lower($1))`
	err := r.db.QueryRow(ctx, query, subdomain).Scan(&exists)
	return exists, err
}

func (r *tenantRepo) Update(ctx context.Context, id uuid.UUID, changes map[string]any) (int64, error) {
	setClauses, args := buildSetClauses(changes, tenantUpdateColumns)
	if len(setClauses) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		UPDATE tenants
		SET %s, updated_at = NOW()
		WHERE id = $%d
	`, strings.Join(setClauses, ", "), len(args)+1)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *tenantRepo) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	query := `
		SELECT id, name, subdomain, status, subscription_plan, max_users, max_projects, created_at, updated_at
		FROM tenants
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		tenant := &models.Tenant{}
		if err := rows.Scan(&tenant.ID, &tenant.Name, &tenant.Subdomain, &tenant.Status, &tenant.SubscriptionPlan, &tenant.MaxUsers, &tenant.MaxProjects, &tenant.CreatedAt, &tenant.UpdatedAt); err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}
