package repositories

import (
	"context"
	"fmt"
	"strings"

	"taskdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	CreateTx(ctx context.Context, tx pgx.Tx, user *models.User) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error)
	GetByIDGlobal(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetActiveByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	EmailExistsInTenant(ctx context.Context, tenantID uuid.UUID, email string) (bool, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.User, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, changes map[string]any) (int64, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) (int64, error)
}

var userUpdateColumns = map[string]bool{
	"full_name": true,
	"role":      true,
	"is_active": true,
}

const userColumns = "id, tenant_id, email, password_hash, full_name, role, is_active, created_at, updated_at"

type userRepo struct {
	db DB
}

func NewUserRepo(db DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return createUser(ctx, r.db, user)
}

func (r *userRepo) CreateTx(ctx context.Context, tx pgx.Tx, user *models.User) error {
	return createUser(ctx, tx, user)
}

func createUser(ctx context.Context, q Querier, user *models.User) error {
	query := `
		INSERT INTO users (id, tenant_id, email, password_hash, full_name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := q.Exec(ctx, query, user.ID, user.TenantID, user.Email, user.PasswordHash, user.FullName, user.Role, user.IsActive)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE tenant_id = $1 AND id = $2
	`, userColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, tenantID, id))
}

// GetByIDGlobal looks a user up by id alone. Used for token-holder lookups,
// where the tenant comes from the row rather than from the caller.
func (r *userRepo) GetByIDGlobal(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE id = $1
	`, userColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// GetActiveByEmail is the login lookup: active users only, across tenants.
func (r *userRepo) GetActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE lower(email) = lower($1) AND is_active = true
	`, userColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, email))
}

func (r *userRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	return exists, err
}

func (r *userRepo) EmailExistsInTenant(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE tenant_id = $1 AND lower(email) = lower($2))`
	err := r.db.QueryRow(ctx, query, tenantID, email).Scan(&exists)
	return exists, err
}

func (r *userRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*models.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE tenant_id = $1 AND is_active = true
		ORDER BY created_at DESC
	`, userColumns)
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.TenantID, &user.Email, &user.PasswordHash, &user.FullName, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepo) Update(ctx context.Context, tenantID, id uuid.UUID, changes map[string]any) (int64, error) {
	setClauses, args := buildSetClauses(changes, userUpdateColumns)
	if len(setClauses) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		UPDATE users
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

// Deactivate is the user remove path. Rows are never deleted; history and
// audit references stay intact.
func (r *userRepo) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (int64, error) {
	query := `
		UPDATE users
		SET is_active = false, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND is_active = true
	`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *userRepo) scanOne(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.TenantID, &user.Email, &user.PasswordHash, &user.FullName, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}
