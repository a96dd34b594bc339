package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines tenant storage. Tenants are the partitioning root and the
// only entity addressed without a tenant-id argument.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	List(ctx context.Context) ([]*Tenant, error)
	Create(ctx context.Context, req *CreateTenantRequest) (*Tenant, error)
	Update(ctx context.Context, id string, req *UpdateTenantRequest) (*Tenant, error)
}

// db is the subset of pgxpool.Pool the repository needs. Tests inject pgxmock.
type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores tenants in the relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("tenant: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db db) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const tenantColumns = `id, name, slug, description, industry, settings, is_active, created_at`

func scanTenant(row pgx.Row) (*Tenant, error) {
	var t Tenant
	if err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Slug,
		&t.Description,
		&t.Industry,
		&t.Settings,
		&t.IsActive,
		&t.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID fetches a tenant by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Tenant, error) {
	row := r.db.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("tenant: select failed: %w", err)
	}
	return t, nil
}

// GetBySlug fetches a tenant by its unique slug.
func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*Tenant, error) {
	row := r.db.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE slug = $1`, slug)
	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("tenant: select by slug failed: %w", err)
	}
	return t, nil
}

// List returns all tenants, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*Tenant, error) {
	rows, err := r.db.Query(ctx, `SELECT `+tenantColumns+` FROM tenants ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("tenant: list failed: %w", err)
	}
	defer rows.Close()

	var tenants []*Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("tenant: scan failed: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tenant: rows failed: %w", err)
	}
	return tenants, nil
}

// Create inserts a new tenant row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateTenantRequest) (*Tenant, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	settings := req.Settings
	if settings == nil {
		settings = map[string]any{}
	}

	id := uuid.New()
	row := r.db.QueryRow(ctx, `
		INSERT INTO tenants (id, name, slug, description, industry, settings, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, true)
		RETURNING `+tenantColumns,
		id, req.Name, req.Slug, req.Description, req.Industry, settings,
	)
	t, err := scanTenant(row)
	if err != nil {
		return nil, fmt.Errorf("tenant: insert failed: %w", err)
	}
	return t, nil
}

// Update applies a partial update and returns the resulting row.
func (r *PostgresRepository) Update(ctx context.Context, id string, req *UpdateTenantRequest) (*Tenant, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE tenants SET
			name        = COALESCE($2, name),
			description = COALESCE($3, description),
			industry    = COALESCE($4, industry),
			settings    = COALESCE($5, settings),
			is_active   = COALESCE($6, is_active)
		WHERE id = $1
		RETURNING `+tenantColumns,
		id, req.Name, req.Description, req.Industry, req.Settings, req.IsActive,
	)
	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("tenant: update failed: %w", err)
	}
	return t, nil
}
