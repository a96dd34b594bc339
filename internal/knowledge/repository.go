package knowledge

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines tenant-scoped knowledge base storage.
type Repository interface {
	GetByID(ctx context.Context, tenantID, id string) (*Entry, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*Entry, error)
	Search(ctx context.Context, tenantID, query string) ([]*Entry, error)
	Create(ctx context.Context, req *CreateEntryRequest) (*Entry, error)
	Update(ctx context.Context, tenantID, id string, req *UpdateEntryRequest) (*Entry, error)
}

type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores knowledge entries in the relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("knowledge: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db db) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const entryColumns = `id, tenant_id, title, content, category, tags, is_public, embedding, created_at, updated_at`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	if err := row.Scan(
		&e.ID,
		&e.TenantID,
		&e.Title,
		&e.Content,
		&e.Category,
		&e.Tags,
		&e.IsPublic,
		&e.Embedding,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByID fetches an entry scoped to the tenant.
func (r *PostgresRepository) GetByID(ctx context.Context, tenantID, id string) (*Entry, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM knowledge_base WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("knowledge: select failed: %w", err)
	}
	return e, nil
}

// ListByTenant returns the tenant's entries, most recently updated first.
func (r *PostgresRepository) ListByTenant(ctx context.Context, tenantID string) ([]*Entry, error) {
	return r.list(ctx,
		`SELECT `+entryColumns+` FROM knowledge_base WHERE tenant_id = $1 ORDER BY updated_at DESC`, tenantID)
}

// Search matches title or content case-insensitively within the tenant.
func (r *PostgresRepository) Search(ctx context.Context, tenantID, query string) ([]*Entry, error) {
	pattern := "%" + query + "%"
	return r.list(ctx, `
		SELECT `+entryColumns+` FROM knowledge_base
		WHERE tenant_id = $1 AND (title ILIKE $2 OR content ILIKE $2)
		ORDER BY updated_at DESC`,
		tenantID, pattern)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*Entry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("knowledge: list failed: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("knowledge: scan failed: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("knowledge: rows failed: %w", err)
	}
	return entries, nil
}

// Create inserts a new entry.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateEntryRequest) (*Entry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	id := uuid.New()
	row := r.db.QueryRow(ctx, `
		INSERT INTO knowledge_base (id, tenant_id, title, content, category, tags, is_public, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+entryColumns,
		id, req.TenantID, req.Title, req.Content, req.Category, tags, req.IsPublic, req.Embedding,
	)
	e, err := scanEntry(row)
	if err != nil {
		return nil, fmt.Errorf("knowledge: insert failed: %w", err)
	}
	return e, nil
}

// Update applies a partial update scoped to the tenant.
func (r *PostgresRepository) Update(ctx context.Context, tenantID, id string, req *UpdateEntryRequest) (*Entry, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE knowledge_base SET
			title      = COALESCE($3, title),
			content    = COALESCE($4, content),
			category   = COALESCE($5, category),
			tags       = COALESCE($6, tags),
			is_public  = COALESCE($7, is_public),
			embedding  = COALESCE($8, embedding),
			updated_at = now()
		WHERE id = $1 AND tenant_id = $2
		RETURNING `+entryColumns,
		id, tenantID, req.Title, req.Content, req.Category, req.Tags, req.IsPublic, req.Embedding,
	)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("knowledge: update failed: %w", err)
	}
	return e, nil
}
