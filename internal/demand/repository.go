package demand

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository aggregates and reads demand signals.
type Repository interface {
	// Track records one search event. Repeated events for the same
	// tenant/query/category increment the existing row.
	Track(ctx context.Context, req *TrackRequest) (*Record, error)
	ListByTenant(ctx context.Context, tenantID string, limit int) ([]*Record, error)
}

type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository implements Repository against a pgx pool.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository creates a repository backed by the given pool.
// Panics if pool is nil.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("demand: nil pool")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB creates a repository with a custom db, for tests.
func NewPostgresRepositoryWithDB(db db) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const demandColumns = `id, tenant_id, query, category, search_count, no_results_count, potential_revenue, last_searched, created_at`

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID, &rec.TenantID, &rec.Query, &rec.Category,
		&rec.SearchCount, &rec.NoResultsCount, &rec.PotentialRevenue,
		&rec.LastSearched, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *PostgresRepository) Track(ctx context.Context, req *TrackRequest) (*Record, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	noResultsIncrement := 0
	if req.NoResults {
		noResultsIncrement = 1
	}

	query := fmt.Sprintf(`INSERT INTO demand_tracking (
		id, tenant_id, query, category, search_count, no_results_count, potential_revenue, last_searched
	) VALUES ($1, $2, $3, $4, 1, $5, 0, NOW())
	ON CONFLICT (tenant_id, query, category) DO UPDATE SET
		search_count = demand_tracking.search_count + 1,
		no_results_count = demand_tracking.no_results_count + $5,
		last_searched = NOW()
	RETURNING %s`, demandColumns)

	rec, err := scanRecord(r.db.QueryRow(ctx, query,
		uuid.NewString(), req.TenantID, req.Query, req.Category, noResultsIncrement,
	))
	if err != nil {
		return nil, fmt.Errorf("demand: upsert failed: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) ListByTenant(ctx context.Context, tenantID string, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`SELECT %s FROM demand_tracking
		WHERE tenant_id = $1
		ORDER BY search_count DESC, last_searched DESC
		LIMIT $2`, demandColumns)

	rows, err := r.db.Query(ctx, query, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("demand: query failed: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("demand: scan failed: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
