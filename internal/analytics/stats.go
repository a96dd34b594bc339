package analytics

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Documented default shown when no conversations exist yet; not a measured
// statistic.
const defaultAIAccuracy = 94.2

// Stats is the platform (or single-tenant) dashboard summary.
type Stats struct {
	ActiveTenants      int64   `json:"activeTenants"`
	TotalConversations int64   `json:"totalConversations"`
	TotalRevenue       float64 `json:"totalRevenue"`
	AIAccuracy         float64 `json:"aiAccuracy"`
}

// TenantActivity summarizes one tenant's recent volume.
type TenantActivity struct {
	TenantID      string  `json:"tenantId"`
	TenantName    string  `json:"tenantName"`
	Conversations int64   `json:"conversations"`
	Orders        int64   `json:"orders"`
	Revenue       float64 `json:"revenue"`
	Status        string  `json:"status"`
}

type statsDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// StatsRepository aggregates dashboard metrics from the database.
type StatsRepository struct {
	db statsDB
}

// NewStatsRepository creates a stats repository backed by the given pool.
// Panics if pool is nil.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	if pool == nil {
		panic("analytics: nil pool")
	}
	return &StatsRepository{db: pool}
}

// NewStatsRepositoryWithDB allows injecting a mock database for testing.
func NewStatsRepositoryWithDB(db statsDB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetStats aggregates platform-wide metrics, or a single tenant's when
// tenantID is non-empty. With a tenant filter, activeTenants is reported
// as 1: the filter scopes the dashboard to that one tenant.
func (r *StatsRepository) GetStats(ctx context.Context, tenantID string) (*Stats, error) {
	stats := &Stats{}

	var filter string
	var args []any
	if tenantID != "" {
		filter = " WHERE tenant_id = $1"
		args = append(args, tenantID)
		stats.ActiveTenants = 1
	} else {
		if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tenants WHERE is_active = true`).Scan(&stats.ActiveTenants); err != nil {
			return nil, fmt.Errorf("analytics: count tenants: %w", err)
		}
	}

	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM conversations`+filter, args...).Scan(&stats.TotalConversations); err != nil {
		return nil, fmt.Errorf("analytics: count conversations: %w", err)
	}

	var escalated int64
	escalatedQuery := `SELECT COUNT(*) FROM conversations`
	if filter != "" {
		escalatedQuery += filter + ` AND handoff_requested = true`
	} else {
		escalatedQuery += ` WHERE handoff_requested = true`
	}
	if err := r.db.QueryRow(ctx, escalatedQuery, args...).Scan(&escalated); err != nil {
		return nil, fmt.Errorf("analytics: count escalated: %w", err)
	}

	if err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(total_amount), 0) FROM orders`+filter, args...).Scan(&stats.TotalRevenue); err != nil {
		return nil, fmt.Errorf("analytics: sum revenue: %w", err)
	}

	stats.AIAccuracy = aiAccuracy(stats.TotalConversations, escalated)
	return stats, nil
}

// aiAccuracy is the share of conversations resolved without escalation,
// as a percentage. Zero conversations yields the documented default.
func aiAccuracy(total, escalated int64) float64 {
	if total == 0 {
		return defaultAIAccuracy
	}
	return float64(total-escalated) / float64(total) * 100
}

// GetTenantActivity reports volume for up to the five most recently created
// tenants. Status thresholds are fixed: active above 100 conversations,
// moderate above 50, low otherwise.
func (r *StatsRepository) GetTenantActivity(ctx context.Context) ([]*TenantActivity, error) {
	query := `SELECT t.id, t.name,
		(SELECT COUNT(*) FROM conversations c WHERE c.tenant_id = t.id),
		(SELECT COUNT(*) FROM orders o WHERE o.tenant_id = t.id),
		(SELECT COALESCE(SUM(o.total_amount), 0) FROM orders o WHERE o.tenant_id = t.id)
	FROM tenants t
	ORDER BY t.created_at DESC
	LIMIT 5`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("analytics: tenant activity: %w", err)
	}
	defer rows.Close()

	var out []*TenantActivity
	for rows.Next() {
		var a TenantActivity
		if err := rows.Scan(&a.TenantID, &a.TenantName, &a.Conversations, &a.Orders, &a.Revenue); err != nil {
			return nil, fmt.Errorf("analytics: scan tenant activity: %w", err)
		}
		a.Status = activityStatus(a.Conversations)
		out = append(out, &a)
	}
	return out, rows.Err()
}

func activityStatus(conversations int64) string {
	switch {
	case conversations > 100:
		return "active"
	case conversations > 50:
		return "moderate"
	default:
		return "low"
	}
}
