package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores and retrieves conversation records.
type Repository interface {
	GetByID(ctx context.Context, tenantID, id string) (*Conversation, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*Conversation, error)
	Create(ctx context.Context, req *CreateConversationRequest) (*Conversation, error)
	UpdateStatus(ctx context.Context, tenantID, id, status string) (*Conversation, error)
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
		panic("conversation: nil pool")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB creates a repository with a custom db, for tests.
func NewPostgresRepositoryWithDB(db db) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const conversationColumns = `id, tenant_id, customer_id, customer_name, channel, messages,
	intent, confidence, status, handoff_requested, created_at, updated_at`

func scanConversation(row pgx.Row) (*Conversation, error) {
	var c Conversation
	err := row.Scan(
		&c.ID, &c.TenantID, &c.CustomerID, &c.CustomerName, &c.Channel, &c.Messages,
		&c.Intent, &c.Confidence, &c.Status, &c.HandoffRequested,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, tenantID, id string) (*Conversation, error) {
	query := fmt.Sprintf(`SELECT %s FROM conversations WHERE tenant_id = $1 AND id = $2`, conversationColumns)

	c, err := scanConversation(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("conversation: query failed: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListByTenant(ctx context.Context, tenantID string) ([]*Conversation, error) {
	query := fmt.Sprintf(`SELECT %s FROM conversations WHERE tenant_id = $1 ORDER BY created_at DESC`, conversationColumns)

	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("conversation: query failed: %w", err)
	}
	defer rows.Close()

	var out []*Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("conversation: scan failed: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, req *CreateConversationRequest) (*Conversation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`INSERT INTO conversations (
		id, tenant_id, customer_id, customer_name, channel, messages,
		intent, confidence, status, handoff_requested
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING %s`, conversationColumns)

	c, err := scanConversation(r.db.QueryRow(ctx, query,
		uuid.NewString(), req.TenantID, req.CustomerID, req.CustomerName, req.Channel, req.Messages,
		req.Intent, req.Confidence, req.Status, req.HandoffRequested,
	))
	if err != nil {
		return nil, fmt.Errorf("conversation: insert failed: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, tenantID, id, status string) (*Conversation, error) {
	switch status {
	case StatusActive, StatusClosed, StatusEscalated:
	default:
		return nil, ErrInvalidStatus
	}

	query := fmt.Sprintf(`UPDATE conversations
		SET status = $3, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
		RETURNING %s`, conversationColumns)

	c, err := scanConversation(r.db.QueryRow(ctx, query, tenantID, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("conversation: update failed: %w", err)
	}
	return c, nil
}
