package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines tenant-scoped order storage.
type Repository interface {
	GetByID(ctx context.Context, tenantID, id string) (*Order, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*Order, error)
	ListByCustomer(ctx context.Context, tenantID, customerID string) ([]*Order, error)
	Create(ctx context.Context, req *CreateOrderRequest) (*Order, error)
	Update(ctx context.Context, tenantID, id string, req *UpdateOrderRequest) (*Order, error)
}

type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores orders in the relational database.
type PostgresRepository struct {
	db  db
	now func() time.Time
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("orders: pgx pool required")
	}
	return &PostgresRepository{db: pool, now: time.Now}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db db) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

const orderColumns = `id, tenant_id, order_number, customer_id, customer_name, customer_email, items, total_amount, status, payment_status, source, conversation_id, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	if err := row.Scan(
		&o.ID,
		&o.TenantID,
		&o.OrderNumber,
		&o.CustomerID,
		&o.CustomerName,
		&o.CustomerEmail,
		&o.Items,
		&o.TotalAmount,
		&o.Status,
		&o.PaymentStatus,
		&o.Source,
		&o.ConversationID,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByID fetches an order scoped to the tenant.
func (r *PostgresRepository) GetByID(ctx context.Context, tenantID, id string) (*Order, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("orders: select failed: %w", err)
	}
	return o, nil
}

// ListByTenant returns the tenant's orders, newest first.
func (r *PostgresRepository) ListByTenant(ctx context.Context, tenantID string) ([]*Order, error) {
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
}

// ListByCustomer returns orders for one customer within the tenant.
func (r *PostgresRepository) ListByCustomer(ctx context.Context, tenantID, customerID string) ([]*Order, error) {
	return r.list(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE tenant_id = $1 AND customer_id = $2
		ORDER BY created_at DESC`,
		tenantID, customerID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("orders: list failed: %w", err)
	}
	defer rows.Close()

	var result []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("orders: scan failed: %w", err)
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders: rows failed: %w", err)
	}
	return result, nil
}

// Create inserts an order with a generated order number.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateOrderRequest) (*Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	orderNumber := fmt.Sprintf("ORD-%d", r.now().UnixMilli())
	row := r.db.QueryRow(ctx, `
		INSERT INTO orders (id, tenant_id, order_number, customer_id, customer_name, customer_email, items, total_amount, status, payment_status, source, conversation_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+orderColumns,
		id, req.TenantID, orderNumber, req.CustomerID, req.CustomerName, req.CustomerEmail,
		req.Items, req.TotalAmount, StatusPending, PaymentPending, req.Source, req.ConversationID,
	)
	o, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("orders: insert failed: %w", err)
	}
	return o, nil
}

// Update applies a partial status update scoped to the tenant.
func (r *PostgresRepository) Update(ctx context.Context, tenantID, id string, req *UpdateOrderRequest) (*Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, `
		UPDATE orders SET
			status         = COALESCE($3, status),
			payment_status = COALESCE($4, payment_status),
			updated_at     = now()
		WHERE id = $1 AND tenant_id = $2
		RETURNING `+orderColumns,
		id, tenantID, req.Status, req.PaymentStatus,
	)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("orders: update failed: %w", err)
	}
	return o, nil
}
