package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines tenant-scoped product and inventory storage. Every read
// and write takes the owning tenant id; a product is only visible through its
// own tenant.
type Repository interface {
	GetProduct(ctx context.Context, tenantID, id string) (*Product, error)
	ListProducts(ctx context.Context, tenantID string) ([]*Product, error)
	SearchProducts(ctx context.Context, tenantID, query string) ([]*Product, error)
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*Product, error)
	UpdateProduct(ctx context.Context, tenantID, id string, req *UpdateProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, tenantID, id string) (bool, error)

	GetInventory(ctx context.Context, tenantID, productID string) (*Inventory, error)
	ListInventory(ctx context.Context, tenantID string) ([]*Inventory, error)
	UpdateInventory(ctx context.Context, tenantID, productID string, req *UpdateInventoryRequest) (*Inventory, error)
}

type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores catalog data in the relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("catalog: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db db) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const productColumns = `id, tenant_id, sku, name, description, price, category, tags, specifications, images, is_active, created_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	if err := row.Scan(
		&p.ID,
		&p.TenantID,
		&p.SKU,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
		&p.Tags,
		&p.Specifications,
		&p.Images,
		&p.IsActive,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProduct fetches a product scoped to the tenant.
func (r *PostgresRepository) GetProduct(ctx context.Context, tenantID, id string) (*Product, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("catalog: select product failed: %w", err)
	}
	return p, nil
}

// ListProducts returns the tenant's catalog, newest first.
func (r *PostgresRepository) ListProducts(ctx context.Context, tenantID string) ([]*Product, error) {
	return r.listProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
}

// SearchProducts matches name, description or category case-insensitively,
// always within the tenant.
func (r *PostgresRepository) SearchProducts(ctx context.Context, tenantID, query string) ([]*Product, error) {
	pattern := "%" + query + "%"
	return r.listProducts(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE tenant_id = $1
		  AND (name ILIKE $2 OR description ILIKE $2 OR category ILIKE $2)
		ORDER BY created_at DESC`,
		tenantID, pattern)
}

func (r *PostgresRepository) listProducts(ctx context.Context, query string, args ...any) ([]*Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: list products failed: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan product failed: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: product rows failed: %w", err)
	}
	return products, nil
}

// CreateProduct inserts a product and seeds its inventory row.
func (r *PostgresRepository) CreateProduct(ctx context.Context, req *CreateProductRequest) (*Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	specs := req.Specifications
	if specs == nil {
		specs = map[string]any{}
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}

	id := uuid.New()
	row := r.db.QueryRow(ctx, `
		INSERT INTO products (id, tenant_id, sku, name, description, price, category, tags, specifications, images, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, true)
		RETURNING `+productColumns,
		id, req.TenantID, req.SKU, req.Name, req.Description, req.Price, req.Category, tags, specs, images,
	)
	p, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("catalog: insert product failed: %w", err)
	}

	// New products start with an empty stock record.
	if _, err := r.db.Exec(ctx, `
		INSERT INTO inventory (id, product_id, quantity_available, quantity_reserved, reorder_point)
		VALUES ($1, $2, 0, 0, 10)`,
		uuid.New(), p.ID,
	); err != nil {
		return nil, fmt.Errorf("catalog: seed inventory failed: %w", err)
	}

	return p, nil
}

// UpdateProduct applies a partial update scoped to the tenant.
func (r *PostgresRepository) UpdateProduct(ctx context.Context, tenantID, id string, req *UpdateProductRequest) (*Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, `
		UPDATE products SET
			name           = COALESCE($3, name),
			description    = COALESCE($4, description),
			price          = COALESCE($5, price),
			category       = COALESCE($6, category),
			tags           = COALESCE($7, tags),
			specifications = COALESCE($8, specifications),
			images         = COALESCE($9, images),
			is_active      = COALESCE($10, is_active)
		WHERE id = $1 AND tenant_id = $2
		RETURNING `+productColumns,
		id, tenantID, req.Name, req.Description, req.Price, req.Category,
		req.Tags, req.Specifications, req.Images, req.IsActive,
	)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("catalog: update product failed: %w", err)
	}
	return p, nil
}

// DeleteProduct removes a product and reports whether a row was deleted.
func (r *PostgresRepository) DeleteProduct(ctx context.Context, tenantID, id string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM products WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return false, fmt.Errorf("catalog: delete product failed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

const inventoryColumns = `i.id, i.product_id, i.quantity_available, i.quantity_reserved, i.reorder_point, i.last_restocked, i.updated_at`

func scanInventory(row pgx.Row) (*Inventory, error) {
	var inv Inventory
	if err := row.Scan(
		&inv.ID,
		&inv.ProductID,
		&inv.QuantityAvailable,
		&inv.QuantityReserved,
		&inv.ReorderPoint,
		&inv.LastRestocked,
		&inv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetInventory fetches the stock record for a product, scoped through the
// product's tenant.
func (r *PostgresRepository) GetInventory(ctx context.Context, tenantID, productID string) (*Inventory, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+inventoryColumns+`
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		WHERE i.product_id = $1 AND p.tenant_id = $2`,
		productID, tenantID)
	inv, err := scanInventory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInventoryNotFound
		}
		return nil, fmt.Errorf("catalog: select inventory failed: %w", err)
	}
	return inv, nil
}

// ListInventory returns all stock records for the tenant's products.
func (r *PostgresRepository) ListInventory(ctx context.Context, tenantID string) ([]*Inventory, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+inventoryColumns+`
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		WHERE p.tenant_id = $1`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("catalog: list inventory failed: %w", err)
	}
	defer rows.Close()

	var records []*Inventory
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan inventory failed: %w", err)
		}
		records = append(records, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: inventory rows failed: %w", err)
	}
	return records, nil
}

// UpdateInventory applies a partial stock update scoped through the tenant.
func (r *PostgresRepository) UpdateInventory(ctx context.Context, tenantID, productID string, req *UpdateInventoryRequest) (*Inventory, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE inventory i SET
			quantity_available = COALESCE($3, i.quantity_available),
			quantity_reserved  = COALESCE($4, i.quantity_reserved),
			reorder_point      = COALESCE($5, i.reorder_point),
			updated_at         = now()
		FROM products p
		WHERE i.product_id = $1 AND p.id = i.product_id AND p.tenant_id = $2
		RETURNING `+inventoryColumns,
		productID, tenantID, req.QuantityAvailable, req.QuantityReserved, req.ReorderPoint,
	)
	inv, err := scanInventory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInventoryNotFound
		}
		return nil, fmt.Errorf("catalog: update inventory failed: %w", err)
	}
	return inv, nil
}
