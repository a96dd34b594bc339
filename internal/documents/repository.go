package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores generated documents.
type Repository interface {
	GetByID(ctx context.Context, tenantID, id string) (*Document, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*Document, error)
	Create(ctx context.Context, doc *Document) (*Document, error)
}

type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository implements Repository against a pgx pool.
type PostgresRepository struct {
	db  db
	now func() time.Time
}

// NewPostgresRepository creates a repository backed by the given pool.
// Panics if pool is nil.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("documents: nil pool")
	}
	return &PostgresRepository{db: pool, now: time.Now}
}

// NewPostgresRepositoryWithDB creates a repository with a custom db, for tests.
func NewPostgresRepositoryWithDB(db db) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

const documentColumns = `id, tenant_id, order_id, type, document_number, content, file_path, status, created_at`

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	var filePath *string
	err := row.Scan(
		&d.ID, &d.TenantID, &d.OrderID, &d.Type, &d.DocumentNumber,
		&d.Content, &filePath, &d.Status, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if filePath != nil {
		d.FilePath = *filePath
	}
	return &d, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, tenantID, id string) (*Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM documents WHERE tenant_id = $1 AND id = $2`, documentColumns)

	d, err := scanDocument(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documents: query failed: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) ListByTenant(ctx context.Context, tenantID string) ([]*Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM documents WHERE tenant_id = $1 ORDER BY created_at DESC`, documentColumns)

	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("documents: query failed: %w", err)
	}
	defer rows.Close()

	var out []*Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("documents: scan failed: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, doc *Document) (*Document, error) {
	if doc.TenantID == "" {
		return nil, ErrMissingTenantID
	}
	if doc.DocumentNumber == "" {
		doc.DocumentNumber = NumberFor(doc.Type, r.now())
	}
	if doc.Status == "" {
		doc.Status = StatusDraft
	}

	query := fmt.Sprintf(`INSERT INTO documents (
		id, tenant_id, order_id, type, document_number, content, file_path, status
	) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
	RETURNING %s`, documentColumns)

	d, err := scanDocument(r.db.QueryRow(ctx, query,
		uuid.NewString(), doc.TenantID, doc.OrderID, doc.Type, doc.DocumentNumber,
		doc.Content, doc.FilePath, doc.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("documents: insert failed: %w", err)
	}
	return d, nil
}

// NumberFor builds a document number like QT-1748772000000 from the
// document type and creation time.
func NumberFor(docType string, at time.Time) string {
	prefix := "DOC"
	switch docType {
	case TypeQuote:
		prefix = "QT"
	case TypeInvoice:
		prefix = "INV"
	case TypeReceipt:
		prefix = "RCT"
	}
	return fmt.Sprintf("%s-%d", prefix, at.UnixMilli())
}
