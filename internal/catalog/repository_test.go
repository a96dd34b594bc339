package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func productRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "tenant_id", "sku", "name", "description", "price", "category",
		"tags", "specifications", "images", "is_active", "created_at",
	})
}

func addProduct(rows *pgxmock.Rows, id, tenantID, name string) *pgxmock.Rows {
	return rows.AddRow(
		id, tenantID, "SKU-"+id, name, "", 9.99, "tools",
		[]string{}, map[string]any{}, []string{}, true, time.Now().UTC(),
	)
}

func TestSearchProducts_ScopedToTenant(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	// Tenant B may own products matching the same terms; the query must pin
	// tenant A so those rows can never be returned.
	mock.ExpectQuery(`SELECT .+ FROM products\s+WHERE tenant_id = \$1\s+AND \(name ILIKE \$2 OR description ILIKE \$2 OR category ILIKE \$2\)`).
		WithArgs("tenant-a", "%drill%").
		WillReturnRows(addProduct(productRows(), "p-1", "tenant-a", "Cordless Drill"))

	repo := NewPostgresRepositoryWithDB(mock)
	products, err := repo.SearchProducts(context.Background(), "tenant-a", "drill")
	if err != nil {
		t.Fatalf("SearchProducts failed: %v", err)
	}
	if len(products) != 1 || products[0].TenantID != "tenant-a" {
		t.Fatalf("unexpected products: %#v", products)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetProduct_RequiresTenantMatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	// Product exists under tenant-b; lookup through tenant-a finds nothing.
	mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs("p-1", "tenant-a").
		WillReturnRows(productRows())

	repo := NewPostgresRepositoryWithDB(mock)
	_, err = repo.GetProduct(context.Background(), "tenant-a", "p-1")
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCreateProduct_SeedsInventory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO products`).
		WithArgs(pgxmock.AnyArg(), "tenant-a", "SKU-1", "Drill", "18V cordless", 129.0, "tools",
			[]string{"power"}, map[string]any{}, []string{}).
		WillReturnRows(addProduct(productRows(), "p-1", "tenant-a", "Drill"))

	mock.ExpectExec(`INSERT INTO inventory`).
		WithArgs(pgxmock.AnyArg(), "p-1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPostgresRepositoryWithDB(mock)
	p, err := repo.CreateProduct(context.Background(), &CreateProductRequest{
		TenantID:    "tenant-a",
		SKU:         "SKU-1",
		Name:        "Drill",
		Description: "18V cordless",
		Price:       129.0,
		Category:    "tools",
		Tags:        []string{"power"},
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if p.ID != "p-1" {
		t.Errorf("ID = %q", p.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	repo := NewPostgresRepositoryWithDB(nil)

	cases := []struct {
		name string
		req  CreateProductRequest
		want error
	}{
		{"missing tenant", CreateProductRequest{SKU: "S", Name: "N"}, ErrMissingTenantID},
		{"missing sku", CreateProductRequest{TenantID: "t", Name: "N"}, ErrInvalidSKU},
		{"missing name", CreateProductRequest{TenantID: "t", SKU: "S"}, ErrInvalidName},
		{"negative price", CreateProductRequest{TenantID: "t", SKU: "S", Name: "N", Price: -1}, ErrNegativePrice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.CreateProduct(context.Background(), &tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestDeleteProduct_ReportsSuccess(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM products WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs("p-1", "tenant-a").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM products WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs("p-2", "tenant-a").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewPostgresRepositoryWithDB(mock)

	deleted, err := repo.DeleteProduct(context.Background(), "tenant-a", "p-1")
	if err != nil || !deleted {
		t.Fatalf("DeleteProduct = %v, %v; want true, nil", deleted, err)
	}
	deleted, err = repo.DeleteProduct(context.Background(), "tenant-a", "p-2")
	if err != nil || deleted {
		t.Fatalf("DeleteProduct = %v, %v; want false, nil", deleted, err)
	}
}

func TestListInventory_JoinsThroughTenant(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM inventory i\s+JOIN products p ON p.id = i.product_id\s+WHERE p.tenant_id = \$1`).
		WithArgs("tenant-a").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "product_id", "quantity_available", "quantity_reserved", "reorder_point", "last_restocked", "updated_at",
		}).AddRow("inv-1", "p-1", 12, 2, 10, nil, now))

	repo := NewPostgresRepositoryWithDB(mock)
	records, err := repo.ListInventory(context.Background(), "tenant-a")
	if err != nil {
		t.Fatalf("ListInventory failed: %v", err)
	}
	if len(records) != 1 || records[0].QuantityAvailable != 12 {
		t.Fatalf("unexpected records: %#v", records)
	}
}
