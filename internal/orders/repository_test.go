package orders

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func orderRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "tenant_id", "order_number", "customer_id", "customer_name", "customer_email",
		"items", "total_amount", "status", "payment_status", "source", "conversation_id",
		"created_at", "updated_at",
	})
}

func TestCreate_GeneratesOrderNumber(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	fixed := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	items := []Item{{ProductID: "p-1", Name: "Drill", Quantity: 1, Price: 129}}

	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(pgxmock.AnyArg(), "tenant-a", "ORD-1748772000000", "cust-1", "Jane", "jane@example.com",
			items, 129.0, StatusPending, PaymentPending, "web", (*string)(nil)).
		WillReturnRows(orderRows().AddRow(
			"o-1", "tenant-a", "ORD-1748772000000", "cust-1", "Jane", "jane@example.com",
			items, 129.0, StatusPending, PaymentPending, "web", nil, now, now,
		))

	repo := NewPostgresRepositoryWithDB(mock)
	repo.now = func() time.Time { return fixed }

	o, err := repo.Create(context.Background(), &CreateOrderRequest{
		TenantID:      "tenant-a",
		CustomerID:    "cust-1",
		CustomerName:  "Jane",
		CustomerEmail: "jane@example.com",
		Items:         items,
		TotalAmount:   129.0,
		Source:        "web",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !strings.HasPrefix(o.OrderNumber, "ORD-") {
		t.Errorf("OrderNumber = %q", o.OrderNumber)
	}
	if o.Status != StatusPending {
		t.Errorf("Status = %q", o.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	repo := NewPostgresRepositoryWithDB(nil)

	cases := []struct {
		name string
		req  CreateOrderRequest
		want error
	}{
		{"missing tenant", CreateOrderRequest{Items: []Item{{Quantity: 1}}}, ErrMissingTenantID},
		{"no items", CreateOrderRequest{TenantID: "t"}, ErrNoItems},
		{"zero quantity", CreateOrderRequest{TenantID: "t", Items: []Item{{Quantity: 0}}}, ErrInvalidQuantity},
		{"negative price", CreateOrderRequest{TenantID: "t", Items: []Item{{Quantity: 1, Price: -5}}}, ErrNegativePrice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.Create(context.Background(), &tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestListByCustomer_ScopedToTenant(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT .+ FROM orders\s+WHERE tenant_id = \$1 AND customer_id = \$2`).
		WithArgs("tenant-a", "cust-1").
		WillReturnRows(orderRows())

	repo := NewPostgresRepositoryWithDB(mock)
	result, err := repo.ListByCustomer(context.Background(), "tenant-a", "cust-1")
	if err != nil {
		t.Fatalf("ListByCustomer failed: %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("expected no orders, got %d", len(result))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdate_RejectsUnknownStatus(t *testing.T) {
	repo := NewPostgresRepositoryWithDB(nil)

	bad := "shipped-ish"
	_, err := repo.Update(context.Background(), "tenant-a", "o-1", &UpdateOrderRequest{Status: &bad})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
