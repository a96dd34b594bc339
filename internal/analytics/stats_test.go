package analytics

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
)

func TestGetStats_PlatformWide(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tenants WHERE is_active = true`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM conversations`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(10)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM conversations WHERE handoff_requested = true`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\) FROM orders`).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(1250.50))

	repo := NewStatsRepositoryWithDB(mock)
	stats, err := repo.GetStats(context.Background(), "")
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.ActiveTenants != 3 {
		t.Errorf("ActiveTenants = %d, want 3", stats.ActiveTenants)
	}
	if stats.AIAccuracy != 80.0 {
		t.Errorf("AIAccuracy = %v, want 80.0", stats.AIAccuracy)
	}
	if stats.TotalRevenue != 1250.50 {
		t.Errorf("TotalRevenue = %v", stats.TotalRevenue)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetStats_TenantScoped(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM conversations WHERE tenant_id = \$1`).
		WithArgs("tenant-a").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(`handoff_requested = true`).
		WithArgs("tenant-a").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(`FROM orders WHERE tenant_id = \$1`).
		WithArgs("tenant-a").
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(0.0))

	repo := NewStatsRepositoryWithDB(mock)
	stats, err := repo.GetStats(context.Background(), "tenant-a")
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.ActiveTenants != 1 {
		t.Errorf("ActiveTenants = %d, want 1 under a tenant filter", stats.ActiveTenants)
	}
	if stats.AIAccuracy != defaultAIAccuracy {
		t.Errorf("AIAccuracy = %v, want the %v default with zero conversations", stats.AIAccuracy, defaultAIAccuracy)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAIAccuracy(t *testing.T) {
	cases := []struct {
		name      string
		total     int64
		escalated int64
		want      float64
	}{
		{"zero conversations uses default", 0, 0, defaultAIAccuracy},
		{"two of ten escalated", 10, 2, 80.0},
		{"all escalated", 4, 4, 0.0},
		{"none escalated", 5, 0, 100.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := aiAccuracy(tc.total, tc.escalated); got != tc.want {
				t.Errorf("aiAccuracy(%d, %d) = %v, want %v", tc.total, tc.escalated, got, tc.want)
			}
		})
	}
}

func TestGetTenantActivity_Thresholds(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "name", "conversations", "orders", "revenue"}).
		AddRow("t-1", "Busy Co", int64(150), int64(40), 9000.0).
		AddRow("t-2", "Middling Co", int64(60), int64(10), 1200.0).
		AddRow("t-3", "Quiet Co", int64(5), int64(1), 99.0)

	mock.ExpectQuery(`FROM tenants t\s+ORDER BY t.created_at DESC\s+LIMIT 5`).
		WillReturnRows(rows)

	repo := NewStatsRepositoryWithDB(mock)
	activity, err := repo.GetTenantActivity(context.Background())
	if err != nil {
		t.Fatalf("GetTenantActivity failed: %v", err)
	}
	if len(activity) != 3 {
		t.Fatalf("got %d tenants, want 3", len(activity))
	}
	want := []string{"active", "moderate", "low"}
	for i, a := range activity {
		if a.Status != want[i] {
			t.Errorf("tenant %s status = %q, want %q", a.TenantID, a.Status, want[i])
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
