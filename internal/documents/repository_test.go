package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func documentRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "tenant_id", "order_id", "type", "document_number",
		"content", "file_path", "status", "created_at",
	})
}

func TestNumberFor(t *testing.T) {
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		docType string
		want    string
	}{
		{TypeQuote, "QT-1748772000000"},
		{TypeInvoice, "INV-1748772000000"},
		{TypeReceipt, "RCT-1748772000000"},
		{"other", "DOC-1748772000000"},
	}
	for _, tc := range cases {
		if got := NumberFor(tc.docType, at); got != tc.want {
			t.Errorf("NumberFor(%q) = %q, want %q", tc.docType, got, tc.want)
		}
	}
}

func TestCreate_AssignsQuoteNumber(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	fixed := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	content := map[string]any{"terms": "Net 30"}

	mock.ExpectQuery(`INSERT INTO documents`).
		WithArgs(pgxmock.AnyArg(), "tenant-a", (*string)(nil), TypeQuote, "QT-1748772000000",
			content, "", StatusGenerated).
		WillReturnRows(documentRows().AddRow(
			"d-1", "tenant-a", nil, TypeQuote, "QT-1748772000000",
			content, nil, StatusGenerated, fixed,
		))

	repo := NewPostgresRepositoryWithDB(mock)
	repo.now = func() time.Time { return fixed }

	doc, err := repo.Create(context.Background(), &Document{
		TenantID: "tenant-a",
		Type:     TypeQuote,
		Content:  content,
		Status:   StatusGenerated,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if doc.DocumentNumber != "QT-1748772000000" {
		t.Errorf("DocumentNumber = %q", doc.DocumentNumber)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreate_RequiresTenant(t *testing.T) {
	repo := NewPostgresRepositoryWithDB(nil)

	_, err := repo.Create(context.Background(), &Document{Type: TypeQuote})
	if !errors.Is(err, ErrMissingTenantID) {
		t.Fatalf("err = %v, want ErrMissingTenantID", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT .+ FROM documents WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs("tenant-a", "missing").
		WillReturnRows(documentRows())

	repo := NewPostgresRepositoryWithDB(mock)
	_, err = repo.GetByID(context.Background(), "tenant-a", "missing")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("err = %v, want ErrDocumentNotFound", err)
	}
}
