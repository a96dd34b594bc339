package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func conversationRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "tenant_id", "customer_id", "customer_name", "channel", "messages",
		"intent", "confidence", "status", "handoff_requested", "created_at", "updated_at",
	})
}

func TestCreate_DefaultsStatusActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	turns := []MessageTurn{
		{Role: "user", Content: "do you carry cordless drills?", Timestamp: now},
		{Role: "assistant", Content: "Yes, we have three models in stock.", Timestamp: now},
	}

	mock.ExpectQuery(`INSERT INTO conversations`).
		WithArgs(pgxmock.AnyArg(), "tenant-a", "cust-1", "Jane", ChannelWeb, turns,
			"search", 0.92, StatusActive, false).
		WillReturnRows(conversationRows().AddRow(
			"c-1", "tenant-a", "cust-1", "Jane", ChannelWeb, turns,
			"search", 0.92, StatusActive, false, now, now,
		))

	repo := NewPostgresRepositoryWithDB(mock)
	c, err := repo.Create(context.Background(), &CreateConversationRequest{
		TenantID:     "tenant-a",
		CustomerID:   "cust-1",
		CustomerName: "Jane",
		Messages:     turns,
		Intent:       "search",
		Confidence:   0.92,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c.Status != StatusActive {
		t.Errorf("Status = %q, want %q", c.Status, StatusActive)
	}
	if c.Channel != ChannelWeb {
		t.Errorf("Channel = %q, want %q", c.Channel, ChannelWeb)
	}
	if len(c.Messages) != 2 {
		t.Errorf("Messages len = %d, want 2", len(c.Messages))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	repo := NewPostgresRepositoryWithDB(nil)

	cases := []struct {
		name string
		req  CreateConversationRequest
		want error
	}{
		{"missing tenant", CreateConversationRequest{Messages: []MessageTurn{{Role: "user"}}}, ErrMissingTenantID},
		{"empty transcript", CreateConversationRequest{TenantID: "t"}, ErrNoMessages},
		{"bad status", CreateConversationRequest{TenantID: "t", Messages: []MessageTurn{{Role: "user"}}, Status: "parked"}, ErrInvalidStatus},
		{"bad channel", CreateConversationRequest{TenantID: "t", Messages: []MessageTurn{{Role: "user"}}, Channel: "fax"}, ErrInvalidChannel},
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

func TestGetByID_ScopedToTenant(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT .+ FROM conversations WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs("tenant-a", "c-1").
		WillReturnRows(conversationRows())

	repo := NewPostgresRepositoryWithDB(mock)
	_, err = repo.GetByID(context.Background(), "tenant-a", "c-1")
	if !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateStatus_RejectsUnknown(t *testing.T) {
	repo := NewPostgresRepositoryWithDB(nil)

	_, err := repo.UpdateStatus(context.Background(), "tenant-a", "c-1", "archived")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
