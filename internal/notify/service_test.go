package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/merchantry/commerce-ai-platform/pkg/logging"
)

type fakeSender struct {
	sent []EmailMessage
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg EmailMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestNotifyEscalation_SendsEmail(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, "ops@example.com", logging.New("error"))

	svc.NotifyEscalation(context.Background(), Escalation{
		TenantID:     "tenant-a",
		TenantName:   "Acme Supply",
		CustomerName: "Jane",
		Message:      "I need to talk to a person",
		Intent:       "handoff",
		Confidence:   0.95,
	})

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To != "ops@example.com" {
		t.Errorf("To = %q", msg.To)
	}
	if !strings.Contains(msg.Subject, "Acme Supply") {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "handoff") || !strings.Contains(msg.Body, "Jane") {
		t.Errorf("Body = %q", msg.Body)
	}
}

func TestNotifyEscalation_TenantAddressWins(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, "ops@example.com", logging.New("error"))

	svc.NotifyEscalation(context.Background(), Escalation{
		TenantID: "tenant-a",
		Message:  "help",
		Email:    "owner@acme.example.com",
	})

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}
	if sender.sent[0].To != "owner@acme.example.com" {
		t.Errorf("To = %q, want tenant override", sender.sent[0].To)
	}
}

func TestNotifyEscalation_NoSenderIsNoop(t *testing.T) {
	svc := NewService(nil, "ops@example.com", logging.New("error"))
	svc.NotifyEscalation(context.Background(), Escalation{TenantID: "tenant-a"})
}

func TestNotifyEscalation_SwallowsSendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("rate limited")}
	svc := NewService(sender, "ops@example.com", logging.New("error"))
	svc.NotifyEscalation(context.Background(), Escalation{TenantID: "tenant-a"})
}
