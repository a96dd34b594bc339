package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/merchantry/commerce-ai-platform/pkg/logging"
)

// Escalation describes a conversation that needs human attention.
type Escalation struct {
	TenantID     string
	TenantName   string
	CustomerName string
	Message      string
	Intent       string
	Confidence   float64

	// Email overrides the service-wide escalation address when the tenant
	// configures its own operator inbox.
	Email string
}

// Service sends operator notifications.
type Service struct {
	email           EmailSender
	escalationEmail string
	logger          *logging.Logger
}

// NewService creates a notification service. A nil email sender disables
// delivery; calls become no-ops so the chat flow never depends on email.
func NewService(email EmailSender, escalationEmail string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:           email,
		escalationEmail: escalationEmail,
		logger:          logger,
	}
}

// NotifyEscalation emails back-office staff that a conversation was flagged
// for handoff. Best-effort: failures are logged, never propagated.
func (s *Service) NotifyEscalation(ctx context.Context, esc Escalation) {
	to := esc.Email
	if to == "" {
		to = s.escalationEmail
	}
	if s.email == nil || to == "" {
		s.logger.Debug("escalation email not configured, skipping", "tenant_id", esc.TenantID)
		return
	}

	tenant := esc.TenantName
	if tenant == "" {
		tenant = esc.TenantID
	}
	customer := esc.CustomerName
	if customer == "" {
		customer = "a customer"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "A conversation for %s needs human attention.\n\n", tenant)
	fmt.Fprintf(&body, "Customer: %s\n", customer)
	fmt.Fprintf(&body, "Intent: %s (confidence %.2f)\n\n", esc.Intent, esc.Confidence)
	fmt.Fprintf(&body, "Last message:\n%s\n", esc.Message)

	msg := EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("Conversation escalated: %s", tenant),
		Body:    body.String(),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Warn("failed to send escalation email", "tenant_id", esc.TenantID, "error", err)
	}
}
