package conversation

import "time"

// Conversation statuses.
const (
	StatusActive    = "active"
	StatusClosed    = "closed"
	StatusEscalated = "escalated"
)

// Channels a conversation can arrive on.
const (
	ChannelWeb      = "web"
	ChannelTelegram = "telegram"
	ChannelWhatsApp = "whatsapp"
)

// MessageTurn is a single message in a conversation transcript, stored as
// part of the jsonb messages column.
type MessageTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is one customer interaction with the assistant, including
// the full transcript and the classification outcome of the latest turn.
type Conversation struct {
	ID               string        `json:"id"`
	TenantID         string        `json:"tenantId"`
	CustomerID       string        `json:"customerId,omitempty"`
	CustomerName     string        `json:"customerName,omitempty"`
	Channel          string        `json:"channel"`
	Messages         []MessageTurn `json:"messages"`
	Intent           string        `json:"intent,omitempty"`
	Confidence       float64       `json:"confidence"`
	Status           string        `json:"status"`
	HandoffRequested bool          `json:"handoffRequested"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// CreateConversationRequest carries the fields for a new conversation record.
type CreateConversationRequest struct {
	TenantID         string        `json:"tenantId"`
	CustomerID       string        `json:"customerId"`
	CustomerName     string        `json:"customerName"`
	Channel          string        `json:"channel"`
	Messages         []MessageTurn `json:"messages"`
	Intent           string        `json:"intent"`
	Confidence       float64       `json:"confidence"`
	Status           string        `json:"status"`
	HandoffRequested bool          `json:"handoffRequested"`
}

// Validate checks required fields and defaults the status and channel.
func (r *CreateConversationRequest) Validate() error {
	if r.TenantID == "" {
		return ErrMissingTenantID
	}
	if len(r.Messages) == 0 {
		return ErrNoMessages
	}
	if r.Status == "" {
		r.Status = StatusActive
	}
	switch r.Status {
	case StatusActive, StatusClosed, StatusEscalated:
	default:
		return ErrInvalidStatus
	}
	if r.Channel == "" {
		r.Channel = ChannelWeb
	}
	switch r.Channel {
	case ChannelWeb, ChannelTelegram, ChannelWhatsApp:
	default:
		return ErrInvalidChannel
	}
	return nil
}
