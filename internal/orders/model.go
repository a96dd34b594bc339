package orders

import (
	"strings"
	"time"
)

// Order status lifecycle.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Payment status values.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Item is a single order line.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order is a tenant-owned purchase, optionally linked to the conversation
// that produced it.
type Order struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"tenantId"`
	OrderNumber    string    `json:"orderNumber"`
	CustomerID     string    `json:"customerId,omitempty"`
	CustomerName   string    `json:"customerName,omitempty"`
	CustomerEmail  string    `json:"customerEmail,omitempty"`
	Items          []Item    `json:"items"`
	TotalAmount    float64   `json:"totalAmount"`
	Status         string    `json:"status"`
	PaymentStatus  string    `json:"paymentStatus"`
	Source         string    `json:"source,omitempty"`
	ConversationID *string   `json:"conversationId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CreateOrderRequest is the payload for placing an order. The order number
// is generated server-side.
type CreateOrderRequest struct {
	TenantID       string  `json:"tenantId"`
	CustomerID     string  `json:"customerId"`
	CustomerName   string  `json:"customerName"`
	CustomerEmail  string  `json:"customerEmail"`
	Items          []Item  `json:"items"`
	TotalAmount    float64 `json:"totalAmount"`
	Source         string  `json:"source"`
	ConversationID *string `json:"conversationId"`
}

// Validate validates the create order request
func (r *CreateOrderRequest) Validate() error {
	if strings.TrimSpace(r.TenantID) == "" {
		return ErrMissingTenantID
	}
	if len(r.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range r.Items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if item.Price < 0 {
			return ErrNegativePrice
		}
	}
	if r.TotalAmount < 0 {
		return ErrNegativePrice
	}
	return nil
}

// UpdateOrderRequest carries partial updates; nil fields are left unchanged.
type UpdateOrderRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"paymentStatus"`
}

// Validate rejects unknown status transitions.
func (r *UpdateOrderRequest) Validate() error {
	if r.Status != nil {
		switch *r.Status {
		case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		default:
			return ErrInvalidStatus
		}
	}
	if r.PaymentStatus != nil {
		switch *r.PaymentStatus {
		case PaymentPending, PaymentPaid, PaymentFailed:
		default:
			return ErrInvalidStatus
		}
	}
	return nil
}
