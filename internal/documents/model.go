package documents

import "time"

// Document types and statuses.
const (
	TypeQuote   = "quote"
	TypeInvoice = "invoice"
	TypeReceipt = "receipt"

	StatusDraft     = "draft"
	StatusGenerated = "generated"
	StatusSent      = "sent"
)

// Document is a generated commercial document (quote, invoice, receipt).
type Document struct {
	ID             string         `json:"id"`
	TenantID       string         `json:"tenantId"`
	OrderID        *string        `json:"orderId,omitempty"`
	Type           string         `json:"type"`
	DocumentNumber string         `json:"documentNumber"`
	Content        map[string]any `json:"content"`
	FilePath       string         `json:"filePath,omitempty"`
	Status         string         `json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// QuoteItem is one requested line on a quote.
type QuoteItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// QuoteRequest asks for an AI-generated quote document.
type QuoteRequest struct {
	TenantID      string      `json:"tenantId"`
	CustomerID    string      `json:"customerId,omitempty"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail,omitempty"`
	Items         []QuoteItem `json:"items"`
}

// Validate checks required quote fields.
func (r *QuoteRequest) Validate() error {
	if r.TenantID == "" {
		return ErrMissingTenantID
	}
	if len(r.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range r.Items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}
