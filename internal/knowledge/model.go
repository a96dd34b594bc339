package knowledge

import (
	"strings"
	"time"
)

// Entry is a tenant-owned knowledge base article. The embedding is stored for
// future semantic retrieval; the classifier currently consumes the raw text.
type Entry struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category,omitempty"`
	Tags      []string  `json:"tags"`
	IsPublic  bool      `json:"isPublic"`
	Embedding []float64 `json:"embedding,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateEntryRequest is the payload for adding a knowledge base entry.
type CreateEntryRequest struct {
	TenantID  string    `json:"tenantId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	IsPublic  bool      `json:"isPublic"`
	Embedding []float64 `json:"embedding"`
}

// Validate validates the create entry request
func (r *CreateEntryRequest) Validate() error {
	if strings.TrimSpace(r.TenantID) == "" {
		return ErrMissingTenantID
	}
	if strings.TrimSpace(r.Title) == "" {
		return ErrInvalidTitle
	}
	if strings.TrimSpace(r.Content) == "" {
		return ErrInvalidContent
	}
	return nil
}

// UpdateEntryRequest carries partial updates; nil fields are left unchanged.
type UpdateEntryRequest struct {
	Title     *string   `json:"title"`
	Content   *string   `json:"content"`
	Category  *string   `json:"category"`
	Tags      []string  `json:"tags"`
	IsPublic  *bool     `json:"isPublic"`
	Embedding []float64 `json:"embedding"`
}
