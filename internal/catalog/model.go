package catalog

import (
	"strings"
	"time"
)

// Product is a catalog item owned by exactly one tenant.
type Product struct {
	ID             string         `json:"id"`
	TenantID       string         `json:"tenantId"`
	SKU            string         `json:"sku"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	Price          float64        `json:"price"`
	Category       string         `json:"category,omitempty"`
	Tags           []string       `json:"tags"`
	Specifications map[string]any `json:"specifications"`
	Images         []string       `json:"images"`
	IsActive       bool           `json:"isActive"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// Inventory tracks stock for a single product.
type Inventory struct {
	ID                string     `json:"id"`
	ProductID         string     `json:"productId"`
	QuantityAvailable int        `json:"quantityAvailable"`
	QuantityReserved  int        `json:"quantityReserved"`
	ReorderPoint      int        `json:"reorderPoint"`
	LastRestocked     *time.Time `json:"lastRestocked,omitempty"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// CreateProductRequest is the payload for adding a catalog item.
type CreateProductRequest struct {
	TenantID       string         `json:"tenantId"`
	SKU            string         `json:"sku"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Price          float64        `json:"price"`
	Category       string         `json:"category"`
	Tags           []string       `json:"tags"`
	Specifications map[string]any `json:"specifications"`
	Images         []string       `json:"images"`
}

// Validate validates the create product request
func (r *CreateProductRequest) Validate() error {
	if strings.TrimSpace(r.TenantID) == "" {
		return ErrMissingTenantID
	}
	if strings.TrimSpace(r.SKU) == "" {
		return ErrInvalidSKU
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if r.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// UpdateProductRequest carries partial updates; nil fields are left unchanged.
type UpdateProductRequest struct {
	Name           *string        `json:"name"`
	Description    *string        `json:"description"`
	Price          *float64       `json:"price"`
	Category       *string        `json:"category"`
	Tags           []string       `json:"tags"`
	Specifications map[string]any `json:"specifications"`
	Images         []string       `json:"images"`
	IsActive       *bool          `json:"isActive"`
}

// Validate rejects out-of-range partial updates.
func (r *UpdateProductRequest) Validate() error {
	if r.Price != nil && *r.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// UpdateInventoryRequest adjusts stock levels for a product.
type UpdateInventoryRequest struct {
	QuantityAvailable *int `json:"quantityAvailable"`
	QuantityReserved  *int `json:"quantityReserved"`
	ReorderPoint      *int `json:"reorderPoint"`
}
