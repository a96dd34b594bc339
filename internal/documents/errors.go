package documents

import "errors"

var (
	// ErrDocumentNotFound is returned when a document does not exist for the tenant.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrMissingTenantID is returned when a quote request has no tenant.
	ErrMissingTenantID = errors.New("tenant id is required")
	// ErrNoItems is returned when a quote is requested with no line items.
	ErrNoItems = errors.New("at least one item is required")
	// ErrInvalidQuantity is returned for a non-positive line item quantity.
	ErrInvalidQuantity = errors.New("item quantity must be positive")
)
