package orders

import "errors"

var (
	// ErrMissingTenantID is returned when the tenant id is absent
	ErrMissingTenantID = errors.New("tenant id is required")

	// ErrNoItems is returned when an order has no line items
	ErrNoItems = errors.New("order requires at least one item")

	// ErrInvalidQuantity is returned when a line quantity is not positive
	ErrInvalidQuantity = errors.New("item quantity must be positive")

	// ErrNegativePrice is returned when a price or total is below zero
	ErrNegativePrice = errors.New("amounts must be non-negative")

	// ErrInvalidStatus is returned for unknown status values
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrOrderNotFound is returned when an order is not found
	ErrOrderNotFound = errors.New("order not found")
)
