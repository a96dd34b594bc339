package catalog

import "errors"

var (
	// ErrMissingTenantID is returned when the tenant id is absent
	ErrMissingTenantID = errors.New("tenant id is required")

	// ErrInvalidSKU is returned when the SKU is missing
	ErrInvalidSKU = errors.New("sku is required")

	// ErrInvalidName is returned when the product name is missing
	ErrInvalidName = errors.New("product name is required")

	// ErrNegativePrice is returned when the price is below zero
	ErrNegativePrice = errors.New("price must be non-negative")

	// ErrProductNotFound is returned when a product is not found
	ErrProductNotFound = errors.New("product not found")

	// ErrInventoryNotFound is returned when an inventory row is not found
	ErrInventoryNotFound = errors.New("inventory not found")
)
