package tenant

import "errors"

var (
	// ErrInvalidName is returned when the tenant name is missing
	ErrInvalidName = errors.New("tenant name is required")

	// ErrInvalidSlug is returned when the slug is missing or malformed
	ErrInvalidSlug = errors.New("tenant slug is required and must not contain spaces or slashes")

	// ErrTenantNotFound is returned when a tenant is not found
	ErrTenantNotFound = errors.New("tenant not found")
)
