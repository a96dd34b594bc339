package chat

import "errors"

var (
	// ErrMissingTenantID is returned when a chat request has no tenant.
	ErrMissingTenantID = errors.New("tenant id is required")
	// ErrEmptyMessage is returned when a chat request has no message text.
	ErrEmptyMessage = errors.New("message is required")
	// ErrTenantNotFound is returned when the tenant does not exist.
	ErrTenantNotFound = errors.New("tenant not found")
)
