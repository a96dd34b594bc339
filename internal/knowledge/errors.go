package knowledge

import "errors"

var (
	// ErrMissingTenantID is returned when the tenant id is absent
	ErrMissingTenantID = errors.New("tenant id is required")

	// ErrInvalidTitle is returned when the title is missing
	ErrInvalidTitle = errors.New("title is required")

	// ErrInvalidContent is returned when the content is missing
	ErrInvalidContent = errors.New("content is required")

	// ErrEntryNotFound is returned when an entry is not found
	ErrEntryNotFound = errors.New("knowledge base entry not found")
)
