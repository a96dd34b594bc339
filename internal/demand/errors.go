package demand

import "errors"

var (
	// ErrMissingTenantID is returned when a track request has no tenant.
	ErrMissingTenantID = errors.New("tenant id is required")
	// ErrEmptyQuery is returned when a track request has no query text.
	ErrEmptyQuery = errors.New("query is required")
)
