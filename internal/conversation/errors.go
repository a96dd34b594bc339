package conversation

import "errors"

var (
	// ErrConversationNotFound is returned when a conversation does not exist for the tenant.
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrMissingTenantID is returned when a request has no tenant.
	ErrMissingTenantID = errors.New("tenant id is required")
	// ErrNoMessages is returned when a conversation is created with an empty transcript.
	ErrNoMessages = errors.New("at least one message is required")
	// ErrInvalidStatus is returned for a status outside the known set.
	ErrInvalidStatus = errors.New("invalid conversation status")
	// ErrInvalidChannel is returned for a channel outside the known set.
	ErrInvalidChannel = errors.New("invalid conversation channel")
)
