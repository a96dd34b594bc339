package ai

import "errors"

var (
	// ErrCapabilityUnavailable wraps LLM failures that were recovered with a
	// degraded result. Callers can detect degradation without losing the result.
	ErrCapabilityUnavailable = errors.New("language model capability unavailable")
	// ErrInsufficientProducts is returned when a comparison is requested with
	// fewer than two products.
	ErrInsufficientProducts = errors.New("at least 2 products are required to compare")
	// ErrQuoteGeneration is returned when quote content generation fails.
	// There is no safe fallback for quote documents.
	ErrQuoteGeneration = errors.New("failed to generate quote content")
)
