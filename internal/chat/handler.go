package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/merchantry/commerce-ai-platform/internal/tenancy"
	"github.com/merchantry/commerce-ai-platform/pkg/logging"
)

// Handler serves the customer chat endpoint.
type Handler struct {
	pipeline *Pipeline
	logger   *logging.Logger
}

// NewHandler creates a chat handler.
func NewHandler(pipeline *Pipeline, logger *logging.Logger) *Handler {
	return &Handler{pipeline: pipeline, logger: logger}
}

// Chat classifies a customer message and returns the assistant's answer.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if tenantID, ok := tenancy.TenantIDFromContext(r.Context()); ok {
		req.TenantID = tenantID
	}

	resp, err := h.pipeline.Process(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingTenantID), errors.Is(err, ErrEmptyMessage):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, ErrTenantNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "tenant not found"})
		default:
			h.logger.Error("chat processing failed", "tenant_id", req.TenantID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to process message"})
		}
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
