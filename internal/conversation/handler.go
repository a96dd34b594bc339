package conversation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/merchantry/commerce-ai-platform/internal/tenancy"
	"github.com/merchantry/commerce-ai-platform/pkg/logging"
)

// Handler serves conversation endpoints.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a conversation handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List returns all conversations for the tenant, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tenantId is required"})
		return
	}

	conversations, err := h.repo.ListByTenant(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("failed to list conversations", "tenant_id", tenantID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch conversations"})
		return
	}
	if conversations == nil {
		conversations = []*Conversation{}
	}
	writeJSON(w, http.StatusOK, conversations)
}

// Get returns a single conversation by id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tenantId is required"})
		return
	}

	c, err := h.repo.GetByID(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrConversationNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "conversation not found"})
			return
		}
		h.logger.Error("failed to get conversation", "tenant_id", tenantID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch conversation"})
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Create stores a conversation record.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if tenantID, ok := tenancy.TenantIDFromContext(r.Context()); ok {
		req.TenantID = tenantID
	}

	c, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		if isValidationErr(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		h.logger.Error("failed to create conversation", "tenant_id", req.TenantID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create conversation"})
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func isValidationErr(err error) bool {
	return errors.Is(err, ErrMissingTenantID) ||
		errors.Is(err, ErrNoMessages) ||
		errors.Is(err, ErrInvalidStatus)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
