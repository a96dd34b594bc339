package knowledge

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/merchantry/commerce-ai-platform/internal/tenancy"
	"github.com/merchantry/commerce-ai-platform/pkg/logging"
)

// Handler handles HTTP requests for the knowledge base.
type Handler struct {
	repo       Repository
	invalidate func(tenantID string)
	logger     *logging.Logger
}

// NewHandler creates a new knowledge base handler. invalidate may be nil.
func NewHandler(repo Repository, invalidate func(tenantID string), logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, invalidate: invalidate, logger: logger}
}

// List handles GET /api/knowledge-base?tenantId=&search=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "tenant id required", http.StatusBadRequest)
		return
	}

	var (
		entries []*Entry
		err     error
	)
	if search := r.URL.Query().Get("search"); search != "" {
		entries, err = h.repo.Search(r.Context(), tenantID, search)
	} else {
		entries, err = h.repo.ListByTenant(r.Context(), tenantID)
	}
	if err != nil {
		h.logger.Error("failed to list knowledge base", "error", err, "tenant_id", tenantID)
		http.Error(w, "failed to fetch knowledge base", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []*Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// Create handles POST /api/knowledge-base
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if tenantID, ok := tenancy.TenantIDFromContext(r.Context()); ok && req.TenantID == "" {
		req.TenantID = tenantID
	}

	e, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrMissingTenantID) || errors.Is(err, ErrInvalidTitle) || errors.Is(err, ErrInvalidContent) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to create knowledge entry", "error", err)
		http.Error(w, "failed to create knowledge entry", http.StatusInternalServerError)
		return
	}

	h.logger.Info("knowledge entry created", "id", e.ID, "tenant_id", e.TenantID)
	if h.invalidate != nil {
		h.invalidate(e.TenantID)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(e)
}
