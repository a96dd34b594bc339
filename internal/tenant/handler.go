package tenant

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/merchantry/commerce-ai-platform/pkg/logging"
)

// Handler handles HTTP requests for tenant administration.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new tenant handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /api/tenants. A slug query parameter looks up a single
// tenant instead.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if slug := r.URL.Query().Get("slug"); slug != "" {
		t, err := h.repo.GetBySlug(r.Context(), slug)
		if err != nil {
			if errors.Is(err, ErrTenantNotFound) {
				http.Error(w, "tenant not found", http.StatusNotFound)
				return
			}
			h.logger.Error("failed to fetch tenant by slug", "error", err, "slug", slug)
			http.Error(w, "failed to fetch tenant", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, t)
		return
	}

	tenants, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list tenants", "error", err)
		http.Error(w, "failed to fetch tenants", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tenants)
}

// Create handles POST /api/tenants
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	t, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidName) || errors.Is(err, ErrInvalidSlug) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to create tenant", "error", err)
		http.Error(w, "failed to create tenant", http.StatusInternalServerError)
		return
	}

	h.logger.Info("tenant created", "id", t.ID, "slug", t.Slug)
	writeJSON(w, http.StatusCreated, t)
}

// Get handles GET /api/tenants/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	t, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			http.Error(w, "tenant not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to fetch tenant", "error", err, "id", id)
		http.Error(w, "failed to fetch tenant", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Update handles PUT /api/tenants/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	t, err := h.repo.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			http.Error(w, "tenant not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to update tenant", "error", err, "id", id)
		http.Error(w, "failed to update tenant", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
