package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/merchantry/commerce-ai-platform/internal/tenancy"
	"github.com/merchantry/commerce-ai-platform/pkg/logging"
)

// Handler handles HTTP requests for the product catalog.
type Handler struct {
	repo       Repository
	invalidate func(tenantID string)
	logger     *logging.Logger
}

// NewHandler creates a new catalog handler. invalidate may be nil; when set
// it is called after any catalog write so cached AI context is refreshed.
func NewHandler(repo Repository, invalidate func(tenantID string), logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, invalidate: invalidate, logger: logger}
}

// ListProducts handles GET /api/products?tenantId=&search=
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "tenant id required", http.StatusBadRequest)
		return
	}

	var (
		products []*Product
		err      error
	)
	if search := r.URL.Query().Get("search"); search != "" {
		products, err = h.repo.SearchProducts(r.Context(), tenantID, search)
	} else {
		products, err = h.repo.ListProducts(r.Context(), tenantID)
	}
	if err != nil {
		h.logger.Error("failed to list products", "error", err, "tenant_id", tenantID)
		http.Error(w, "failed to fetch products", http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []*Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// CreateProduct handles POST /api/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if tenantID, ok := tenancy.TenantIDFromContext(r.Context()); ok && req.TenantID == "" {
		req.TenantID = tenantID
	}

	p, err := h.repo.CreateProduct(r.Context(), &req)
	if err != nil {
		if isValidationErr(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to create product", "error", err)
		http.Error(w, "failed to create product", http.StatusInternalServerError)
		return
	}

	h.logger.Info("product created", "id", p.ID, "tenant_id", p.TenantID, "sku", p.SKU)
	h.invalidateContext(p.TenantID)
	writeJSON(w, http.StatusCreated, p)
}

// GetProduct handles GET /api/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "tenant id required", http.StatusBadRequest)
		return
	}

	p, err := h.repo.GetProduct(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to fetch product", "error", err)
		http.Error(w, "failed to fetch product", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateProduct handles PUT /api/products/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "tenant id required", http.StatusBadRequest)
		return
	}

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.repo.UpdateProduct(r.Context(), tenantID, chi.URLParam(r, "id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrProductNotFound):
			http.Error(w, "product not found", http.StatusNotFound)
		case isValidationErr(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("failed to update product", "error", err)
			http.Error(w, "failed to update product", http.StatusInternalServerError)
		}
		return
	}

	h.invalidateContext(tenantID)
	writeJSON(w, http.StatusOK, p)
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "tenant id required", http.StatusBadRequest)
		return
	}

	deleted, err := h.repo.DeleteProduct(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("failed to delete product", "error", err)
		http.Error(w, "failed to delete product", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	h.invalidateContext(tenantID)
	w.WriteHeader(http.StatusNoContent)
}

// ListInventory handles GET /api/inventory?tenantId=
func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "tenant id required", http.StatusBadRequest)
		return
	}

	records, err := h.repo.ListInventory(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("failed to list inventory", "error", err, "tenant_id", tenantID)
		http.Error(w, "failed to fetch inventory", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*Inventory{}
	}
	writeJSON(w, http.StatusOK, records)
}

// UpdateInventory handles PUT /api/inventory/{productId}
func (h *Handler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "tenant id required", http.StatusBadRequest)
		return
	}

	var req UpdateInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	inv, err := h.repo.UpdateInventory(r.Context(), tenantID, chi.URLParam(r, "productId"), &req)
	if err != nil {
		if errors.Is(err, ErrInventoryNotFound) {
			http.Error(w, "inventory not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to update inventory", "error", err)
		http.Error(w, "failed to update inventory", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *Handler) invalidateContext(tenantID string) {
	if h.invalidate != nil {
		h.invalidate(tenantID)
	}
}

func isValidationErr(err error) bool {
	return errors.Is(err, ErrMissingTenantID) ||
		errors.Is(err, ErrInvalidSKU) ||
		errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrNegativePrice)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
