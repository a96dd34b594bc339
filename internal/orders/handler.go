package orders

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/merchantry/commerce-ai-platform/internal/tenancy"
	"github.com/merchantry/commerce-ai-platform/pkg/logging"
)

// Handler handles HTTP requests for orders.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new orders handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /api/orders?tenantId=&customerId=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "tenant id required", http.StatusBadRequest)
		return
	}

	var (
		result []*Order
		err    error
	)
	if customerID := r.URL.Query().Get("customerId"); customerID != "" {
		result, err = h.repo.ListByCustomer(r.Context(), tenantID, customerID)
	} else {
		result, err = h.repo.ListByTenant(r.Context(), tenantID)
	}
	if err != nil {
		h.logger.Error("failed to list orders", "error", err, "tenant_id", tenantID)
		http.Error(w, "failed to fetch orders", http.StatusInternalServerError)
		return
	}
	if result == nil {
		result = []*Order{}
	}
	writeJSON(w, http.StatusOK, result)
}

// Create handles POST /api/orders
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if tenantID, ok := tenancy.TenantIDFromContext(r.Context()); ok && req.TenantID == "" {
		req.TenantID = tenantID
	}

	o, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		if isValidationErr(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to create order", "error", err)
		http.Error(w, "failed to create order", http.StatusInternalServerError)
		return
	}

	h.logger.Info("order created", "id", o.ID, "tenant_id", o.TenantID, "order_number", o.OrderNumber)
	writeJSON(w, http.StatusCreated, o)
}

// Get handles GET /api/orders/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "tenant id required", http.StatusBadRequest)
		return
	}

	o, err := h.repo.GetByID(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to fetch order", "error", err)
		http.Error(w, "failed to fetch order", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// Update handles PUT /api/orders/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "tenant id required", http.StatusBadRequest)
		return
	}

	var req UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	o, err := h.repo.Update(r.Context(), tenantID, chi.URLParam(r, "id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			http.Error(w, "order not found", http.StatusNotFound)
		case errors.Is(err, ErrInvalidStatus):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("failed to update order", "error", err)
			http.Error(w, "failed to update order", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func isValidationErr(err error) bool {
	return errors.Is(err, ErrMissingTenantID) ||
		errors.Is(err, ErrNoItems) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrNegativePrice)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
