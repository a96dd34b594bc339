package documents

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/merchantry/commerce-ai-platform/internal/ai"
	"github.com/merchantry/commerce-ai-platform/internal/catalog"
	"github.com/merchantry/commerce-ai-platform/internal/tenancy"
	"github.com/merchantry/commerce-ai-platform/internal/tenant"
	"github.com/merchantry/commerce-ai-platform/pkg/logging"
)

type tenantGetter interface {
	GetByID(ctx context.Context, id string) (*tenant.Tenant, error)
}

type productGetter interface {
	GetProduct(ctx context.Context, tenantID, id string) (*catalog.Product, error)
}

type quoteGenerator interface {
	GenerateQuoteContent(ctx context.Context, customer ai.QuoteCustomer, items []ai.QuoteLineItem, tenantName string) (map[string]any, error)
}

// Handler serves document generation endpoints.
type Handler struct {
	repo      Repository
	tenants   tenantGetter
	products  productGetter
	generator quoteGenerator
	logger    *logging.Logger
}

// NewHandler creates a documents handler.
func NewHandler(repo Repository, tenants tenantGetter, products productGetter, generator quoteGenerator, logger *logging.Logger) *Handler {
	return &Handler{
		repo:      repo,
		tenants:   tenants,
		products:  products,
		generator: generator,
		logger:    logger,
	}
}

// List returns the tenant's documents, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tenantId is required"})
		return
	}

	docs, err := h.repo.ListByTenant(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("failed to list documents", "tenant_id", tenantID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch documents"})
		return
	}
	if docs == nil {
		docs = []*Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// Get returns one document by id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tenantId is required"})
		return
	}

	d, err := h.repo.GetByID(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "document not found"})
			return
		}
		h.logger.Error("failed to get document", "tenant_id", tenantID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch document"})
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// GenerateQuote builds an AI-written quote document and stores it.
// Quote generation has no fallback: an AI failure is a server error.
func (h *Handler) GenerateQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if tenantID, ok := tenancy.TenantIDFromContext(r.Context()); ok {
		req.TenantID = tenantID
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	t, err := h.tenants.GetByID(r.Context(), req.TenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "tenant not found"})
			return
		}
		h.logger.Error("failed to load tenant for quote", "tenant_id", req.TenantID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate quote"})
		return
	}

	lineItems := make([]ai.QuoteLineItem, 0, len(req.Items))
	for _, item := range req.Items {
		p, err := h.products.GetProduct(r.Context(), req.TenantID, item.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown product in quote items"})
				return
			}
			h.logger.Error("failed to load quote product", "tenant_id", req.TenantID, "product_id", item.ProductID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate quote"})
			return
		}
		price := item.Price
		if price == 0 {
			price = p.Price
		}
		lineItems = append(lineItems, ai.QuoteLineItem{Product: p, Quantity: item.Quantity, Price: price})
	}

	content, err := h.generator.GenerateQuoteContent(r.Context(),
		ai.QuoteCustomer{Name: req.CustomerName, Email: req.CustomerEmail},
		lineItems, t.Name)
	if err != nil {
		h.logger.Error("quote content generation failed", "tenant_id", req.TenantID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate quote"})
		return
	}

	doc, err := h.repo.Create(r.Context(), &Document{
		TenantID: req.TenantID,
		Type:     TypeQuote,
		Content:  content,
		Status:   StatusGenerated,
	})
	if err != nil {
		h.logger.Error("failed to store quote document", "tenant_id", req.TenantID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate quote"})
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
