package analytics

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/merchantry/commerce-ai-platform/internal/demand"
	"github.com/merchantry/commerce-ai-platform/pkg/logging"
)

type demandLister interface {
	ListByTenant(ctx context.Context, tenantID string, limit int) ([]*demand.Record, error)
}

type demandSummarizer interface {
	SummarizeDemand(ctx context.Context, records []*demand.Record) string
}

// Handler serves analytics endpoints for the back-office dashboard.
type Handler struct {
	stats      *StatsRepository
	demand     demandLister
	summarizer demandSummarizer
	logger     *logging.Logger
}

// NewHandler creates an analytics handler. The summarizer is optional.
func NewHandler(stats *StatsRepository, demand demandLister, summarizer demandSummarizer, logger *logging.Logger) *Handler {
	return &Handler{stats: stats, demand: demand, summarizer: summarizer, logger: logger}
}

// Stats returns platform metrics, scoped to one tenant when tenantId is given.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenantId")

	stats, err := h.stats.GetStats(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("failed to aggregate stats", "tenant_id", tenantID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch analytics"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// TenantActivity returns volume summaries for recent tenants.
func (h *Handler) TenantActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := h.stats.GetTenantActivity(r.Context())
	if err != nil {
		h.logger.Error("failed to aggregate tenant activity", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch tenant activity"})
		return
	}
	if activity == nil {
		activity = []*TenantActivity{}
	}
	writeJSON(w, http.StatusOK, activity)
}

// DemandTracking returns the tenant's top demand signals plus an AI summary.
func (h *Handler) DemandTracking(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenantId")
	if tenantID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tenantId is required"})
		return
	}

	records, err := h.demand.ListByTenant(r.Context(), tenantID, 10)
	if err != nil {
		h.logger.Error("failed to fetch demand records", "tenant_id", tenantID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch demand data"})
		return
	}
	if records == nil {
		records = []*demand.Record{}
	}

	resp := map[string]any{"records": records}
	if h.summarizer != nil && len(records) > 0 {
		resp["summary"] = h.summarizer.SummarizeDemand(r.Context(), records)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
