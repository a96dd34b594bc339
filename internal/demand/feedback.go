package demand

import (
	"context"

	"github.com/merchantry/commerce-ai-platform/pkg/logging"
)

// Feedback turns assistant search outcomes into demand signals. Recording
// is best-effort: a failed write is logged and never surfaced to callers.
type Feedback struct {
	repo   Repository
	logger *logging.Logger
}

// NewFeedback creates a demand feedback recorder.
func NewFeedback(repo Repository, logger *logging.Logger) *Feedback {
	return &Feedback{repo: repo, logger: logger}
}

// Observe records a no-results demand signal when a search intent produced
// no product suggestions. Other intents and satisfied searches are ignored.
func (f *Feedback) Observe(ctx context.Context, tenantID, intent, query, category string, suggestedProducts []string) {
	if intent != "search" || len(suggestedProducts) > 0 {
		return
	}

	_, err := f.repo.Track(ctx, &TrackRequest{
		TenantID:  tenantID,
		Query:     query,
		Category:  category,
		NoResults: true,
	})
	if err != nil {
		f.logger.Warn("failed to record demand signal", "tenant_id", tenantID, "query", query, "error", err)
	}
}
