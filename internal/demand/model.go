package demand

import "time"

// Record is an aggregated count of customer searches for a query within a
// category, used to surface unmet demand to back-office staff.
type Record struct {
	ID               string    `json:"id"`
	TenantID         string    `json:"tenantId"`
	Query            string    `json:"query"`
	Category         string    `json:"category"`
	SearchCount      int       `json:"searchCount"`
	NoResultsCount   int       `json:"noResultsCount"`
	PotentialRevenue float64   `json:"potentialRevenue"`
	LastSearched     time.Time `json:"lastSearched"`
	CreatedAt        time.Time `json:"createdAt"`
}

// TrackRequest records one search event. NoResults marks searches the
// catalog could not satisfy.
type TrackRequest struct {
	TenantID  string `json:"tenantId"`
	Query     string `json:"query"`
	Category  string `json:"category"`
	NoResults bool   `json:"noResults"`
}

// Validate checks required fields and defaults the category.
func (r *TrackRequest) Validate() error {
	if r.TenantID == "" {
		return ErrMissingTenantID
	}
	if r.Query == "" {
		return ErrEmptyQuery
	}
	if r.Category == "" {
		r.Category = "general"
	}
	return nil
}
