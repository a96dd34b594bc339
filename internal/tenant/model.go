package tenant

import (
	"strings"
	"time"
)

// Tenant is an isolated customer organization, the unit of data partitioning
// across the platform. Tenants are soft-disabled via IsActive, never deleted.
type Tenant struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description,omitempty"`
	Industry    string         `json:"industry,omitempty"`
	Settings    map[string]any `json:"settings"`
	IsActive    bool           `json:"isActive"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// CreateTenantRequest is the payload for provisioning a new tenant.
type CreateTenantRequest struct {
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	Industry    string         `json:"industry"`
	Settings    map[string]any `json:"settings"`
}

// Validate validates the create tenant request
func (r *CreateTenantRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	slug := strings.TrimSpace(r.Slug)
	if slug == "" || strings.ContainsAny(slug, " /\\") {
		return ErrInvalidSlug
	}
	return nil
}

// UpdateTenantRequest carries partial updates; nil fields are left unchanged.
type UpdateTenantRequest struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Industry    *string        `json:"industry"`
	Settings    map[string]any `json:"settings"`
	IsActive    *bool          `json:"isActive"`
}
