package router

import (
	"net/http"
	"strings"

	"github.com/merchantry/commerce-ai-platform/internal/tenancy"
)

const tenantHeader = "X-Tenant-Id"

// extractTenantID resolves the tenant for API requests from the tenantId
// query parameter or the X-Tenant-Id header. The query parameter wins when
// both are present. Requests without a tenant pass through unchanged so
// handlers that accept the tenant in the body (chat) or serve platform-wide
// views (analytics) keep working; tenant-scoped handlers reject the request
// themselves.
func extractTenantID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := strings.TrimSpace(r.URL.Query().Get("tenantId"))
		if tenantID == "" {
			tenantID = strings.TrimSpace(r.Header.Get(tenantHeader))
		}
		if tenantID == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := tenancy.WithTenantID(r.Context(), tenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
