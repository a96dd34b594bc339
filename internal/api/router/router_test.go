package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/merchantry/commerce-ai-platform/internal/knowledge"
	"github.com/merchantry/commerce-ai-platform/internal/tenant"
	"github.com/merchantry/commerce-ai-platform/internal/tenancy"
	"github.com/merchantry/commerce-ai-platform/pkg/logging"
)

type fakeTenantRepo struct {
	tenants []*tenant.Tenant
}

func (f *fakeTenantRepo) GetByID(_ context.Context, id string) (*tenant.Tenant, error) {
	for _, t := range f.tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, tenant.ErrTenantNotFound
}

func (f *fakeTenantRepo) GetBySlug(_ context.Context, slug string) (*tenant.Tenant, error) {
	for _, t := range f.tenants {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, tenant.ErrTenantNotFound
}

func (f *fakeTenantRepo) List(_ context.Context) ([]*tenant.Tenant, error) {
	return f.tenants, nil
}

func (f *fakeTenantRepo) Create(_ context.Context, req *tenant.CreateTenantRequest) (*tenant.Tenant, error) {
	t := &tenant.Tenant{ID: "t-new", Name: req.Name, Slug: req.Slug, IsActive: true}
	f.tenants = append(f.tenants, t)
	return t, nil
}

func (f *fakeTenantRepo) Update(_ context.Context, id string, _ *tenant.UpdateTenantRequest) (*tenant.Tenant, error) {
	return f.GetByID(context.Background(), id)
}

type fakeKnowledgeRepo struct {
	lastTenantID string
}

func (f *fakeKnowledgeRepo) GetByID(_ context.Context, tenantID, id string) (*knowledge.Entry, error) {
	return nil, knowledge.ErrEntryNotFound
}

func (f *fakeKnowledgeRepo) ListByTenant(_ context.Context, tenantID string) ([]*knowledge.Entry, error) {
	f.lastTenantID = tenantID
	return []*knowledge.Entry{}, nil
}

func (f *fakeKnowledgeRepo) Search(_ context.Context, tenantID, _ string) ([]*knowledge.Entry, error) {
	f.lastTenantID = tenantID
	return []*knowledge.Entry{}, nil
}

func (f *fakeKnowledgeRepo) Create(_ context.Context, req *knowledge.CreateEntryRequest) (*knowledge.Entry, error) {
	return &knowledge.Entry{ID: "kb-new", TenantID: req.TenantID, Title: req.Title}, nil
}

func (f *fakeKnowledgeRepo) Update(_ context.Context, tenantID, id string, _ *knowledge.UpdateEntryRequest) (*knowledge.Entry, error) {
	return nil, knowledge.ErrEntryNotFound
}

func newTestRouter(t *testing.T, kb *fakeKnowledgeRepo) http.Handler {
	t.Helper()

	logger := logging.Default()
	tenants := &fakeTenantRepo{tenants: []*tenant.Tenant{
		{ID: "t-1", Name: "Acme Supply", Slug: "acme-supply", IsActive: true},
	}}

	cfg := &Config{
		Logger:           logger,
		TenantHandler:    tenant.NewHandler(tenants, logger),
		KnowledgeHandler: knowledge.NewHandler(kb, nil, logger),
	}

	return New(cfg)
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, &fakeKnowledgeRepo{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestRouterListTenants(t *testing.T) {
	router := newTestRouter(t, &fakeKnowledgeRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/tenants", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}

	var tenants []*tenant.Tenant
	if err := json.NewDecoder(rr.Body).Decode(&tenants); err != nil {
		t.Fatalf("failed to decode tenants: %v", err)
	}
	if len(tenants) != 1 || tenants[0].Slug != "acme-supply" {
		t.Errorf("unexpected tenants: %+v", tenants)
	}
}

func TestRouterTenantFromQueryParam(t *testing.T) {
	kb := &fakeKnowledgeRepo{}
	router := newTestRouter(t, kb)

	req := httptest.NewRequest(http.MethodGet, "/api/knowledge-base?tenantId=t-1", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if kb.lastTenantID != "t-1" {
		t.Errorf("expected tenant t-1, got %q", kb.lastTenantID)
	}
}

func TestRouterTenantFromHeader(t *testing.T) {
	kb := &fakeKnowledgeRepo{}
	router := newTestRouter(t, kb)

	req := httptest.NewRequest(http.MethodGet, "/api/knowledge-base", nil)
	req.Header.Set("X-Tenant-Id", "t-2")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if kb.lastTenantID != "t-2" {
		t.Errorf("expected tenant t-2, got %q", kb.lastTenantID)
	}
}

func TestRouterMissingTenantRejected(t *testing.T) {
	router := newTestRouter(t, &fakeKnowledgeRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/knowledge-base", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestExtractTenantIDQueryWinsOverHeader(t *testing.T) {
	var got string
	handler := extractTenantID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = tenancy.TenantIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/anything?tenantId=from-query", nil)
	req.Header.Set("X-Tenant-Id", "from-header")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "from-query" {
		t.Errorf("expected from-query, got %q", got)
	}
}
