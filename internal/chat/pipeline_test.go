package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/merchantry/commerce-ai-platform/internal/ai"
	"github.com/merchantry/commerce-ai-platform/internal/catalog"
	"github.com/merchantry/commerce-ai-platform/internal/conversation"
	"github.com/merchantry/commerce-ai-platform/internal/knowledge"
	"github.com/merchantry/commerce-ai-platform/internal/notify"
	"github.com/merchantry/commerce-ai-platform/internal/tenant"
	"github.com/merchantry/commerce-ai-platform/pkg/logging"
)

type fakeTenants struct {
	tenants map[string]*tenant.Tenant
}

func (f *fakeTenants) GetByID(_ context.Context, id string) (*tenant.Tenant, error) {
	if t, ok := f.tenants[id]; ok {
		return t, nil
	}
	return nil, tenant.ErrTenantNotFound
}

type fakeProducts struct {
	products []*catalog.Product
	calls    int
}

func (f *fakeProducts) ListProducts(context.Context, string) ([]*catalog.Product, error) {
	f.calls++
	return f.products, nil
}

type fakeKnowledge struct {
	entries []*knowledge.Entry
}

func (f *fakeKnowledge) ListByTenant(context.Context, string) ([]*knowledge.Entry, error) {
	return f.entries, nil
}

type fakeClassifier struct {
	decision ai.Decision
	err      error
}

func (f *fakeClassifier) Classify(context.Context, string, ai.TenantContext) (ai.Decision, error) {
	return f.decision, f.err
}

type fakeRecords struct {
	created []*conversation.CreateConversationRequest
	err     error
}

func (f *fakeRecords) Create(_ context.Context, req *conversation.CreateConversationRequest) (*conversation.Conversation, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)
	return &conversation.Conversation{ID: fmt.Sprintf("c-%d", len(f.created)), TenantID: req.TenantID}, nil
}

type fakeDemand struct {
	observed []string
}

func (f *fakeDemand) Observe(_ context.Context, _, intent, query, _ string, suggested []string) {
	if intent == "search" && len(suggested) == 0 {
		f.observed = append(f.observed, query)
	}
}

type fakeNotifier struct {
	escalations []notify.Escalation
}

func (f *fakeNotifier) NotifyEscalation(_ context.Context, esc notify.Escalation) {
	f.escalations = append(f.escalations, esc)
}

type fakeCache struct {
	stored map[string]ai.TenantContext
}

func (f *fakeCache) Get(_ context.Context, tenantID string) (ai.TenantContext, bool) {
	tctx, ok := f.stored[tenantID]
	return tctx, ok
}

func (f *fakeCache) Set(_ context.Context, tctx ai.TenantContext) error {
	if f.stored == nil {
		f.stored = map[string]ai.TenantContext{}
	}
	f.stored[tctx.TenantID] = tctx
	return nil
}

type fixture struct {
	pipeline *Pipeline
	records  *fakeRecords
	demand   *fakeDemand
	notifier *fakeNotifier
	products *fakeProducts
	cache    *fakeCache
}

func newFixture(decision ai.Decision, classifyErr error) *fixture {
	f := &fixture{
		records:  &fakeRecords{},
		demand:   &fakeDemand{},
		notifier: &fakeNotifier{},
		products: &fakeProducts{},
		cache:    &fakeCache{},
	}
	f.pipeline = NewPipeline(PipelineConfig{
		Tenants: &fakeTenants{tenants: map[string]*tenant.Tenant{
			"tenant-a": {ID: "tenant-a", Name: "Acme Supply",
				Settings: map[string]any{"escalationEmail": "owner@acme.example.com"}},
		}},
		Products:   f.products,
		Knowledge:  &fakeKnowledge{},
		Classifier: &fakeClassifier{decision: decision, err: classifyErr},
		Records:    f.records,
		Demand:     f.demand,
		Notifier:   f.notifier,
		Cache:      f.cache,
		Logger:     logging.New("error"),
	})
	return f
}

func TestProcess_RecordsExchange(t *testing.T) {
	f := newFixture(ai.Decision{
		Intent:            "search",
		Confidence:        0.9,
		Response:          "We have three drills in stock.",
		SuggestedProducts: []string{"p-1"},
	}, nil)

	resp, err := f.pipeline.Process(context.Background(), Request{
		TenantID:     "tenant-a",
		Message:      "any drills?",
		CustomerName: "Jane",
		Channel:      "whatsapp",
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if resp.Intent != "search" || resp.ConversationID == "" {
		t.Errorf("resp = %+v", resp)
	}

	if len(f.records.created) != 1 {
		t.Fatalf("recorded %d conversations, want 1", len(f.records.created))
	}
	rec := f.records.created[0]
	if len(rec.Messages) != 2 {
		t.Fatalf("recorded %d turns, want 2", len(rec.Messages))
	}
	if rec.Messages[0].Role != "user" || rec.Messages[1].Role != "assistant" {
		t.Errorf("turn roles = %s, %s", rec.Messages[0].Role, rec.Messages[1].Role)
	}
	if rec.Status != conversation.StatusActive || rec.HandoffRequested {
		t.Errorf("status = %s, handoff = %v", rec.Status, rec.HandoffRequested)
	}
	if rec.Channel != "whatsapp" {
		t.Errorf("channel = %q, want whatsapp", rec.Channel)
	}
}

func TestProcess_EscalationMarksConversation(t *testing.T) {
	f := newFixture(ai.Decision{
		Intent:             "handoff",
		Confidence:         0.95,
		Response:           "Connecting you with an agent.",
		RequiresEscalation: true,
	}, nil)

	if _, err := f.pipeline.Process(context.Background(), Request{TenantID: "tenant-a", Message: "human please"}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	rec := f.records.created[0]
	if rec.Status != conversation.StatusEscalated || !rec.HandoffRequested {
		t.Errorf("status = %s, handoff = %v", rec.Status, rec.HandoffRequested)
	}
	if len(f.notifier.escalations) != 1 {
		t.Fatalf("sent %d escalation notices, want 1", len(f.notifier.escalations))
	}
	esc := f.notifier.escalations[0]
	if esc.TenantName != "Acme Supply" {
		t.Errorf("escalation tenant = %q", esc.TenantName)
	}
	if esc.Email != "owner@acme.example.com" {
		t.Errorf("escalation email = %q, want tenant setting", esc.Email)
	}
}

func TestProcess_DegradedClassificationStillAnswers(t *testing.T) {
	degraded := ai.Decision{
		Intent:             "unknown",
		Confidence:         0,
		Response:           "I'm experiencing technical difficulties. Let me connect you with a human agent.",
		SuggestedProducts:  []string{},
		RequiresEscalation: true,
	}
	f := newFixture(degraded, fmt.Errorf("classify: %w", ai.ErrCapabilityUnavailable))

	resp, err := f.pipeline.Process(context.Background(), Request{TenantID: "tenant-a", Message: "hello"})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if resp.Intent != "unknown" || !resp.RequiresEscalation {
		t.Errorf("resp = %+v", resp)
	}
	if len(f.records.created) != 1 {
		t.Error("degraded exchanges must still be recorded")
	}
}

func TestProcess_SearchMissFeedsDemand(t *testing.T) {
	f := newFixture(ai.Decision{
		Intent:            "search",
		Confidence:        0.8,
		Response:          "We don't carry that.",
		SuggestedProducts: []string{},
	}, nil)

	if _, err := f.pipeline.Process(context.Background(), Request{TenantID: "tenant-a", Message: "left-handed hammer"}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(f.demand.observed) != 1 || f.demand.observed[0] != "left-handed hammer" {
		t.Errorf("demand observed = %v", f.demand.observed)
	}
}

func TestProcess_RecordFailureIsFatal(t *testing.T) {
	f := newFixture(ai.Decision{Intent: "search", Confidence: 0.9, Response: "ok"}, nil)
	f.records.err = errors.New("insert failed")
	f.pipeline.records = f.records

	if _, err := f.pipeline.Process(context.Background(), Request{TenantID: "tenant-a", Message: "hi"}); err == nil {
		t.Fatal("expected error when the conversation record cannot be written")
	}
}

func TestProcess_Validation(t *testing.T) {
	f := newFixture(ai.Decision{}, nil)

	if _, err := f.pipeline.Process(context.Background(), Request{Message: "hi"}); !errors.Is(err, ErrMissingTenantID) {
		t.Errorf("err = %v, want ErrMissingTenantID", err)
	}
	if _, err := f.pipeline.Process(context.Background(), Request{TenantID: "tenant-a"}); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("err = %v, want ErrEmptyMessage", err)
	}
	if _, err := f.pipeline.Process(context.Background(), Request{TenantID: "ghost", Message: "hi"}); !errors.Is(err, ErrTenantNotFound) {
		t.Errorf("err = %v, want ErrTenantNotFound", err)
	}
}

func TestProcess_ContextCached(t *testing.T) {
	f := newFixture(ai.Decision{Intent: "search", Confidence: 0.9, Response: "ok"}, nil)

	for i := 0; i < 3; i++ {
		if _, err := f.pipeline.Process(context.Background(), Request{TenantID: "tenant-a", Message: "hi"}); err != nil {
			t.Fatalf("Process failed: %v", err)
		}
	}
	if f.products.calls != 1 {
		t.Errorf("catalog queried %d times, want 1 (cache hit after first call)", f.products.calls)
	}
}
