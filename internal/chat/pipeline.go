package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/merchantry/commerce-ai-platform/internal/ai"
	"github.com/merchantry/commerce-ai-platform/internal/catalog"
	"github.com/merchantry/commerce-ai-platform/internal/conversation"
	"github.com/merchantry/commerce-ai-platform/internal/knowledge"
	"github.com/merchantry/commerce-ai-platform/internal/notify"
	"github.com/merchantry/commerce-ai-platform/internal/observability/metrics"
	"github.com/merchantry/commerce-ai-platform/internal/tenant"
	"github.com/merchantry/commerce-ai-platform/pkg/logging"
)

type tenantGetter interface {
	GetByID(ctx context.Context, id string) (*tenant.Tenant, error)
}

type productLister interface {
	ListProducts(ctx context.Context, tenantID string) ([]*catalog.Product, error)
}

type knowledgeLister interface {
	ListByTenant(ctx context.Context, tenantID string) ([]*knowledge.Entry, error)
}

type classifier interface {
	Classify(ctx context.Context, message string, tctx ai.TenantContext) (ai.Decision, error)
}

type conversationCreator interface {
	Create(ctx context.Context, req *conversation.CreateConversationRequest) (*conversation.Conversation, error)
}

type demandObserver interface {
	Observe(ctx context.Context, tenantID, intent, query, category string, suggestedProducts []string)
}

type escalationNotifier interface {
	NotifyEscalation(ctx context.Context, esc notify.Escalation)
}

type contextCache interface {
	Get(ctx context.Context, tenantID string) (ai.TenantContext, bool)
	Set(ctx context.Context, tctx ai.TenantContext) error
}

// Request is one customer chat message.
type Request struct {
	TenantID     string `json:"tenantId"`
	Message      string `json:"message"`
	CustomerID   string `json:"customerId,omitempty"`
	CustomerName string `json:"customerName,omitempty"`
	Channel      string `json:"channel,omitempty"`
}

// Response is the assistant's answer plus the classification outcome.
type Response struct {
	ConversationID     string   `json:"conversationId"`
	Response           string   `json:"response"`
	Intent             string   `json:"intent"`
	Confidence         float64  `json:"confidence"`
	SuggestedProducts  []string `json:"suggestedProducts"`
	RequiresEscalation bool     `json:"requiresEscalation"`
}

// Pipeline runs one chat exchange: assemble tenant context, classify the
// message, persist the conversation, then feed demand and escalation signals.
type Pipeline struct {
	tenants    tenantGetter
	products   productLister
	knowledge  knowledgeLister
	classifier classifier
	records    conversationCreator
	demand     demandObserver
	notifier   escalationNotifier
	cache      contextCache
	metrics    *metrics.ChatMetrics
	logger     *logging.Logger
	now        func() time.Time
}

// PipelineConfig wires pipeline dependencies. Cache, demand, notifier, and
// metrics are optional.
type PipelineConfig struct {
	Tenants    tenantGetter
	Products   productLister
	Knowledge  knowledgeLister
	Classifier classifier
	Records    conversationCreator
	Demand     demandObserver
	Notifier   escalationNotifier
	Cache      contextCache
	Metrics    *metrics.ChatMetrics
	Logger     *logging.Logger
}

// NewPipeline creates a chat pipeline.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	if cfg.Tenants == nil || cfg.Products == nil || cfg.Knowledge == nil ||
		cfg.Classifier == nil || cfg.Records == nil {
		panic("chat: pipeline requires tenants, products, knowledge, classifier, and records")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Pipeline{
		tenants:    cfg.Tenants,
		products:   cfg.Products,
		knowledge:  cfg.Knowledge,
		classifier: cfg.Classifier,
		records:    cfg.Records,
		demand:     cfg.Demand,
		notifier:   cfg.Notifier,
		cache:      cfg.Cache,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		now:        time.Now,
	}
}

// Process handles one chat exchange. It fails only when the tenant cannot be
// loaded or the conversation record cannot be written; classification
// failures degrade into an apologetic answer instead.
func (p *Pipeline) Process(ctx context.Context, req Request) (*Response, error) {
	if req.TenantID == "" {
		return nil, ErrMissingTenantID
	}
	if req.Message == "" {
		return nil, ErrEmptyMessage
	}

	t, err := p.tenants.GetByID(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("chat: load tenant: %w", err)
	}

	tctx, err := p.tenantContext(ctx, t)
	if err != nil {
		return nil, err
	}

	start := p.now()
	decision, classifyErr := p.classifier.Classify(ctx, req.Message, tctx)
	p.metrics.ObserveLLMLatency("classify", p.now().Sub(start).Seconds())

	outcome := "ok"
	if classifyErr != nil {
		// The decision is still usable; it carries the degraded fallback.
		outcome = "degraded"
		p.logger.Warn("classification degraded",
			"tenant_id", req.TenantID, "channel", req.Channel, "error", classifyErr)
	}
	p.metrics.ObserveClassification(decision.Intent, outcome)

	record, err := p.recordExchange(ctx, req, decision)
	if err != nil {
		return nil, fmt.Errorf("chat: record conversation: %w", err)
	}

	// Demand and escalation signals are side effects of an already-computed
	// answer; their failure never reaches the customer.
	if p.demand != nil {
		p.demand.Observe(ctx, req.TenantID, decision.Intent, req.Message,
			decision.FirstCategory(), decision.SuggestedProducts)
		if decision.Intent == ai.IntentSearch && len(decision.SuggestedProducts) == 0 {
			p.metrics.ObserveDemandSignal()
		}
	}
	if decision.RequiresEscalation {
		p.metrics.ObserveEscalation()
		if p.notifier != nil {
			p.notifier.NotifyEscalation(ctx, notify.Escalation{
				TenantID:     req.TenantID,
				TenantName:   t.Name,
				CustomerName: req.CustomerName,
				Message:      req.Message,
				Intent:       decision.Intent,
				Confidence:   decision.Confidence,
				Email:        escalationEmail(t),
			})
		}
	}

	return &Response{
		ConversationID:     record.ID,
		Response:           decision.Response,
		Intent:             decision.Intent,
		Confidence:         decision.Confidence,
		SuggestedProducts:  decision.SuggestedProducts,
		RequiresEscalation: decision.RequiresEscalation,
	}, nil
}

// escalationEmail reads the tenant's operator inbox from its settings, if set.
func escalationEmail(t *tenant.Tenant) string {
	if v, ok := t.Settings["escalationEmail"].(string); ok {
		return v
	}
	return ""
}

func (p *Pipeline) tenantContext(ctx context.Context, t *tenant.Tenant) (ai.TenantContext, error) {
	if p.cache != nil {
		if tctx, ok := p.cache.Get(ctx, t.ID); ok {
			return tctx, nil
		}
	}

	products, err := p.products.ListProducts(ctx, t.ID)
	if err != nil {
		return ai.TenantContext{}, fmt.Errorf("chat: load products: %w", err)
	}
	entries, err := p.knowledge.ListByTenant(ctx, t.ID)
	if err != nil {
		return ai.TenantContext{}, fmt.Errorf("chat: load knowledge: %w", err)
	}

	tctx := ai.TenantContext{
		TenantID:   t.ID,
		TenantName: t.Name,
		Products:   products,
		Knowledge:  entries,
	}.Bound()

	if p.cache != nil {
		if err := p.cache.Set(ctx, tctx); err != nil {
			p.logger.Warn("failed to cache tenant context", "tenant_id", t.ID, "error", err)
		}
	}
	return tctx, nil
}

func (p *Pipeline) recordExchange(ctx context.Context, req Request, decision ai.Decision) (*conversation.Conversation, error) {
	now := p.now().UTC()
	status := conversation.StatusActive
	if decision.RequiresEscalation {
		status = conversation.StatusEscalated
	}

	return p.records.Create(ctx, &conversation.CreateConversationRequest{
		TenantID:     req.TenantID,
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Channel:      req.Channel,
		Messages: []conversation.MessageTurn{
			{Role: "user", Content: req.Message, Timestamp: now},
			{Role: "assistant", Content: decision.Response, Timestamp: now},
		},
		Intent:           decision.Intent,
		Confidence:       decision.Confidence,
		Status:           status,
		HandoffRequested: decision.RequiresEscalation,
	})
}
