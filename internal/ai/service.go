package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/merchantry/commerce-ai-platform/internal/catalog"
	"github.com/merchantry/commerce-ai-platform/internal/demand"
	"github.com/merchantry/commerce-ai-platform/pkg/logging"
)

var aiTracer = otel.Tracer("commerce.internal.ai")

const (
	escalationThreshold = 0.5

	fallbackResponse = "I'm experiencing technical difficulties. Let me connect you with a human agent."
	unsureResponse   = "I'm not sure how to help with that. Let me connect you with a human agent."

	demandSummaryUnavailable = "Unable to generate demand insights at this time."
)

// Service runs the assistant's classification and generation capabilities
// on top of an LLM client.
type Service struct {
	llm    LLMClient
	logger *logging.Logger
}

// NewService creates an AI service.
func NewService(llm LLMClient, logger *logging.Logger) *Service {
	if llm == nil {
		panic("ai: llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{llm: llm, logger: logger}
}

// Classify analyzes a customer message against the tenant's bounded context.
// It never fails outright: when the model is unavailable or returns garbage
// it returns a degraded Decision and an error wrapping
// ErrCapabilityUnavailable so callers can tell the two cases apart. The
// Decision is always usable.
func (s *Service) Classify(ctx context.Context, message string, tctx TenantContext) (Decision, error) {
	ctx, span := aiTracer.Start(ctx, "ai.classify")
	defer span.End()

	tctx = tctx.Bound()
	span.SetAttributes(
		attribute.String("tenant.id", tctx.TenantID),
		attribute.Int("context.products", len(tctx.Products)),
		attribute.Int("context.knowledge", len(tctx.Knowledge)),
	)

	resp, err := s.llm.Complete(ctx, LLMRequest{
		System:       []string{classifySystemPrompt(tctx)},
		Messages:     []ChatMessage{{Role: ChatRoleUser, Content: message}},
		Temperature:  0.3,
		JSONResponse: true,
	})
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("classification failed, returning degraded decision",
			"tenant_id", tctx.TenantID, "error", err)
		return degradedDecision(), fmt.Errorf("ai: classify: %w: %v", ErrCapabilityUnavailable, err)
	}

	var raw struct {
		Intent             string   `json:"intent"`
		Confidence         float64  `json:"confidence"`
		Entities           Entities `json:"entities"`
		Response           string   `json:"response"`
		SuggestedProducts  []string `json:"suggestedProducts"`
		RequiresEscalation bool     `json:"requiresEscalation"`
	}
	if err := json.Unmarshal([]byte(resp.Text), &raw); err != nil {
		span.RecordError(err)
		s.logger.Warn("classification output unparsable, returning degraded decision",
			"tenant_id", tctx.TenantID, "error", err)
		return degradedDecision(), fmt.Errorf("ai: classify: %w: %v", ErrCapabilityUnavailable, err)
	}

	d := Decision{
		Intent:             raw.Intent,
		Confidence:         clampConfidence(raw.Confidence),
		Entities:           raw.Entities,
		Response:           raw.Response,
		SuggestedProducts:  raw.SuggestedProducts,
		RequiresEscalation: raw.RequiresEscalation,
	}
	if !knownIntents[d.Intent] {
		d.Intent = IntentUnknown
	}
	if d.SuggestedProducts == nil {
		d.SuggestedProducts = []string{}
	}
	if d.Response == "" {
		d.Response = unsureResponse
	}
	if d.Confidence < escalationThreshold {
		d.RequiresEscalation = true
	}

	span.SetAttributes(
		attribute.String("decision.intent", d.Intent),
		attribute.Float64("decision.confidence", d.Confidence),
		attribute.Bool("decision.escalation", d.RequiresEscalation),
	)
	return d, nil
}

func degradedDecision() Decision {
	return Decision{
		Intent:             IntentUnknown,
		Confidence:         0,
		Response:           fallbackResponse,
		SuggestedProducts:  []string{},
		RequiresEscalation: true,
	}
}

// Compare produces a textual comparison of two or more products.
func (s *Service) Compare(ctx context.Context, products []*catalog.Product) (string, error) {
	if len(products) < 2 {
		return "", ErrInsufficientProducts
	}

	ctx, span := aiTracer.Start(ctx, "ai.compare")
	defer span.End()
	span.SetAttributes(attribute.Int("products", len(products)))

	resp, err := s.llm.Complete(ctx, LLMRequest{
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: comparePrompt(products)}},
		Temperature: 0.2,
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("ai: compare: %w", err)
	}
	return resp.Text, nil
}

// SearchFilters narrow a ranked search.
type SearchFilters struct {
	Category string   `json:"category,omitempty"`
	PriceMin float64  `json:"priceMin,omitempty"`
	PriceMax float64  `json:"priceMax,omitempty"`
	Features []string `json:"features,omitempty"`
}

// RankSearch asks the model to rank candidates by relevance to a query.
// On model failure it falls back to a case-insensitive substring match
// against name and description, preserving candidate order. Search never
// returns an error to the end user.
func (s *Service) RankSearch(ctx context.Context, query string, filters SearchFilters, candidates []*catalog.Product) []*catalog.Product {
	ctx, span := aiTracer.Start(ctx, "ai.rank_search")
	defer span.End()
	span.SetAttributes(attribute.Int("candidates", len(candidates)))

	resp, err := s.llm.Complete(ctx, LLMRequest{
		Messages:     []ChatMessage{{Role: ChatRoleUser, Content: rankSearchPrompt(query, filters, candidates)}},
		Temperature:  0.1,
		JSONResponse: true,
	})
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("ranked search failed, using substring fallback", "error", err)
		return substringMatch(query, candidates)
	}

	var result struct {
		ProductIDs []string `json:"productIds"`
	}
	if err := json.Unmarshal([]byte(resp.Text), &result); err != nil {
		span.RecordError(err)
		s.logger.Warn("ranked search output unparsable, using substring fallback", "error", err)
		return substringMatch(query, candidates)
	}

	byID := make(map[string]*catalog.Product, len(candidates))
	for _, p := range candidates {
		byID[p.ID] = p
	}
	ranked := make([]*catalog.Product, 0, len(result.ProductIDs))
	for _, id := range result.ProductIDs {
		if p, ok := byID[id]; ok {
			ranked = append(ranked, p)
		}
	}
	return ranked
}

// substringMatch keeps candidates whose name or description contains the
// query, case-insensitively. Order is the candidates' order, so repeated
// calls with identical input return identical output.
func substringMatch(query string, candidates []*catalog.Product) []*catalog.Product {
	needle := strings.ToLower(query)
	matched := make([]*catalog.Product, 0, len(candidates))
	for _, p := range candidates {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			matched = append(matched, p)
		}
	}
	return matched
}

// ProductInfo is the partial product extracted from a free-text description.
type ProductInfo struct {
	Name           string         `json:"name,omitempty"`
	Category       string         `json:"category,omitempty"`
	Specifications map[string]any `json:"specifications,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
	EstimatedPrice float64        `json:"estimatedPrice,omitempty"`
}

// ExtractProductInfo parses structured product fields out of free text.
// Best-effort: failures return an empty partial.
func (s *Service) ExtractProductInfo(ctx context.Context, description string) ProductInfo {
	ctx, span := aiTracer.Start(ctx, "ai.extract_product_info")
	defer span.End()

	resp, err := s.llm.Complete(ctx, LLMRequest{
		Messages:     []ChatMessage{{Role: ChatRoleUser, Content: extractProductPrompt(description)}},
		Temperature:  0.2,
		JSONResponse: true,
	})
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("product info extraction failed", "error", err)
		return ProductInfo{}
	}

	var info ProductInfo
	if err := json.Unmarshal([]byte(resp.Text), &info); err != nil {
		span.RecordError(err)
		s.logger.Warn("product info extraction output unparsable", "error", err)
		return ProductInfo{}
	}
	return info
}

// QuoteCustomer identifies the recipient of a quote.
type QuoteCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// QuoteLineItem is one priced product line on a quote.
type QuoteLineItem struct {
	Product  *catalog.Product `json:"product"`
	Quantity int              `json:"quantity"`
	Price    float64          `json:"price"`
}

// GenerateQuoteContent produces a structured quote document. Fails loudly:
// quote generation has no safe fallback.
func (s *Service) GenerateQuoteContent(ctx context.Context, customer QuoteCustomer, items []QuoteLineItem, tenantName string) (map[string]any, error) {
	ctx, span := aiTracer.Start(ctx, "ai.generate_quote")
	defer span.End()
	span.SetAttributes(attribute.Int("line_items", len(items)))

	resp, err := s.llm.Complete(ctx, LLMRequest{
		Messages:     []ChatMessage{{Role: ChatRoleUser, Content: quotePrompt(customer, items, tenantName)}},
		Temperature:  0.1,
		JSONResponse: true,
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrQuoteGeneration, err)
	}

	var content map[string]any
	if err := json.Unmarshal([]byte(resp.Text), &content); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrQuoteGeneration, err)
	}
	return content, nil
}

// SummarizeDemand produces an executive summary of demand signals.
// Best-effort: failures return a fixed unavailable message.
func (s *Service) SummarizeDemand(ctx context.Context, records []*demand.Record) string {
	ctx, span := aiTracer.Start(ctx, "ai.summarize_demand")
	defer span.End()
	span.SetAttributes(attribute.Int("records", len(records)))

	resp, err := s.llm.Complete(ctx, LLMRequest{
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: demandSummaryPrompt(records)}},
		Temperature: 0.3,
	})
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("demand summary failed", "error", err)
		return demandSummaryUnavailable
	}
	if resp.Text == "" {
		return demandSummaryUnavailable
	}
	return resp.Text
}
