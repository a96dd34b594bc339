package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/merchantry/commerce-ai-platform/internal/catalog"
	"github.com/merchantry/commerce-ai-platform/internal/demand"
)

func classifySystemPrompt(tctx TenantContext) string {
	products, _ := json.Marshal(tctx.Products)
	knowledge, _ := json.Marshal(tctx.Knowledge)

	return fmt.Sprintf(`You are an expert AI sales assistant for %s, a merchant on a multi-tenant commerce platform.
Analyze the customer message and provide structured insights.

Available products: %s
Knowledge base: %s

Respond with JSON in this format:
{
  "intent": "search|compare|add_to_cart|create_quote|checkout|kb_answer|status|handoff|unknown",
  "confidence": 0.0-1.0,
  "entities": {
    "product_names": [],
    "price_range": {"min": 0, "max": 0},
    "categories": [],
    "features": []
  },
  "response": "customer-facing response text",
  "suggestedProducts": ["product_id1", "product_id2"],
  "requiresEscalation": false
}`, tctx.TenantName, products, knowledge)
}

func comparePrompt(products []*catalog.Product) string {
	blob, _ := json.MarshalIndent(products, "", "  ")
	return fmt.Sprintf(`Compare these products and provide a detailed analysis highlighting key differences, pros and cons:

%s

Format the response as a clear comparison with recommendations.`, blob)
}

func rankSearchPrompt(query string, filters SearchFilters, candidates []*catalog.Product) string {
	blob, _ := json.MarshalIndent(candidates, "", "  ")

	priceRange := "any"
	if filters.PriceMax > 0 {
		priceRange = fmt.Sprintf("$%.2f-$%.2f", filters.PriceMin, filters.PriceMax)
	}
	features := "none"
	if len(filters.Features) > 0 {
		features = strings.Join(filters.Features, ", ")
	}

	return fmt.Sprintf(`Based on this search query: %q, find the most relevant products from this catalog:

%s

Consider:
- Product names and descriptions
- Categories and tags
- Price range: %s
- Required features: %s

Respond with JSON containing an array of product IDs ranked by relevance:
{ "productIds": ["id1", "id2", "id3"], "reasoning": "explanation" }`, query, blob, priceRange, features)
}

func extractProductPrompt(description string) string {
	return fmt.Sprintf(`Extract structured product information from this description:

%q

Respond with JSON containing:
{
  "name": "product name",
  "category": "category",
  "specifications": {},
  "tags": [],
  "estimatedPrice": 0
}`, description)
}

func quotePrompt(customer QuoteCustomer, items []QuoteLineItem, tenantName string) string {
	var lines strings.Builder
	var total float64
	for _, item := range items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		fmt.Fprintf(&lines, "- %s x%d @ $%.2f each\n", name, item.Quantity, item.Price)
		total += float64(item.Quantity) * item.Price
	}

	email := ""
	if customer.Email != "" {
		email = fmt.Sprintf(" (%s)", customer.Email)
	}

	return fmt.Sprintf(`Generate a professional quote document content for:

Customer: %s%s
Company: %s

Items:
%s
Total: $%.2f

Include:
- Professional formatting
- Terms and conditions
- Validity period (30 days)
- Payment terms

Respond with JSON containing the quote structure.`, customer.Name, email, tenantName, lines.String(), total)
}

func demandSummaryPrompt(records []*demand.Record) string {
	blob, _ := json.MarshalIndent(records, "", "  ")
	return fmt.Sprintf(`Analyze this demand tracking data and provide actionable business insights:

%s

Focus on:
- Stock gaps and procurement recommendations
- Market trends and opportunities
- Customer behavior patterns
- Revenue optimization suggestions

Provide a concise executive summary.`, blob)
}
