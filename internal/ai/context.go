package ai

import (
	"github.com/merchantry/commerce-ai-platform/internal/catalog"
	"github.com/merchantry/commerce-ai-platform/internal/knowledge"
)

// Context-size caps keep prompts within model limits. Callers sort before
// truncation so the kept slice is deterministic.
const (
	maxContextProducts  = 20
	maxContextKnowledge = 10
)

// TenantContext is the bounded slice of a tenant's data given to the model
// when classifying a customer message.
type TenantContext struct {
	TenantID   string             `json:"tenantId"`
	TenantName string             `json:"tenantName"`
	Products   []*catalog.Product `json:"products"`
	Knowledge  []*knowledge.Entry `json:"knowledge"`
}

// Bound truncates the context to the model caps. Input order is preserved.
func (c TenantContext) Bound() TenantContext {
	if len(c.Products) > maxContextProducts {
		c.Products = c.Products[:maxContextProducts]
	}
	if len(c.Knowledge) > maxContextKnowledge {
		c.Knowledge = c.Knowledge[:maxContextKnowledge]
	}
	return c
}
