package ai

// Known intents the classifier can produce.
const (
	IntentSearch      = "search"
	IntentCompare     = "compare"
	IntentAddToCart   = "add_to_cart"
	IntentCreateQuote = "create_quote"
	IntentCheckout    = "checkout"
	IntentKBAnswer    = "kb_answer"
	IntentStatus      = "status"
	IntentHandoff     = "handoff"
	IntentUnknown     = "unknown"
)

// PriceRange is a price window extracted from a customer message.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Entities are the structured facts the classifier extracts from a message.
type Entities struct {
	ProductNames []string    `json:"product_names"`
	PriceRange   *PriceRange `json:"price_range,omitempty"`
	Categories   []string    `json:"categories"`
	Features     []string    `json:"features"`
}

// IsEmpty reports whether nothing was extracted.
func (e Entities) IsEmpty() bool {
	return len(e.ProductNames) == 0 && e.PriceRange == nil &&
		len(e.Categories) == 0 && len(e.Features) == 0
}

// Decision is the structured outcome of classifying one customer message.
type Decision struct {
	Intent             string   `json:"intent"`
	Confidence         float64  `json:"confidence"`
	Entities           Entities `json:"entities"`
	Response           string   `json:"response"`
	SuggestedProducts  []string `json:"suggestedProducts"`
	RequiresEscalation bool     `json:"requiresEscalation"`
}

// FirstCategory returns the first extracted category, or empty.
func (d Decision) FirstCategory() string {
	if len(d.Entities.Categories) == 0 {
		return ""
	}
	return d.Entities.Categories[0]
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var knownIntents = map[string]bool{
	IntentSearch:      true,
	IntentCompare:     true,
	IntentAddToCart:   true,
	IntentCreateQuote: true,
	IntentCheckout:    true,
	IntentKBAnswer:    true,
	IntentStatus:      true,
	IntentHandoff:     true,
	IntentUnknown:     true,
}
