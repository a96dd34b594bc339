package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/merchantry/commerce-ai-platform/internal/analytics"
	"github.com/merchantry/commerce-ai-platform/internal/catalog"
	"github.com/merchantry/commerce-ai-platform/internal/chat"
	"github.com/merchantry/commerce-ai-platform/internal/conversation"
	"github.com/merchantry/commerce-ai-platform/internal/documents"
	httpmiddleware "github.com/merchantry/commerce-ai-platform/internal/http/middleware"
	"github.com/merchantry/commerce-ai-platform/internal/knowledge"
	"github.com/merchantry/commerce-ai-platform/internal/orders"
	"github.com/merchantry/commerce-ai-platform/internal/tenant"
	"github.com/merchantry/commerce-ai-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	TenantHandler       *tenant.Handler
	CatalogHandler      *catalog.Handler
	KnowledgeHandler    *knowledge.Handler
	OrderHandler        *orders.Handler
	ConversationHandler *conversation.Handler
	ChatHandler         *chat.Handler
	AnalyticsHandler    *analytics.Handler
	DocumentHandler     *documents.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// Rate limiting for the chat endpoint (requests/sec per IP).
	// Zero disables it.
	ChatRateLimit float64
	ChatRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (health checks, metrics)
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(extractTenantID)

		if cfg.TenantHandler != nil {
			api.Route("/tenants", func(r chi.Router) {
				r.Get("/", cfg.TenantHandler.List)
				r.Post("/", cfg.TenantHandler.Create)
				r.Get("/{id}", cfg.TenantHandler.Get)
				r.Put("/{id}", cfg.TenantHandler.Update)
			})
		}
		if cfg.CatalogHandler != nil {
			api.Route("/products", func(r chi.Router) {
				r.Get("/", cfg.CatalogHandler.ListProducts)
				r.Post("/", cfg.CatalogHandler.CreateProduct)
				r.Get("/{id}", cfg.CatalogHandler.GetProduct)
				r.Put("/{id}", cfg.CatalogHandler.UpdateProduct)
				r.Delete("/{id}", cfg.CatalogHandler.DeleteProduct)
			})
			api.Route("/inventory", func(r chi.Router) {
				r.Get("/", cfg.CatalogHandler.ListInventory)
				r.Put("/{productId}", cfg.CatalogHandler.UpdateInventory)
			})
		}
		if cfg.KnowledgeHandler != nil {
			api.Route("/knowledge-base", func(r chi.Router) {
				r.Get("/", cfg.KnowledgeHandler.List)
				r.Post("/", cfg.KnowledgeHandler.Create)
			})
		}
		if cfg.OrderHandler != nil {
			api.Route("/orders", func(r chi.Router) {
				r.Get("/", cfg.OrderHandler.List)
				r.Post("/", cfg.OrderHandler.Create)
				r.Get("/{id}", cfg.OrderHandler.Get)
				r.Put("/{id}", cfg.OrderHandler.Update)
			})
		}
		if cfg.ConversationHandler != nil {
			api.Route("/conversations", func(r chi.Router) {
				r.Get("/", cfg.ConversationHandler.List)
				r.Post("/", cfg.ConversationHandler.Create)
				r.Get("/{id}", cfg.ConversationHandler.Get)
			})
		}
		if cfg.ChatHandler != nil {
			if cfg.ChatRateLimit > 0 {
				api.With(httpmiddleware.RateLimit(cfg.ChatRateLimit, cfg.ChatRateBurst)).Post("/ai/chat", cfg.ChatHandler.Chat)
			} else {
				api.Post("/ai/chat", cfg.ChatHandler.Chat)
			}
		}
		if cfg.AnalyticsHandler != nil {
			api.Route("/analytics", func(r chi.Router) {
				r.Get("/stats", cfg.AnalyticsHandler.Stats)
				r.Get("/tenant-activity", cfg.AnalyticsHandler.TenantActivity)
				r.Get("/demand-tracking", cfg.AnalyticsHandler.DemandTracking)
			})
		}
		if cfg.DocumentHandler != nil {
			api.Route("/documents", func(r chi.Router) {
				r.Get("/", cfg.DocumentHandler.List)
				r.Post("/quote", cfg.DocumentHandler.GenerateQuote)
				r.Get("/{id}", cfg.DocumentHandler.Get)
			})
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"}) //nolint:errcheck
}
