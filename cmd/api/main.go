package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/merchantry/commerce-ai-platform/cmd/mainconfig"
	"github.com/merchantry/commerce-ai-platform/internal/ai"
	"github.com/merchantry/commerce-ai-platform/internal/analytics"
	"github.com/merchantry/commerce-ai-platform/internal/api/router"
	"github.com/merchantry/commerce-ai-platform/internal/catalog"
	"github.com/merchantry/commerce-ai-platform/internal/chat"
	appconfig "github.com/merchantry/commerce-ai-platform/internal/config"
	"github.com/merchantry/commerce-ai-platform/internal/conversation"
	"github.com/merchantry/commerce-ai-platform/internal/demand"
	"github.com/merchantry/commerce-ai-platform/internal/documents"
	"github.com/merchantry/commerce-ai-platform/internal/knowledge"
	"github.com/merchantry/commerce-ai-platform/internal/notify"
	"github.com/merchantry/commerce-ai-platform/internal/observability/metrics"
	"github.com/merchantry/commerce-ai-platform/internal/orders"
	"github.com/merchantry/commerce-ai-platform/internal/tenant"
	"github.com/merchantry/commerce-ai-platform/pkg/logging"
)

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting commerce-ai-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	// Repositories
	tenantRepo := tenant.NewPostgresRepository(pool)
	catalogRepo := catalog.NewPostgresRepository(pool)
	knowledgeRepo := knowledge.NewPostgresRepository(pool)
	orderRepo := orders.NewPostgresRepository(pool)
	conversationRepo := conversation.NewPostgresRepository(pool)
	documentRepo := documents.NewPostgresRepository(pool)
	demandRepo := demand.NewPostgresRepository(pool)
	statsRepo := analytics.NewStatsRepository(pool)

	// LLM client with optional fallback provider
	llm, err := newLLMClient(ctx, cfg, awsCfg, cfg.LLMProvider)
	if err != nil {
		logger.Error("failed to initialize LLM client", "provider", cfg.LLMProvider, "error", err)
		os.Exit(1)
	}
	if cfg.LLMFallbackProvider != "" && cfg.LLMFallbackProvider != cfg.LLMProvider {
		fallback, err := newLLMClient(ctx, cfg, awsCfg, cfg.LLMFallbackProvider)
		if err != nil {
			logger.Error("failed to initialize fallback LLM client", "provider", cfg.LLMFallbackProvider, "error", err)
			os.Exit(1)
		}
		llm = ai.NewFallbackLLMClient(llm, fallback, logger)
	}
	aiService := ai.NewService(llm, logger)

	// Tenant context cache (optional)
	var cache *ai.ContextCache
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		cache = ai.NewContextCache(redis.NewClient(opts), cfg.ContextCacheTTL)
	}
	var invalidate func(tenantID string)
	if cache != nil {
		invalidate = func(tenantID string) {
			if err := cache.Invalidate(context.Background(), tenantID); err != nil {
				logger.Warn("failed to invalidate tenant context", "tenant_id", tenantID, "error", err)
			}
		}
	}

	// Escalation notifications (optional)
	var emailSender notify.EmailSender
	if cfg.NotifyFromEmail != "" {
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.NotifyFromEmail,
			FromName:  cfg.NotifyFromName,
		}, logger)
		if sender != nil {
			emailSender = sender
		}
	}
	notifier := notify.NewService(emailSender, cfg.NotifyEscalationEmail, logger)

	// Metrics
	reg := prometheus.NewRegistry()
	chatMetrics := metrics.NewChatMetrics(reg)
	metricsHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	// Chat pipeline
	pipelineCfg := chat.PipelineConfig{
		Tenants:    tenantRepo,
		Products:   catalogRepo,
		Knowledge:  knowledgeRepo,
		Classifier: aiService,
		Records:    conversationRepo,
		Demand:     demand.NewFeedback(demandRepo, logger),
		Notifier:   notifier,
		Metrics:    chatMetrics,
		Logger:     logger,
	}
	if cache != nil {
		pipelineCfg.Cache = cache
	}
	pipeline := chat.NewPipeline(pipelineCfg)

	// Setup router
	routerCfg := &router.Config{
		Logger:              logger,
		TenantHandler:       tenant.NewHandler(tenantRepo, logger),
		CatalogHandler:      catalog.NewHandler(catalogRepo, invalidate, logger),
		KnowledgeHandler:    knowledge.NewHandler(knowledgeRepo, invalidate, logger),
		OrderHandler:        orders.NewHandler(orderRepo, logger),
		ConversationHandler: conversation.NewHandler(conversationRepo, logger),
		ChatHandler:         chat.NewHandler(pipeline, logger),
		AnalyticsHandler:    analytics.NewHandler(statsRepo, demandRepo, aiService, logger),
		DocumentHandler:     documents.NewHandler(documentRepo, tenantRepo, catalogRepo, aiService, logger),
		MetricsHandler:      metricsHandler,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		ChatRateLimit:       cfg.RateLimitPerSecond,
		ChatRateBurst:       cfg.RateLimitBurst,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func newLLMClient(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, provider string) (ai.LLMClient, error) {
	switch provider {
	case "openai":
		return ai.NewOpenAILLMClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case "gemini":
		return ai.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "bedrock":
		if cfg.BedrockModelID == "" {
			return nil, fmt.Errorf("BEDROCK_MODEL_ID is required for the bedrock provider")
		}
		return ai.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}
