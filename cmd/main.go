package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "guest-engage/docs"
	"guest-engage/internal/api"
	"guest-engage/internal/auth"
	"guest-engage/internal/config"
	"guest-engage/internal/guestmetrics"
	"guest-engage/internal/logging"
	"guest-engage/internal/manager"
	"guest-engage/internal/messaging"
	"guest-engage/internal/metrics"
	"guest-engage/internal/ratelimit"
	"guest-engage/internal/storage"
	"guest-engage/internal/survey"
	"guest-engage/internal/tenancy"
)

// @title Guest Engagement Dispatch API
// @version 1.0
// @description Multi-tenant guest engagement core: tenant routing, post-stay survey dispatch, guest metrics
// @host localhost:8080
// @BasePath /
// @schemes http

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	// Init Metrics
	metrics.Init()

	// Load Configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(false)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()
	logger.Info("configuration loaded")

	// Setup JWT Secret
	auth.SetSecret(cfg.Auth.JWTSecret)

	// Init PostgreSQL
	db, err := storage.NewStorage(cfg.Database.URL)
	if err != nil {
		logger.Fatal("failed to init db", zap.Error(err))
	}
	defer db.DB.Close()
	logger.Info("postgres connected")

	// Init RabbitMQ
	rabbitClient, err := messaging.NewRabbitClient(cfg.RabbitMQ.URL, logger)
	if err != nil {
		logger.Fatal("failed to connect to rabbitmq", zap.Error(err))
	}
	defer rabbitClient.Close()
	if err := rabbitClient.DeclareSurveyQueue(); err != nil {
		logger.Fatal("failed to declare survey queue", zap.Error(err))
	}
	logger.Info("rabbitmq connected")

	// Outbound survey budget: redis-backed when an addr is configured,
	// in-process otherwise; scope per config.
	var limiter ratelimit.Acquirer
	if cfg.RateLimit.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			DB:       cfg.RateLimit.RedisDB,
		})
		limiter = ratelimit.NewRedisWindow(client, logger,
			cfg.RateLimit.Max, cfg.Window(), cfg.RateLimit.Scope == "tenant")
	} else if cfg.RateLimit.Scope == "tenant" {
		limiter = ratelimit.NewPerTenant(cfg.RateLimit.Max, cfg.Window())
	} else {
		limiter = ratelimit.NewFixedWindow(cfg.RateLimit.Max, cfg.Window())
	}

	// Event-time core
	aggregator := guestmetrics.NewAggregator(db, db)
	orchestrator := survey.NewOrchestrator(limiter, rabbitClient, logger)
	mgr := manager.NewEngagementManager(rabbitClient.GetConnection(), rabbitClient, db, aggregator, orchestrator, logger)

	// Request-time core
	resolver := tenancy.NewResolver(db, logger, cfg.Tenancy.PublicSuffix, cfg.Tenancy.OverrideHeader)
	tenantMW := tenancy.NewMiddleware(resolver, logger,
		cfg.Tenancy.SkipResolvePrefixes, cfg.Tenancy.TenantOptionalPrefixes)

	// Start background loop for updating queue depth metrics
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			for _, tenantID := range mgr.ListTenantIDs() {
				rabbitClient.UpdateQueueDepth(tenantID)
			}
		}
	}()

	// Recover Existing Tenants
	tenants, err := db.ListTenants(context.Background())
	if err != nil {
		logger.Fatal("failed to load tenants", zap.Error(err))
	}

	for _, tenant := range tenants {
		if err := mgr.AddTenant(tenant.ID); err != nil {
			logger.Warn("failed to recover tenant", zap.Int64("tenant_id", tenant.ID), zap.Error(err))
			continue
		}
		logger.Info("🔁 recovered tenant", zap.Int64("tenant_id", tenant.ID), zap.String("slug", tenant.Slug))
	}

	// Init API
	apiHandler := api.NewAPI(mgr, db, rabbitClient, aggregator, tenantMW, cfg, logger)
	server := &http.Server{
		Addr:    cfg.Listen,
		Handler: apiHandler.Router(),
	}

	// Graceful Shutdown Setup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("🚀 starting API server", zap.String("addr", cfg.Listen))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done() // Wait for interrupt signal
	logger.Info("shutdown initiated")

	// Shutdown sequence
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Stop HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown error", zap.Error(err))
	}

	// Stop all tenant consumers
	mgr.ShutdownAll()

	logger.Info("graceful shutdown complete")
}
