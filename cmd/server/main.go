package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	creditapp "github.com/gigverse/backend/internal/application/credit"
	gigapp "github.com/gigverse/backend/internal/application/gig"
	identityapp "github.com/gigverse/backend/internal/application/identity"
	marketplaceapp "github.com/gigverse/backend/internal/application/marketplace"
	showcaseapp "github.com/gigverse/backend/internal/application/showcase"
	subscriptionapp "github.com/gigverse/backend/internal/application/subscription"
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/gigverse/backend/internal/infrastructure/cache"
	"github.com/gigverse/backend/internal/infrastructure/config"
	"github.com/gigverse/backend/internal/infrastructure/event"
	"github.com/gigverse/backend/internal/infrastructure/logger"
	"github.com/gigverse/backend/internal/infrastructure/payment"
	"github.com/gigverse/backend/internal/infrastructure/persistence"
	"github.com/gigverse/backend/internal/interfaces/http/handler"
	"github.com/gigverse/backend/internal/interfaces/http/middleware"
	"github.com/gigverse/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting Gigverse backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database with request-correlated SQL logging
	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	creditAccountRepo := persistence.NewGormCreditAccountRepository(db.DB)
	creditTxRepo := persistence.NewGormCreditTransactionRepository(db.DB)
	alertRecorder := persistence.NewGormAlertRecorder(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	blockRepo := persistence.NewGormAvailabilityBlockRepository(db.DB)
	gigRepo := persistence.NewGormGigRepository(db.DB)
	applicationRepo := persistence.NewGormApplicationRepository(db.DB)
	showcaseRepo := persistence.NewGormShowcaseRepository(db.DB)
	usageCounter := persistence.NewGormUsageCounter(db.DB)

	// Event bus. Audit persistence runs before dispatch so a publish only
	// succeeds once the event is durably recorded.
	var busOpts []event.BusOption
	if cfg.Event.AuditEnabled {
		busOpts = append(busOpts, event.WithAuditStore(event.NewGormAuditStore(db.DB)))
	}
	eventBus := event.NewInMemoryEventBus(log, busOpts...)

	// Idempotency store for event handlers with non-idempotent side effects
	var idempotencyStore shared.IdempotencyStore
	if cfg.Event.IdempotencyEnabled {
		factory := cache.NewIdempotencyStoreFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(!cfg.Event.RequireRedis),
		)
		idempotencyStore, err = factory.CreateStore()
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
	}

	wrapIdempotent := func(h shared.EventHandler) shared.EventHandler {
		if idempotencyStore == nil {
			return h
		}
		return event.NewIdempotentHandler(h, idempotencyStore, log,
			event.WithIdempotencyConfig(shared.IdempotencyConfig{
				TTL:     cfg.Event.IdempotencyTTL,
				Enabled: true,
			}),
		)
	}

	// Payment gateway
	stripeConfig := &payment.StripeConfig{
		SecretKey:      cfg.Stripe.SecretKey,
		PublishableKey: cfg.Stripe.PublishableKey,
		WebhookSecret:  cfg.Stripe.WebhookSecret,
		IsTestMode:     cfg.Stripe.IsTestMode,
	}
	stripeConfig.InitStripeClient()
	stripeGateway, err := payment.NewStripeAdapter(stripeConfig, log)
	if err != nil {
		log.Fatal("Failed to initialize Stripe adapter", zap.Error(err))
	}

	// Application services
	enforcer := subscriptionapp.NewEnforcer(userRepo, usageCounter, log)
	ledgerService := creditapp.NewLedgerService(creditAccountRepo, creditTxRepo, persistence.NewGormLedgerUnitOfWork(db.DB), alertRecorder, eventBus, log)
	gigService := gigapp.NewGigService(gigRepo, applicationRepo, enforcer, ledgerService, eventBus, log)
	showcaseService := showcaseapp.NewShowcaseService(showcaseRepo, enforcer, eventBus, log)
	listingService := marketplaceapp.NewListingService(listingRepo, blockRepo, orderRepo, log)
	orderService := marketplaceapp.NewOrderService(listingRepo, orderRepo, blockRepo, stripeGateway, eventBus, log)
	userService := identityapp.NewUserService(userRepo, ledgerService, eventBus, log)
	webhookService := marketplaceapp.NewStripeWebhookService(cfg.Stripe.WebhookSecret, orderService, log)

	// Event handlers. Notification delivery is a no-op until a channel is
	// configured; the handlers still exercise the dispatch and audit path.
	eventBus.Subscribe(
		wrapIdempotent(gigapp.NewApplicationSubmittedHandler(nil, log)),
	)
	eventBus.Subscribe(
		wrapIdempotent(marketplaceapp.NewOrderConfirmedHandler(nil, log)),
	)
	eventBus.Subscribe(
		wrapIdempotent(showcaseapp.NewShowcasePublishedHandler(nil, log)),
	)
	eventBus.Subscribe(
		wrapIdempotent(identityapp.NewUserRegisteredHandler(nil, ledgerService, log)),
	)
	eventBus.Subscribe(
		creditapp.NewCreditsDeductedHandler(log),
	)

	busCtx := context.Background()
	if err := eventBus.Start(busCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Warn("Event bus did not stop cleanly", zap.Error(err))
		}
	}()

	// HTTP handlers
	userHandler := handler.NewUserHandler(userService)
	creditHandler := handler.NewCreditHandler(ledgerService)
	gigHandler := handler.NewGigHandler(gigService)
	showcaseHandler := handler.NewShowcaseHandler(showcaseService)
	marketplaceHandler := handler.NewMarketplaceHandler(listingService, orderService)
	webhookHandler := handler.NewStripeWebhookHandler(webhookService)
	systemHandler := handler.NewSystemHandler()

	// Gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	engine.GET("/health", healthHandler(db, log))

	// Stripe posts here with its own signature scheme, so the webhook stays
	// outside the versioned API surface.
	webhooks := engine.Group("/webhooks")
	webhooks.POST("/stripe", webhookHandler.HandleStripeWebhook)

	// Versioned API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	users := router.NewDomainGroup("identity", "/users")
	users.POST("", userHandler.Register)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id/tier", userHandler.ChangeTier)

	credits := router.NewDomainGroup("credit", "/credits")
	credits.GET("/balance", creditHandler.GetBalance)
	credits.POST("/deduct", creditHandler.Deduct)
	credits.POST("/refund", creditHandler.Refund)
	credits.GET("/history", creditHandler.History)
	credits.POST("/referral-bonus", creditHandler.GrantReferralBonus)

	gigs := router.NewDomainGroup("gig", "/gigs")
	gigs.POST("", gigHandler.Create)
	gigs.GET("/:id", gigHandler.Get)
	gigs.POST("/:id/applications", gigHandler.Apply)
	gigs.POST("/:id/boost", gigHandler.Boost)
	gigs.POST("/:id/close", gigHandler.Close)
	gigs.POST("/:id/shortlist", gigHandler.Shortlist)
	gigs.POST("/:id/enhancements", gigHandler.ConsumeEnhancement)

	showcases := router.NewDomainGroup("showcase", "/showcases")
	showcases.POST("", showcaseHandler.Create)
	showcases.GET("/:id", showcaseHandler.Get)

	marketplace := router.NewDomainGroup("marketplace", "/marketplace")
	marketplace.POST("/listings", marketplaceHandler.CreateListing)
	marketplace.GET("/listings/:id", marketplaceHandler.GetListing)
	marketplace.POST("/listings/:id/blocks", marketplaceHandler.BlockDates)
	marketplace.GET("/listings/:id/blocks", marketplaceHandler.ListBlocks)
	marketplace.POST("/orders/rental", marketplaceHandler.CreateRentalOrder)
	marketplace.POST("/orders/sale", marketplaceHandler.CreateSaleOrder)
	marketplace.GET("/orders/:id", marketplaceHandler.GetOrder)
	marketplace.POST("/orders/:id/start", marketplaceHandler.StartOrder)
	marketplace.POST("/orders/:id/complete", marketplaceHandler.CompleteOrder)
	marketplace.POST("/orders/:id/cancel", marketplaceHandler.CancelOrder)

	system := router.NewDomainGroup("system", "/system")
	system.GET("/info", systemHandler.GetSystemInfo)
	system.GET("/ping", systemHandler.Ping)

	r.Register(users).
		Register(credits).
		Register(gigs).
		Register(showcases).
		Register(marketplace).
		Register(system)
	r.Setup()

	// HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness and database reachability
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
