package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	appcart "github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/cart"
	catalogapp "github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/catalog"
	outboxapp "github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/event"
	identityapp "github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/identity"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/notification"
	tradeapp "github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/trade"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared/valueobject"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/auth"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/cache"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/config"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/event"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/logger"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/persistence"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/telemetry"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/interfaces/http/handler"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/interfaces/http/middleware"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/interfaces/http/router"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const (
	shutdownTimeout      = 30 * time.Second
	productListCacheTTL  = 5 * time.Minute
	uploadsPath          = "/uploads"
	idempotencyKeyPrefix = "checkout:"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		TimeFormat:  "2006-01-02T15:04:05.000Z07:00",
		Service:     cfg.App.Name,
		Environment: cfg.App.Env,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	if err := run(cfg, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	shutdownTracing, err := telemetry.SetupTracing(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}()

	db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	checks := []handler.Check{{Name: "database", Ping: db.Ping}}

	infra, err := buildInfra(ctx, cfg, db, log)
	if err != nil {
		return err
	}
	defer infra.Close()
	checks = append(checks, infra.checks...)

	metrics := telemetry.NewMetrics()
	if pool, err := db.SQL(); err == nil {
		metrics.WatchDB(pool, cfg.Database.DBName)
	}
	jwtService := auth.NewJWTService(cfg.JWT)
	tx := persistence.NewGormTransactor(db.DB)
	currency := valueobject.NormalizeCurrency(cfg.Shop.Currency)
	deliveryCharge := decimal.NewFromFloat(cfg.Shop.DeliveryCharge)

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)
	outbox := event.NewOutboxWriter(outboxRepo, event.NewEventSerializer())

	// Application services
	authService := identityapp.NewAuthService(userRepo, jwtService, cfg.Admin, log)

	var productCache catalogapp.ProductListCache
	if infra.redis != nil {
		productCache = cache.NewRedisProductListCache(infra.redis, productListCacheTTL)
	}
	productService := catalogapp.NewProductService(productRepo, infra.images, productCache, outbox, tx, catalogapp.ServiceConfig{
		KeyPrefix:      cfg.Storage.KeyPrefix,
		MaxConcurrency: cfg.Storage.MaxConcurrency,
		MaxImageSize:   cfg.Storage.MaxImageSize,
		UploadTimeout:  cfg.Storage.UploadTimeout,
	}, log)

	cartService := appcart.NewCartService(infra.carts, infra.cartCache, productRepo, appcart.ServiceConfig{
		MaxRetries:     cfg.Cart.MaxRetries,
		DeliveryCharge: deliveryCharge,
	}, log)

	mailer, err := newMailer(cfg, log)
	if err != nil {
		return err
	}
	notificationService := notification.NewService(mailer, cfg.App.Name, log)

	gateway, err := newPaymentGateway(cfg, log)
	if err != nil {
		return err
	}
	idempotency, err := cache.NewIdempotencyStore(infra.redisUniversal(), cache.IdempotencyOptions{
		KeyPrefix:   idempotencyKeyPrefix,
		AllowMemory: !cfg.App.IsProduction(),
	}, log)
	if err != nil {
		return err
	}
	defer func() { _ = idempotency.Close() }()

	orderService := tradeapp.NewOrderService(tradeapp.Dependencies{
		Orders:      orderRepo,
		Products:    productRepo,
		Carts:       cartService,
		Tx:          tx,
		Gateway:     gateway,
		Mailer:      notificationService,
		Idempotency: idempotency,
		Events:      outbox,
		Recorder:    metrics,
	}, tradeapp.ServiceConfig{
		DeliveryCharge: deliveryCharge,
		Currency:       currency,
		PurgeAbandoned: cfg.Checkout.PurgeAbandoned,
		IdempotencyTTL: cfg.Checkout.IdempotencyTTL,
		EmailTimeout:   cfg.Checkout.EmailTimeout,
	}, log)

	engine, err := newEngine(cfg, log, metrics)
	if err != nil {
		return err
	}
	router.NewRouter(engine).Register(router.StoreRoutes(router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Product:      handler.NewProductHandler(productService),
		Cart:         handler.NewCartHandler(cartService),
		Order:        handler.NewOrderHandler(orderService),
		Notification: handler.NewNotificationHandler(notificationService),
		Outbox:       handler.NewOutboxHandler(outboxapp.NewOutboxService(outboxRepo, log)),
	}, router.Guards{
		User:  middleware.JWTAuthMiddleware(jwtService, log),
		Admin: middleware.AdminAuthMiddleware(jwtService, log),
	})...).Setup()
	router.RegisterSystemRoutes(engine, handler.NewSystemHandler(metrics.Handler(), checks...))
	if cfg.Storage.Driver == "local" {
		router.ServeUploads(engine, uploadsPath, cfg.Storage.LocalDir)
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if cfg.Outbox.Enabled {
		processor := event.NewOutboxProcessor(outboxRepo, infra.publisher, outboxConfig(cfg.Outbox), log,
			event.WithDeliveryRecorder(metrics))
		g.Go(func() error { return processor.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	// let in-flight confirmation emails finish before the mailer goes away
	orderService.Wait()
	if err == nil {
		log.Info("Server exited gracefully")
	}
	return err
}

func newEngine(cfg *config.Config, log *zap.Logger, metrics *telemetry.Metrics) (*gin.Engine, error) {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}
	middleware.SetupValidator()

	skip := []string{"/health", "/health/ready", "/metrics"}
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log, skip...),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORS(middleware.CORSConfig{AllowOrigins: cfg.HTTP.CORSAllowOrigins, MaxAge: 12 * time.Hour}),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize, cfg.HTTP.MaxUploadSize),
	)
	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)))
	}
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
		SkipPaths:   skip,
	})...)
	engine.Use(middleware.HTTPMetrics(metrics, skip...))
	return engine, nil
}

func outboxConfig(cfg config.OutboxConfig) event.OutboxProcessorConfig {
	out := event.DefaultOutboxProcessorConfig()
	if cfg.BatchSize > 0 {
		out.BatchSize = cfg.BatchSize
	}
	if cfg.PollInterval > 0 {
		out.PollInterval = cfg.PollInterval
	}
	if cfg.MaxRetries > 0 {
		out.MaxRetries = cfg.MaxRetries
	}
	if cfg.CleanupRetention > 0 {
		out.CleanupRetention = cfg.CleanupRetention
	}
	return out
}
