package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	catalogapp "github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/catalog"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/notification"
	tradeapp "github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/trade"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/cart"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/billing"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/cache"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/config"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/event"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/logger"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/mail"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/migration"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/mongodb"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/persistence"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/persistence/models"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/storage"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/telemetry"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/interfaces/http/handler"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/migrations"
	"go.uber.org/zap"
)

// openDatabase connects, installs query tracing and brings the schema up to date
func openDatabase(cfg *config.Config, log *zap.Logger) (*persistence.Database, error) {
	var opts []logger.GormLoggerOption
	if cfg.Telemetry.DBSlowQueryThresh > 0 {
		opts = append(opts, logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	}
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), opts...)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return nil, err
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	tracing := telemetry.DefaultDBTracingConfig()
	tracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	tracing.DBName = cfg.Database.DBName
	if cfg.Telemetry.DBSlowQueryThresh > 0 {
		tracing.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
	}
	if err := telemetry.RegisterDBTracing(db.DB, tracing, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := migrateSchema(cfg, db, log); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// migrateSchema runs the embedded SQL migrations on postgres. SQLite, used
// for local runs, is created from the models instead.
func migrateSchema(cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if !cfg.Database.AutoMigrate {
		return nil
	}
	if cfg.Database.Driver == "sqlite" {
		if err := db.DB.AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("auto-migrate failed: %w", err)
		}
		return nil
	}

	sqlDB, err := db.SQL()
	if err != nil {
		return err
	}
	m, err := migration.NewFromFS(sqlDB, migrations.FS, ".", log)
	if err != nil {
		return err
	}
	// Close would also close sqlDB, which the server keeps using
	return m.Up()
}

// infrastructure holds the optional backends selected by configuration
type infrastructure struct {
	redis     *redis.Client
	images    catalogapp.ImageStorage
	carts     cart.Repository
	cartCache cart.Cache
	publisher shared.EventPublisher
	checks    []handler.Check
	closers   []func() error
	log       *zap.Logger
}

func buildInfra(ctx context.Context, cfg *config.Config, db *persistence.Database, log *zap.Logger) (*infrastructure, error) {
	infra := &infrastructure{log: log}
	steps := []func(context.Context, *config.Config, *persistence.Database) error{
		infra.connectRedis,
		infra.openImageStorage,
		infra.openCartStore,
		infra.openPublisher,
	}
	for _, step := range steps {
		if err := step(ctx, cfg, db); err != nil {
			infra.Close()
			return nil, err
		}
	}
	return infra, nil
}

func (i *infrastructure) connectRedis(ctx context.Context, cfg *config.Config, _ *persistence.Database) error {
	if !cfg.Redis.Enabled {
		i.log.Info("Redis disabled; carts and listings are not cached")
		return nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	i.redis = client
	i.cartCache = cache.NewRedisCartCache(client, cfg.Cart.CacheTTL)
	i.closers = append(i.closers, client.Close)
	i.checks = append(i.checks, handler.Check{Name: "redis", Ping: func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}})
	i.log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	return nil
}

// redisUniversal avoids handing a typed nil client to interface consumers
func (i *infrastructure) redisUniversal() redis.UniversalClient {
	if i.redis == nil {
		return nil
	}
	return i.redis
}

func (i *infrastructure) openImageStorage(ctx context.Context, cfg *config.Config, _ *persistence.Database) error {
	switch cfg.Storage.Driver {
	case "local":
		base := cfg.Storage.PublicBaseURL
		if base == "" {
			base = "http://localhost:" + cfg.App.Port + uploadsPath
		}
		local, err := storage.NewLocalImageStorage(cfg.Storage.LocalDir, base)
		if err != nil {
			return err
		}
		i.images = local
	default:
		s3, err := storage.NewS3ImageStorage(ctx, &cfg.Storage, storage.WithLogger(i.log))
		if err != nil {
			return err
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			i.log.Warn("Image bucket check failed", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
		}
		i.images = s3
	}
	i.log.Info("Image storage ready", zap.String("driver", cfg.Storage.Driver))
	return nil
}

func (i *infrastructure) openCartStore(ctx context.Context, cfg *config.Config, db *persistence.Database) error {
	if cfg.Cart.Store != "mongo" {
		i.carts = persistence.NewGormCartRepository(db.DB)
		return nil
	}
	client, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	i.closers = append(i.closers, func() error { return client.Disconnect(context.Background()) })
	repo := mongodb.NewCartRepository(client.Database(cfg.Mongo.Database))
	if err := repo.CreateIndexes(ctx); err != nil {
		return err
	}
	i.carts = repo
	i.checks = append(i.checks, handler.Check{Name: "mongo", Ping: func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	}})
	i.log.Info("Carts stored in MongoDB", zap.String("database", cfg.Mongo.Database))
	return nil
}

func (i *infrastructure) openPublisher(_ context.Context, cfg *config.Config, _ *persistence.Database) error {
	if cfg.Kafka.Enabled {
		p := event.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.WriteTimeout, i.log)
		i.publisher = p
		i.log.Info("Outbox relays to Kafka",
			zap.String("brokers", strings.Join(cfg.Kafka.Brokers, ",")),
			zap.String("topic", cfg.Kafka.Topic))
	} else {
		i.publisher = event.NewLogPublisher(i.log)
	}
	i.closers = append(i.closers, i.publisher.Close)
	return nil
}

// Close releases backends in reverse order of opening
func (i *infrastructure) Close() {
	for n := len(i.closers) - 1; n >= 0; n-- {
		if err := i.closers[n](); err != nil {
			i.log.Warn("Error closing backend", zap.Error(err))
		}
	}
}

func newMailer(cfg *config.Config, log *zap.Logger) (notification.Mailer, error) {
	if !cfg.Mail.Enabled() {
		log.Warn("SMTP not configured; emails are logged instead of sent")
		return mail.NewLogMailer(log), nil
	}
	return mail.NewSMTPMailer(mail.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		FromName: cfg.Mail.FromName,
		Timeout:  cfg.Mail.Timeout,
	}, log)
}

// newPaymentGateway returns nil when Stripe is not configured, in which
// case card checkout answers PAYMENT_GATEWAY_ERROR
func newPaymentGateway(cfg *config.Config, log *zap.Logger) (tradeapp.PaymentGateway, error) {
	if !cfg.Stripe.Enabled() {
		log.Warn("Stripe not configured; card checkout is disabled")
		return nil, nil
	}
	gateway, err := billing.NewStripeGateway(&billing.StripeConfig{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		TestMode:      cfg.Stripe.TestMode,
		Timeout:       cfg.Stripe.Timeout,
	}, log)
	if err != nil {
		return nil, err
	}
	return gateway, nil
}
