package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Storage   StorageConfig
	Stripe    StripeConfig
	Mail      MailConfig
	Shop      ShopConfig
	Checkout  CheckoutConfig
	Cart      CartConfig
	Kafka     KafkaConfig
	Outbox    OutboxConfig
	Telemetry TelemetryConfig
	HTTP      HTTPConfig
	Log       LogConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// IsProduction reports whether the service runs in production
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres, sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	AutoMigrate     bool
}

// MongoConfig holds MongoDB settings for the document cart store
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

// AdminConfig holds the static admin panel credentials
type AdminConfig struct {
	Email    string
	Password string
}

// StorageConfig holds object storage settings for product images
type StorageConfig struct {
	Driver          string // s3, local
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
	UsePathStyle    bool
	KeyPrefix       string
	LocalDir        string // root directory for the local driver
	UploadTimeout   time.Duration
	MaxConcurrency  int
	MaxImageSize    int64
}

// StripeConfig holds hosted checkout settings
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	TestMode      bool
	Timeout       time.Duration
}

// Enabled reports whether card checkout can be offered
func (s StripeConfig) Enabled() bool {
	return s.SecretKey != ""
}

// MailConfig holds SMTP settings
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	// Timeout bounds the SMTP dial and handshake
	Timeout time.Duration
}

// Enabled reports whether an SMTP server is configured
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

// ShopConfig holds pricing settings
type ShopConfig struct {
	Currency       string
	DeliveryCharge float64
}

// CheckoutConfig holds order placement settings
type CheckoutConfig struct {
	PurgeAbandoned bool
	IdempotencyTTL time.Duration
	EmailTimeout   time.Duration
}

// CartConfig holds cart store settings
type CartConfig struct {
	Store      string // gorm, mongo
	CacheTTL   time.Duration
	MaxRetries int
}

// KafkaConfig holds broker settings for the outbox relay
type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// OutboxConfig holds outbox relay settings
type OutboxConfig struct {
	Enabled          bool
	PollInterval     time.Duration
	BatchSize        int
	MaxRetries       int
	CleanupRetention time.Duration
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	DBTraceEnabled    bool
	DBSlowQueryThresh time.Duration
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	MaxUploadSize     int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	TrustedProxies    []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// Load loads configuration from config file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with STORE_ prefix (e.g., STORE_DATABASE_PASSWORD)
// 2. config.yaml / config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/storefront")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper builds the configuration from an already prepared viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("STORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			SQLitePath:      v.GetString("database.sqlite_path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			AutoMigrate:     v.GetBool("database.auto_migrate"),
		},
		Mongo: MongoConfig{
			URI:            v.GetString("mongo.uri"),
			Database:       v.GetString("mongo.database"),
			ConnectTimeout: v.GetDuration("mongo.connect_timeout"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Issuer:     v.GetString("jwt.issuer"),
			Expiration: v.GetDuration("jwt.expiration"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("admin.email"),
			Password: v.GetString("admin.password"),
		},
		Storage: StorageConfig{
			Driver:          v.GetString("storage.driver"),
			Bucket:          v.GetString("storage.bucket"),
			Region:          v.GetString("storage.region"),
			Endpoint:        v.GetString("storage.endpoint"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			PublicBaseURL:   v.GetString("storage.public_base_url"),
			UsePathStyle:    v.GetBool("storage.use_path_style"),
			KeyPrefix:       v.GetString("storage.key_prefix"),
			LocalDir:        v.GetString("storage.local_dir"),
			UploadTimeout:   v.GetDuration("storage.upload_timeout"),
			MaxConcurrency:  v.GetInt("storage.max_concurrency"),
			MaxImageSize:    v.GetInt64("storage.max_image_size"),
		},
		Stripe: StripeConfig{
			SecretKey:     v.GetString("stripe.secret_key"),
			WebhookSecret: v.GetString("stripe.webhook_secret"),
			TestMode:      v.GetBool("stripe.test_mode"),
			Timeout:       v.GetDuration("stripe.timeout"),
		},
		Mail: MailConfig{
			Host:     v.GetString("mail.host"),
			Port:     v.GetInt("mail.port"),
			Username: v.GetString("mail.username"),
			Password: v.GetString("mail.password"),
			From:     v.GetString("mail.from"),
			FromName: v.GetString("mail.from_name"),
			Timeout:  v.GetDuration("mail.timeout"),
		},
		Shop: ShopConfig{
			Currency:       v.GetString("shop.currency"),
			DeliveryCharge: v.GetFloat64("shop.delivery_charge"),
		},
		Checkout: CheckoutConfig{
			PurgeAbandoned: v.GetBool("checkout.purge_abandoned"),
			IdempotencyTTL: v.GetDuration("checkout.idempotency_ttl"),
			EmailTimeout:   v.GetDuration("checkout.email_timeout"),
		},
		Cart: CartConfig{
			Store:      v.GetString("cart.store"),
			CacheTTL:   v.GetDuration("cart.cache_ttl"),
			MaxRetries: v.GetInt("cart.max_retries"),
		},
		Kafka: KafkaConfig{
			Enabled:      v.GetBool("kafka.enabled"),
			Brokers:      v.GetStringSlice("kafka.brokers"),
			Topic:        v.GetString("kafka.topic"),
			WriteTimeout: v.GetDuration("kafka.write_timeout"),
		},
		Outbox: OutboxConfig{
			Enabled:          v.GetBool("outbox.enabled"),
			PollInterval:     v.GetDuration("outbox.poll_interval"),
			BatchSize:        v.GetInt("outbox.batch_size"),
			MaxRetries:       v.GetInt("outbox.max_retries"),
			CleanupRetention: v.GetDuration("outbox.cleanup_retention"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			MaxUploadSize:     v.GetInt64("http.max_upload_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	// Delivery charge may legitimately be zero, so only default when unset
	if !v.IsSet("shop.delivery_charge") {
		cfg.Shop.DeliveryCharge = 10
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "clothing-store"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "4000"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "storefront"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "storefront.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = "mongodb://localhost:27017"
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "e-commerce"
	}
	if cfg.Mongo.ConnectTimeout == 0 {
		cfg.Mongo.ConnectTimeout = 10 * time.Second
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "clothing-store"
	}
	if cfg.JWT.Expiration == 0 {
		cfg.JWT.Expiration = 7 * 24 * time.Hour
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "s3"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.KeyPrefix == "" {
		cfg.Storage.KeyPrefix = "products"
	}
	if cfg.Storage.LocalDir == "" {
		cfg.Storage.LocalDir = "uploads"
	}
	if cfg.Storage.UploadTimeout == 0 {
		cfg.Storage.UploadTimeout = 30 * time.Second
	}
	if cfg.Storage.MaxConcurrency == 0 {
		cfg.Storage.MaxConcurrency = 4
	}
	if cfg.Storage.MaxImageSize == 0 {
		cfg.Storage.MaxImageSize = 5 << 20 // 5MB
	}
	if cfg.Stripe.Timeout == 0 {
		cfg.Stripe.Timeout = 15 * time.Second
	}
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = 587
	}
	if cfg.Mail.Timeout == 0 {
		cfg.Mail.Timeout = 10 * time.Second
	}
	if cfg.Mail.FromName == "" {
		cfg.Mail.FromName = "Clothing E-commerce"
	}
	if cfg.Shop.Currency == "" {
		cfg.Shop.Currency = "inr"
	}
	if cfg.Checkout.IdempotencyTTL == 0 {
		cfg.Checkout.IdempotencyTTL = 24 * time.Hour
	}
	if cfg.Checkout.EmailTimeout == 0 {
		cfg.Checkout.EmailTimeout = 30 * time.Second
	}
	if cfg.Cart.Store == "" {
		cfg.Cart.Store = "gorm"
	}
	if cfg.Cart.CacheTTL == 0 {
		cfg.Cart.CacheTTL = 10 * time.Minute
	}
	if cfg.Cart.MaxRetries == 0 {
		cfg.Cart.MaxRetries = 3
	}
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{"localhost:9092"}
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "order-events"
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = 10 * time.Second
	}
	if cfg.Outbox.PollInterval == 0 {
		cfg.Outbox.PollInterval = 5 * time.Second
	}
	if cfg.Outbox.BatchSize == 0 {
		cfg.Outbox.BatchSize = 100
	}
	if cfg.Outbox.MaxRetries == 0 {
		cfg.Outbox.MaxRetries = 5
	}
	if cfg.Outbox.CleanupRetention == 0 {
		cfg.Outbox.CleanupRetention = 168 * time.Hour
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxUploadSize == 0 {
		cfg.HTTP.MaxUploadSize = 25 << 20 // 25MB, four images plus fields
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("database.port out of range: %d", c.Database.Port)
	}

	switch c.Cart.Store {
	case "gorm", "mongo":
	default:
		return fmt.Errorf("cart.store must be gorm or mongo, got %q", c.Cart.Store)
	}
	switch c.Storage.Driver {
	case "s3", "local":
	default:
		return fmt.Errorf("storage.driver must be s3 or local, got %q", c.Storage.Driver)
	}

	if c.Shop.DeliveryCharge < 0 {
		return fmt.Errorf("shop.delivery_charge cannot be negative")
	}
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}

	if c.App.IsProduction() {
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Admin.Email == "" || c.Admin.Password == "" {
			return fmt.Errorf("admin.email and admin.password are required in production")
		}
		if c.Database.Driver == "postgres" && c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Stripe.Enabled() && c.Stripe.WebhookSecret == "" {
			return fmt.Errorf("stripe.webhook_secret is required in production when stripe is enabled")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	} else if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
