package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the GORM handle shared by all repositories
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens cfg with GORM's own logging silenced
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	return NewDatabaseWithLogger(cfg, logger.Default.LogMode(logger.Silent))
}

// NewDatabaseWithLogger opens cfg, sizes the pool and pings once
func NewDatabaseWithLogger(cfg *config.DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}
	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            cfg.Driver == "postgres",
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	db := &Database{DB: gdb}
	pool, err := db.SQL()
	if err != nil {
		return nil, err
	}
	configurePool(pool, cfg)
	if err := pool.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func configurePool(pool *sql.DB, cfg *config.DatabaseConfig) {
	if cfg.Driver == "sqlite" {
		// in-memory sqlite is per connection
		pool.SetMaxOpenConns(1)
	} else {
		pool.SetMaxOpenConns(cfg.MaxOpenConns)
		pool.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres", "":
		return postgres.Open(cfg.DSN()), nil
	case "sqlite":
		return sqlite.Open(cfg.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// SQL returns the pool under GORM, for migrations and pool metrics
func (d *Database) SQL() (*sql.DB, error) {
	pool, err := d.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("database pool: %w", err)
	}
	return pool, nil
}

func (d *Database) Close() error {
	pool, err := d.SQL()
	if err != nil {
		return err
	}
	return pool.Close()
}

// Ping backs the readiness check
func (d *Database) Ping(ctx context.Context) error {
	pool, err := d.SQL()
	if err != nil {
		return err
	}
	return pool.PingContext(ctx)
}

type txKey struct{}

// GormTransactor implements shared.Transactor. The transaction is carried in
// the context so every repository built on dbFor joins it.
type GormTransactor struct {
	db *gorm.DB
}

// NewGormTransactor creates a new GormTransactor
func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

// WithinTransaction runs fn in a transaction. A context that already carries
// a transaction reuses it, so nested calls commit with the outermost one.
func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFor returns the transaction carried by ctx, or db bound to ctx
func dbFor(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// DBFromContext exposes dbFor to adapters outside this package
func DBFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	return dbFor(ctx, db)
}

var _ shared.Transactor = (*GormTransactor)(nil)
