package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database spans
type DBTracingConfig struct {
	Enabled         bool
	DBName          string
	SlowQueryThresh time.Duration
	// WithVariables includes bound query values in spans. Keep off outside development.
	WithVariables bool
}

// DefaultDBTracingConfig returns the production defaults
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		DBName:          "postgresql",
		SlowQueryThresh: 200 * time.Millisecond,
	}
}

type queryStartKey struct{}

// RegisterDBTracing installs otelgorm plus callbacks that tag slow and failed queries
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.WithVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { annotateQuerySpan(tx, cfg.SlowQueryThresh) }

	cb := db.Callback()
	registrations := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("store_trace:before_create", before) },
		func() error { return cb.Create().After("gorm:create").Register("store_trace:after_create", after) },
		func() error { return cb.Query().Before("gorm:query").Register("store_trace:before_query", before) },
		func() error { return cb.Query().After("gorm:query").Register("store_trace:after_query", after) },
		func() error { return cb.Update().Before("gorm:update").Register("store_trace:before_update", before) },
		func() error { return cb.Update().After("gorm:update").Register("store_trace:after_update", after) },
		func() error { return cb.Delete().Before("gorm:delete").Register("store_trace:before_delete", before) },
		func() error { return cb.Delete().After("gorm:delete").Register("store_trace:after_delete", after) },
		func() error { return cb.Row().Before("gorm:row").Register("store_trace:before_row", before) },
		func() error { return cb.Row().After("gorm:row").Register("store_trace:after_row", after) },
		func() error { return cb.Raw().Before("gorm:raw").Register("store_trace:before_raw", before) },
		func() error { return cb.Raw().After("gorm:raw").Register("store_trace:after_raw", after) },
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled",
		zap.String("db_name", cfg.DBName),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh))
	return nil
}

func annotateQuerySpan(tx *gorm.DB, slowThresh time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.RecordError(tx.Error)
		span.SetStatus(codes.Error, tx.Error.Error())
	}
	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok && slowThresh > 0 {
		if elapsed := time.Since(start); elapsed > slowThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
