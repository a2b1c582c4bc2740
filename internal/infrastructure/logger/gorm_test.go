package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func sqlFunc(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestNewGormLogger_Options(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Warn,
		WithSlowThreshold(time.Second),
		WithRecordNotFound(true))

	assert.Equal(t, gormlogger.Warn, gl.level)
	assert.Equal(t, time.Second, gl.slow)
	assert.True(t, gl.logNotFound)

	assert.Equal(t, defaultSlowQuery, NewGormLogger(zap.NewNop(), gormlogger.Info).slow)
}

func TestGormLogger_LogModeClones(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Info)

	quiet := gl.LogMode(gormlogger.Silent).(*GormLogger)

	assert.Equal(t, gormlogger.Silent, quiet.level)
	assert.Equal(t, gormlogger.Info, gl.level)
}

func TestGormLogger_Trace(t *testing.T) {
	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-9")

	t.Run("error", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Error)

		gl.Trace(ctx, time.Now(), sqlFunc(`INSERT INTO "orders"`, 0), errors.New("duplicate key"))

		entries := logs.FilterMessage("SQL error").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])
		assert.Equal(t, "duplicate key", entries[0].ContextMap()["error"])
	})

	t.Run("record not found is ignored", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Error)

		gl.Trace(ctx, time.Now(), sqlFunc(`SELECT * FROM "users"`, 0), gormlogger.ErrRecordNotFound)

		assert.Zero(t, logs.Len())
	})

	t.Run("record not found is logged when configured", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Error, WithRecordNotFound(true))

		gl.Trace(ctx, time.Now(), sqlFunc(`SELECT * FROM "users"`, 0), gormlogger.ErrRecordNotFound)

		assert.Equal(t, 1, logs.FilterMessage("SQL error").Len())
	})

	t.Run("slow query", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(10*time.Millisecond))

		gl.Trace(ctx, time.Now().Add(-time.Second), sqlFunc(`SELECT * FROM "products"`, 12), nil)

		entries := logs.FilterMessage("Slow SQL").All()
		require.Len(t, entries, 1)
		assert.Equal(t, int64(12), entries[0].ContextMap()["rows"])
	})

	t.Run("fast query at warn level is not rendered", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn)
		rendered := false

		gl.Trace(ctx, time.Now(), func() (string, int64) {
			rendered = true
			return "SELECT 1", 1
		}, nil)

		assert.False(t, rendered)
		assert.Zero(t, logs.Len())
	})

	t.Run("info logs every query at debug", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Info)

		gl.Trace(ctx, time.Now(), sqlFunc("SELECT 1", 1), nil)

		entries := logs.FilterMessage("SQL query").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	})

	t.Run("silent", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Silent)

		gl.Trace(ctx, time.Now(), sqlFunc("SELECT 1", 1), errors.New("x"))

		assert.Zero(t, logs.Len())
	})
}

func TestGormLogger_Messages(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn)

	gl.Info(context.Background(), "migrated %d tables", 3)
	gl.Warn(context.Background(), "deprecated %s", "column")
	gl.Error(context.Background(), "failed %s", "ping")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "deprecated column", logs.All()[0].Message)
	assert.Equal(t, "failed ping", logs.All()[1].Message)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("other"))
}
