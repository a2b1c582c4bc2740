package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowQuery = 200 * time.Millisecond

// GormLogger sends GORM messages and statement traces to zap
type GormLogger struct {
	zl          *zap.Logger
	level       gormlogger.LogLevel
	slow        time.Duration
	logNotFound bool
}

// GormLoggerOption adjusts a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold flags statements slower than d. Zero turns it off.
func WithSlowThreshold(d time.Duration) GormLoggerOption {
	return func(g *GormLogger) { g.slow = d }
}

// WithRecordNotFound makes lookups that match no row count as SQL errors
func WithRecordNotFound(log bool) GormLoggerOption {
	return func(g *GormLogger) { g.logNotFound = log }
}

// NewGormLogger logs under the "gorm" name at the given GORM level
func NewGormLogger(zl *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	g := &GormLogger{
		zl:    zl.Named("gorm").WithOptions(zap.AddCallerSkip(3)),
		level: level,
		slow:  defaultSlowQuery,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *g
	cp.level = level
	return &cp
}

func (g *GormLogger) Info(_ context.Context, format string, args ...any) {
	g.printf(gormlogger.Info, zapcore.InfoLevel, format, args)
}

func (g *GormLogger) Warn(_ context.Context, format string, args ...any) {
	g.printf(gormlogger.Warn, zapcore.WarnLevel, format, args)
}

func (g *GormLogger) Error(_ context.Context, format string, args ...any) {
	g.printf(gormlogger.Error, zapcore.ErrorLevel, format, args)
}

func (g *GormLogger) printf(floor gormlogger.LogLevel, lvl zapcore.Level, format string, args []any) {
	if g.level < floor {
		return
	}
	if ce := g.zl.Check(lvl, fmt.Sprintf(format, args...)); ce != nil {
		ce.Write()
	}
}

// Trace writes one entry per finished statement: failures at error, slow
// statements at warn and everything else at debug when the level is Info.
// The SQL is rendered only when an entry is written.
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if errors.Is(err, gormlogger.ErrRecordNotFound) && !g.logNotFound {
		err = nil
	}
	elapsed := time.Since(begin)

	var (
		lvl   zapcore.Level
		msg   string
		extra []zap.Field
	)
	switch {
	case err != nil && g.level >= gormlogger.Error:
		lvl, msg, extra = zapcore.ErrorLevel, "SQL error", []zap.Field{zap.Error(err)}
	case g.slow > 0 && elapsed > g.slow && g.level >= gormlogger.Warn:
		lvl, msg, extra = zapcore.WarnLevel, "Slow SQL", []zap.Field{zap.Duration("threshold", g.slow)}
	case g.level >= gormlogger.Info:
		lvl, msg = zapcore.DebugLevel, "SQL query"
	default:
		return
	}

	statement, rows := fc()
	fields := append([]zap.Field{
		zap.String("sql", statement),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}, extra...)
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	WithTraceContext(ctx, g.zl).Log(lvl, msg, fields...)
}

var gormLevels = map[string]gormlogger.LogLevel{
	"silent": gormlogger.Silent,
	"error":  gormlogger.Error,
	"warn":   gormlogger.Warn,
	"info":   gormlogger.Info,
	"debug":  gormlogger.Info,
}

// MapGormLogLevel translates an application log level into GORM's scale.
// Unknown names fall back to Warn.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	if l, ok := gormLevels[level]; ok {
		return l
	}
	return gormlogger.Warn
}
