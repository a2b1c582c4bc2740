// Package logger builds the zap loggers used across the service and carries
// request scoped fields through context.Context.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Config selects level, encoding and sink. Output is stdout, stderr or a
// file path; Service and Environment are stamped on every entry.
type Config struct {
	Level       string
	Format      string // json or console
	Output      string
	TimeFormat  string
	Service     string
	Environment string
}

// New builds a logger from cfg. A nil cfg gives a debug console logger.
func New(cfg *Config) (*zap.Logger, error) {
	if cfg == nil {
		cfg = &Config{Level: "debug", Format: "console"}
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "json",
		EncoderConfig:    encoderConfig(cfg.TimeFormat),
		OutputPaths:      []string{sink(cfg.Output)},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields:    map[string]any{},
	}
	if cfg.Format == "console" {
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if cfg.Service != "" {
		zc.InitialFields["service"] = cfg.Service
	}
	if cfg.Environment != "" {
		zc.InitialFields["env"] = cfg.Environment
	}

	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("open log output %q: %w", cfg.Output, err)
	}
	return log, nil
}

// ParseLevel accepts zap level names case-insensitively plus "warning".
// An empty name means info.
func ParseLevel(name string) (zapcore.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "":
		return zapcore.InfoLevel, nil
	case "warning":
		return zapcore.WarnLevel, nil
	}
	level, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

func sink(output string) string {
	if output == "" {
		return "stdout"
	}
	return output
}

func encoderConfig(timeFormat string) zapcore.EncoderConfig {
	if timeFormat == "" {
		timeFormat = defaultTimeFormat
	}
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeTime = zapcore.TimeEncoderOfLayout(timeFormat)
	ec.EncodeDuration = zapcore.MillisDurationEncoder
	return ec
}
