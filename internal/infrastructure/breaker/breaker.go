// Package breaker builds circuit breakers for calls to external providers.
package breaker

import (
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Config holds circuit breaker thresholds
type Config struct {
	// ConsecutiveFailures opens the breaker after this many failures in a row
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing
	OpenTimeout time.Duration
	// HalfOpenRequests is the number of probe requests allowed when half-open
	HalfOpenRequests uint32
}

// DefaultConfig returns default thresholds
func DefaultConfig() Config {
	return Config{
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
		HalfOpenRequests:    1,
	}
}

// New creates a breaker that logs state transitions
func New[T any](name string, cfg Config, logger *zap.Logger) *gobreaker.CircuitBreaker[T] {
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = DefaultConfig().ConsecutiveFailures
	}
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

// IsOpen reports whether err was returned because the breaker rejected the call
func IsOpen(err error) bool {
	return err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests
}
