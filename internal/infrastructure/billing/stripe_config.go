package billing

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// StripeConfig configures the hosted checkout gateway
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	// TestMode expects a test key; live mode refuses one
	TestMode bool
	// Timeout bounds one API call; zero leaves only the caller's deadline
	Timeout time.Duration
}

var errMissingSecretKey = errors.New("stripe: missing secret key")

func isTestKey(key string) bool {
	return strings.HasPrefix(key, "sk_test_") || strings.HasPrefix(key, "rk_test_")
}

// Validate checks that a key is present and matches the configured mode
func (c *StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return errMissingSecretKey
	}
	if test := isTestKey(c.SecretKey); test != c.TestMode {
		kind := "live"
		if test {
			kind = "test"
		}
		return fmt.Errorf("stripe: %s key used with test mode %t", kind, c.TestMode)
	}
	return nil
}
