package fetcher

import (
	"fmt"
	"time"
)

// Config controls content fetching behavior and safety limits.
type Config struct {
	// Timeout is the per-request deadline.
	Timeout time.Duration

	// MaxBodySize caps the HTTP response body. Enforced while reading,
	// not from the Content-Length header.
	MaxBodySize int64

	// MaxRedirects caps redirect chains. Every redirect target is
	// re-validated against the private-IP rules.
	MaxRedirects int

	// DenyPrivateIPs rejects URLs resolving to private, loopback, or
	// link-local addresses. Always true in production.
	DenyPrivateIPs bool
}

// DefaultConfig returns production-safe fetch limits.
func DefaultConfig() Config {
	return Config{
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
	}
}

// Validate rejects configurations that would disable the safety limits.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxBodySize <= 0 {
		return fmt.Errorf("max body size must be positive, got %d", c.MaxBodySize)
	}
	if c.MaxRedirects < 0 {
		return fmt.Errorf("max redirects must be non-negative, got %d", c.MaxRedirects)
	}
	return nil
}
