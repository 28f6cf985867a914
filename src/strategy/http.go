// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package strategy

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

// HTTPConfig holds HTTP client configuration for revocation lookups.
type HTTPConfig struct {
	Version   string // Application version for User-Agent
	UserAgent string // Custom User-Agent string, if empty will be constructed from Version

	mu      sync.Mutex
	timeout time.Duration
	client  *http.Client
}

// NewHTTPConfig creates a new HTTP configuration with a timeout of 10
// seconds and the provided application version.
func NewHTTPConfig(version string) *HTTPConfig {
	return &HTTPConfig{
		timeout: 10 * time.Second,
		Version: version,
	}
}

// GetUserAgent returns the User-Agent string, constructing it if not set.
func (c *HTTPConfig) GetUserAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return fmt.Sprintf("TLS-Context-Builder/%s (+https://github.com/H0llyW00dzZ/tls-context-builder)", c.Version)
}

// Timeout returns the request timeout of clients returned by [HTTPConfig.Client].
func (c *HTTPConfig) Timeout() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeout
}

// SetTimeout changes the request timeout. Clients already returned by
// [HTTPConfig.Client] keep the timeout they were created with.
func (c *HTTPConfig) SetTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d != c.timeout {
		c.timeout = d
		c.client = nil
	}
}

// Client returns an HTTP client configured with the current timeout. A
// returned client is never modified afterwards.
//
// Thread Safety: Safe for concurrent use.
func (c *HTTPConfig) Client() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	return c.client
}
