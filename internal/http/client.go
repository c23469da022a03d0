// Package http provides HTTP client utilities with connection pooling and retry logic.
package http

import (
	"net/http"
	"time"

	"sentix/internal/config"
)

// ClientConfig configures the HTTP client behavior.
type ClientConfig struct {
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
}

// DefaultClientConfig returns the default HTTP client configuration.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:             config.HTTPTimeout,
		MaxIdleConns:        config.HTTPMaxIdleConns,
		MaxIdleConnsPerHost: config.HTTPMaxIdleConnsPerHost,
		IdleConnTimeout:     config.HTTPIdleConnTimeout,
	}
}

// WithTimeout returns a copy of cfg using timeout. Zero disables the client
// timeout so that the caller's context alone bounds the request.
func (cfg ClientConfig) WithTimeout(timeout time.Duration) ClientConfig {
	cfg.Timeout = timeout
	return cfg
}

// NewPooledClient creates an HTTP client with connection pooling.
// This should be reused across requests to the same host for efficiency.
func NewPooledClient(cfg ClientConfig) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        cfg.MaxIdleConns,
			MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
			IdleConnTimeout:     cfg.IdleConnTimeout,
		},
	}
}

// NewDefaultClient creates an HTTP client with default pooling settings.
func NewDefaultClient() *http.Client {
	return NewPooledClient(DefaultClientConfig())
}

// Shared clients for different endpoints
var (
	// ProviderClient carries chat-completion and speech-to-text calls.
	ProviderClient = NewDefaultClient()

	// APIClient talks to the sentix server for short JSON requests.
	APIClient = NewPooledClient(DefaultClientConfig().WithTimeout(config.APIClientTimeout))

	// TransferClient moves video files. Uploads can take far longer than a
	// JSON call, so requests are bounded by their context instead.
	TransferClient = NewPooledClient(DefaultClientConfig().WithTimeout(0))
)
