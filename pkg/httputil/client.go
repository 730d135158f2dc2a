// Package httputil provides HTTP client constructors with pooled transports.
package httputil

import (
	"net/http"
	"time"
)

const (
	defaultTimeout = 30 * time.Second

	maxIdleConns        = 10
	maxIdleConnsPerHost = 2
	idleConnTimeout     = 30 * time.Second
)

// NewHTTPClient creates an HTTP client with the given timeout and a transport
// configured for connection reuse against a single API host.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        maxIdleConns,
			MaxIdleConnsPerHost: maxIdleConnsPerHost,
			IdleConnTimeout:     idleConnTimeout,
		},
	}
}

// NewDefaultHTTPClient creates an HTTP client with the default timeout.
func NewDefaultHTTPClient() *http.Client {
	return NewHTTPClient(defaultTimeout)
}
