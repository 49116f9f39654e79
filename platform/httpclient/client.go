// Package httpclient provides the shared outbound HTTP client owned by the
// application lifecycle.
// This is part of the platform layer and contains no business logic.
package httpclient

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// Shared is the handle handlers receive. It must not be closed or replaced
// by request code; the application closes it once at shutdown.
type Shared interface {
	Do(req *http.Request) (*http.Response, error)
	Close() error
}

// Client is the default Shared implementation backed by net/http.
type Client struct {
	http      *http.Client
	transport *http.Transport
	once      sync.Once
}

// New creates a client whose outbound calls are bounded by timeout.
// A zero timeout means no limit.
func New(timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &Client{
		http:      &http.Client{Timeout: timeout, Transport: transport},
		transport: transport,
	}
}

// Timeout returns the configured per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.http.Timeout
}

// Do sends req with the shared connection pool.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.http.Do(req)
}

// Close releases pooled connections. Calls after the first are no-ops.
func (c *Client) Close() error {
	c.once.Do(c.transport.CloseIdleConnections)
	return nil
}
