// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"kb_backend/platform/config"
	"kb_backend/platform/httpclient"
	"kb_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.MetadataConfig
}

// App holds the fully initialized application dependencies.
// This is populated by the application lifecycle at startup and passed to
// the router.
type App struct {
	// Config holds the router configuration (HTTP and metadata settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// HTTPClient is the shared outbound client, exposed to handlers through
	// request state. Handlers must not close it.
	HTTPClient httpclient.Shared
	// Modules contains the HTTP-facing modules of the v1 API.
	Modules []Module
}
