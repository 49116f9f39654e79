// Package health provides the liveness endpoint of the v1 API.
package health

import (
	"kb_backend/internal/health/handler"
	apphttp "kb_backend/internal/http"
)

// Module is the health module implementing http.Module.
type Module struct{}

// NewModule creates the health module.
func NewModule() *Module {
	return &Module{}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "health"
}

// RegisterRoutes mounts the health route on the v1 group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/health", handler.Check)
}
