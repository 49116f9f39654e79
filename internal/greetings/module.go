// Package greetings provides the greeting endpoints of the v1 API.
package greetings

import (
	"kb_backend/internal/greetings/handler"
	"kb_backend/internal/greetings/service"
	apphttp "kb_backend/internal/http"
)

// Module is the greetings module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the greetings module.
func NewModule() *Module {
	return &Module{
		handler: handler.New(service.New()),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "greetings"
}

// RegisterRoutes mounts greeting routes on the v1 group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/", m.handler.Root)
	ctx.V1.GET("/hello", m.handler.Hello)
}
