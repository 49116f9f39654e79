// Package v1 groups the modules that make up version 1 of the API.
// New endpoints are added by registering them in a module listed here; the
// router only mounts the group under its prefix.
package v1

import (
	"kb_backend/internal/greetings"
	"kb_backend/internal/health"
	apphttp "kb_backend/internal/http"
)

// Modules returns the v1 module group in registration order.
func Modules() []apphttp.Module {
	return []apphttp.Module{
		health.NewModule(),
		greetings.NewModule(),
	}
}
