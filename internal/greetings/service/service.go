// Package service computes greeting responses.
package service

import (
	"fmt"

	"kb_backend/internal/greetings/transport"
)

const (
	// DefaultName is used when no name is supplied.
	DefaultName = "World"

	rootMessage = "Hello World from FastAPI!"
)

// Service builds greeting messages. It is stateless and safe for concurrent use.
type Service struct{}

// New creates a greeting service.
func New() *Service {
	return &Service{}
}

// Root returns the fixed root greeting.
func (s *Service) Root() transport.MessageResponse {
	return transport.MessageResponse{Message: rootMessage}
}

// Hello greets name verbatim; any string, including the empty one, is accepted.
func (s *Service) Hello(name string) transport.MessageResponse {
	return transport.MessageResponse{Message: fmt.Sprintf("Hello, %s from FastAPI!", name)}
}
