package handler

import (
	"kb_backend/internal/greetings/service"
	"kb_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for greetings.
type Handler struct {
	svc *service.Service
}

// New creates a new greetings handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Root returns the fixed greeting.
// GET /api/v1/
func (h *Handler) Root(c *gin.Context) {
	httpkit.OK(c, h.svc.Root())
}

// Hello greets the optional name query parameter.
// An absent parameter means "World"; a present but empty one is kept as is.
// GET /api/v1/hello
func (h *Handler) Hello(c *gin.Context) {
	name, ok := c.GetQuery("name")
	if !ok {
		name = service.DefaultName
	}
	httpkit.OK(c, h.svc.Hello(name))
}
