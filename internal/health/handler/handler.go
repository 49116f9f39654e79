package handler

import (
	"kb_backend/internal/health/transport"
	"kb_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Check is the liveness probe. It touches no downstream resource so it only
// reports whether the process is serving.
// GET /api/v1/health
func Check(c *gin.Context) {
	httpkit.OK(c, transport.HealthResponse{Status: transport.StatusHealthy})
}
