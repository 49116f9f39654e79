// Package router assembles the Gin engine: global middleware, the versioned
// API group and operational endpoints.
package router

import (
	"fmt"

	apphttp "kb_backend/internal/http"
	"kb_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// APIV1Prefix is where the v1 module group is mounted.
	APIV1Prefix = "/api/v1"
	// HealthPath is the liveness probe route, exempt from rate limiting.
	HealthPath = APIV1Prefix + "/health"
	// MetricsPath serves Prometheus metrics when enabled.
	MetricsPath = "/metrics"
)

// New builds the engine for app. It fails when the CORS settings cannot be
// turned into a valid policy.
func New(app *apphttp.App) (*gin.Engine, error) {
	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	corsMiddleware, err := httpkit.CORS(app.Config)
	if err != nil {
		return nil, fmt.Errorf("configuring cors: %w", err)
	}

	engine.Use(httpkit.Recovery(app.Logger))
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	if app.Config.IsMetricsEnabled() {
		engine.Use(httpkit.Metrics())
	}
	engine.Use(corsMiddleware)
	engine.Use(httpkit.SecurityHeaders())
	if rps := app.Config.GetRateLimitRPS(); rps > 0 {
		limiter := httpkit.NewIPRateLimiter(rate.Limit(rps), app.Config.GetRateLimitBurst(), app.Logger, HealthPath)
		engine.Use(limiter.RateLimit())
	}
	if app.HTTPClient != nil {
		engine.Use(httpkit.SharedClient(app.HTTPClient))
	}

	engine.NoRoute(httpkit.NotFound())
	engine.NoMethod(httpkit.MethodNotAllowed())

	if app.Config.IsMetricsEnabled() {
		engine.GET(MetricsPath, httpkit.MetricsHandler())
	}

	ctx := &apphttp.RouterContext{
		Engine: engine,
		V1:     engine.Group(APIV1Prefix),
	}
	for _, module := range app.Modules {
		module.RegisterRoutes(ctx)
		app.Logger.Debug("registered module routes", "module", module.Name())
	}

	return engine, nil
}
