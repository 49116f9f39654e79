package httpkit

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"kb_backend/platform/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	headerOrigin             = "Origin"
	headerRequestMethod      = "Access-Control-Request-Method"
	headerRequestHeaders     = "Access-Control-Request-Headers"
	headerAllowHeaders       = "Access-Control-Allow-Headers"
	corsPreflightCacheMaxAge = 10 * time.Minute
	corsWildcardOrigin       = "*"
)

// allowedMethods lists every method net/http knows about; only origins and
// credentials are configurable.
var allowedMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodConnect,
	http.MethodOptions,
	http.MethodTrace,
}

type corsPolicy struct {
	allowAll bool
	origins  map[string]struct{}
	apply    gin.HandlerFunc
}

func (p *corsPolicy) allowed(origin string) bool {
	if p.allowAll {
		return true
	}
	_, ok := p.origins[origin]
	return ok
}

// CORS builds the CORS middleware from configured origins and the
// credentials flag. All methods and headers are allowed.
//
// Origins are compared verbatim, so any configured string is accepted.
// A simple request from a foreign origin is served without CORS headers;
// only a preflight from a foreign origin is rejected.
func CORS(cfg config.CORSConfig) (gin.HandlerFunc, error) {
	origins := cfg.GetCORSOrigins()

	policy := &corsPolicy{
		allowAll: slices.Contains(origins, corsWildcardOrigin),
		origins:  make(map[string]struct{}, len(origins)),
	}
	for _, origin := range origins {
		policy.origins[origin] = struct{}{}
	}

	// Allow-Headers is echoed per preflight, so AllowHeaders stays empty.
	corsCfg := cors.Config{
		AllowMethods:     allowedMethods,
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           corsPreflightCacheMaxAge,
	}
	if policy.allowAll {
		if corsCfg.AllowCredentials {
			return nil, fmt.Errorf("cors: credentials cannot be allowed for wildcard origins")
		}
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOriginFunc = policy.allowed
	}

	if err := corsCfg.Validate(); err != nil {
		return nil, fmt.Errorf("cors: %w", err)
	}
	policy.apply = cors.New(corsCfg)

	return policy.handle, nil
}

func (p *corsPolicy) handle(c *gin.Context) {
	origin := c.GetHeader(headerOrigin)
	if origin == "" {
		c.Next()
		return
	}

	preflight := c.Request.Method == http.MethodOptions && c.GetHeader(headerRequestMethod) != ""
	if !preflight {
		// A bare OPTIONS is not a preflight and goes to the router as is.
		if c.Request.Method == http.MethodOptions || !p.allowed(origin) {
			c.Next()
			return
		}
		p.apply(c)
		c.Next()
		return
	}

	if requested := c.GetHeader(headerRequestHeaders); requested != "" && p.allowed(origin) {
		c.Header(headerAllowHeaders, requested)
	}
	p.apply(c)
}
