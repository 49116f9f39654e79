// Package httpkit provides HTTP middleware infrastructure.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"context"
	"net/http"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"kb_backend/platform/httpclient"
	"kb_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// ContextHTTPClientKey is the gin context key for the shared outbound client.
	ContextHTTPClientKey = "httpClient"
	// ContextRequestIDKey is the gin context key for the request ID.
	ContextRequestIDKey = "requestID"

	// HeaderRequestID carries the request ID in both directions.
	HeaderRequestID = "X-Request-ID"

	msgInternalServerError = "Internal Server Error"
)

// RequestID propagates an incoming X-Request-ID or assigns a new one, and
// stores it in both the gin context and the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, requestID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID))
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}

// RequestLogger logs HTTP requests with timing. Server errors recorded on
// the context by HandleError are logged as http_error instead.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		reqLog := log.WithContext(c.Request.Context())
		if last := c.Errors.Last(); last != nil && status >= http.StatusInternalServerError {
			reqLog.HTTPError(c.Request.Method, path, status, last.Err, c.ClientIP())
			return
		}
		reqLog.HTTPRequest(c.Request.Method, path, status, float64(latency.Microseconds())/1000, c.ClientIP())
	}
}

// Recovery turns panics into a logged 500 so the server keeps serving.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				panicRecoveries.Inc()
				log.WithContext(c.Request.Context()).Error("panic recovered",
					"panic", r,
					"stack", string(debug.Stack()),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Detail: msgInternalServerError})
			}
		}()
		c.Next()
	}
}

// SecurityHeaders adds security headers to responses.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")

		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// SharedClient exposes the application's outbound client to handlers.
func SharedClient(client httpclient.Shared) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextHTTPClientKey, client)
		c.Next()
	}
}

// HTTPClient returns the shared outbound client attached by SharedClient,
// or nil when none is attached.
func HTTPClient(c *gin.Context) httpclient.Shared {
	value, ok := c.Get(ContextHTTPClientKey)
	if !ok {
		return nil
	}
	client, _ := value.(httpclient.Shared)
	return client
}

// limiterIdleTTL is how long a client IP may stay silent before its limiter
// is dropped.
const limiterIdleTTL = 5 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// IPRateLimiter manages per-IP rate limiters. Limiters idle for longer than
// limiterIdleTTL are evicted, so memory tracks active clients only.
type IPRateLimiter struct {
	limiters  sync.Map
	rate      rate.Limit
	burst     int
	exempt    map[string]struct{}
	log       *logger.Logger
	idleTTL   time.Duration
	lastSweep atomic.Int64
	now       func() time.Time
}

// NewIPRateLimiter creates a new IP-based rate limiter. Requests whose
// matched route is listed in exempt are never throttled.
func NewIPRateLimiter(r rate.Limit, burst int, log *logger.Logger, exempt ...string) *IPRateLimiter {
	skip := make(map[string]struct{}, len(exempt))
	for _, path := range exempt {
		skip[path] = struct{}{}
	}
	i := &IPRateLimiter{
		rate:    r,
		burst:   burst,
		exempt:  skip,
		log:     log,
		idleTTL: limiterIdleTTL,
		now:     time.Now,
	}
	i.lastSweep.Store(i.now().UnixNano())
	return i
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	now := i.now().UnixNano()
	i.evictIdle(now)

	value, ok := i.limiters.Load(ip)
	if !ok {
		entry := &ipLimiter{limiter: rate.NewLimiter(i.rate, i.burst)}
		entry.lastSeen.Store(now)
		value, _ = i.limiters.LoadOrStore(ip, entry)
	}
	entry := value.(*ipLimiter)
	entry.lastSeen.Store(now)
	return entry.limiter
}

// evictIdle sweeps at most once per idleTTL; only the caller that wins the
// swap walks the map.
func (i *IPRateLimiter) evictIdle(now int64) {
	last := i.lastSweep.Load()
	ttl := i.idleTTL.Nanoseconds()
	if now-last < ttl || !i.lastSweep.CompareAndSwap(last, now) {
		return
	}
	i.limiters.Range(func(key, value any) bool {
		if now-value.(*ipLimiter).lastSeen.Load() >= ttl {
			i.limiters.Delete(key)
		}
		return true
	})
}

// RateLimit returns a middleware that rate limits by IP.
func (i *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := i.exempt[c.FullPath()]; ok {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if !i.getLimiter(ip).Allow() {
			rateLimitRejects.Inc()
			if i.log != nil {
				i.log.RateLimitExceeded(ip, c.Request.URL.Path)
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Detail: "Too Many Requests"})
			return
		}

		c.Next()
	}
}
