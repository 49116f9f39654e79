// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"math"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"kb_backend/platform/apperr"
	"kb_backend/platform/validator"

	"github.com/joho/godotenv"
)

const (
	// DefaultEnvFile is the dotenv file read next to the working directory.
	DefaultEnvFile = ".env"
	// DefaultCORSOrigin is used when CORS_ORIGINS resolves to nothing.
	DefaultCORSOrigin = "http://localhost:3000"

	defaultAppName        = "LLM Knowledge Base API"
	defaultAppVersion     = "0.1.0"
	defaultAppDescription = "FastAPI backend for Next.js + shadcn/ui frontend"

	opLoad = "config.Load"
)

// =============================================================================
// Scoped Config Interfaces
// =============================================================================

// MetadataConfig provides the application metadata.
type MetadataConfig interface {
	GetAppName() string
	GetAppVersion() string
	GetAppDescription() string
}

// LoggingConfig provides settings for the process-wide logger.
type LoggingConfig interface {
	GetEnv() string
	GetLogLevel() string
}

// CORSConfig provides settings for the CORS middleware.
type CORSConfig interface {
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// HTTPConfig provides settings for the HTTP router.
type HTTPConfig interface {
	CORSConfig
	GetHTTPAddr() string
	IsMetricsEnabled() bool
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// LifecycleConfig provides settings for startup and shutdown.
type LifecycleConfig interface {
	GetHTTPClientTimeout() time.Duration
	GetShutdownTimeout() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values. It is built once by
// Load and never mutated afterwards.
type Config struct {
	Env            string `env:"APP_ENV"`
	AppName        string `env:"APP_NAME"`
	AppVersion     string `env:"APP_VERSION"`
	AppDescription string `env:"APP_DESCRIPTION"`

	CORSOrigins          []string `env:"CORS_ORIGINS"`
	CORSAllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"`

	BackendPort int    `env:"BACKEND_PORT" validate:"min=0,max=65535"`
	Host        string `env:"HOST"`
	Reload      bool   `env:"RELOAD"`

	LogLevel          string        `env:"LOG_LEVEL" validate:"loglevel"`
	HTTPClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" validate:"gte=0s"`

	MetricsEnabled  bool          `env:"METRICS_ENABLED"`
	RateLimitRPS    float64       `env:"RATE_LIMIT_RPS" validate:"gte=0"`
	RateLimitBurst  int           `env:"RATE_LIMIT_BURST" validate:"min=1"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" validate:"gt=0s"`
}

// MetadataConfig implementation
func (c *Config) GetAppName() string        { return c.AppName }
func (c *Config) GetAppVersion() string     { return c.AppVersion }
func (c *Config) GetAppDescription() string { return c.AppDescription }

// LoggingConfig implementation
func (c *Config) GetEnv() string      { return c.Env }
func (c *Config) GetLogLevel() string { return c.LogLevel }

// CORSConfig implementation
func (c *Config) GetCORSOrigins() []string { return slices.Clone(c.CORSOrigins) }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCredentials }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.BackendPort))
}
func (c *Config) IsMetricsEnabled() bool   { return c.MetricsEnabled }
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// LifecycleConfig implementation
func (c *Config) GetHTTPClientTimeout() time.Duration { return c.HTTPClientTimeout }
func (c *Config) GetShutdownTimeout() time.Duration   { return c.ShutdownTimeout }

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// =============================================================================
// Loading
// =============================================================================

// Load reads configuration from the process environment and the optional
// dotenv file at envFile. A missing dotenv file is not an error. Variables set
// in the environment take precedence over the file.
func Load(envFile string) (*Config, error) {
	dotenv := map[string]string{}
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			dotenv = values
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, apperr.Wrap(apperr.KindValidation, "failed to read "+envFile, err).WithOp(opLoad)
		}
	}
	return LoadFrom(os.Environ(), dotenv)
}

// LoadFrom builds a Config from KEY=VALUE environment entries and parsed dotenv
// values. It has no side effects: equal inputs yield equal configs.
func LoadFrom(environ []string, dotenv map[string]string) (*Config, error) {
	src := newSource(environ, dotenv)
	p := &parser{src: src}

	cfg := &Config{
		Env:                  src.get("APP_ENV", "development"),
		AppName:              src.get("APP_NAME", defaultAppName),
		AppVersion:           src.get("APP_VERSION", defaultAppVersion),
		AppDescription:       src.get("APP_DESCRIPTION", defaultAppDescription),
		CORSOrigins:          p.corsOrigins("CORS_ORIGINS"),
		CORSAllowCredentials: p.bool("CORS_ALLOW_CREDENTIALS", false),
		BackendPort:          p.int("BACKEND_PORT", 8000),
		Host:                 src.get("HOST", "0.0.0.0"),
		Reload:               p.bool("RELOAD", true),
		LogLevel:             src.get("LOG_LEVEL", "INFO"),
		HTTPClientTimeout:    p.seconds("HTTP_CLIENT_TIMEOUT", 10*time.Second),
		MetricsEnabled:       p.bool("METRICS_ENABLED", true),
		RateLimitRPS:         p.float("RATE_LIMIT_RPS", 0),
		RateLimitBurst:       p.int("RATE_LIMIT_BURST", 20),
		ShutdownTimeout:      p.seconds("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := p.result(); err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseCORSOrigins splits a comma or semicolon separated origin list.
// Entries are trimmed, empties dropped and duplicates removed in order.
// When nothing remains the single DefaultCORSOrigin is returned.
func ParseCORSOrigins(value string) []string {
	sanitized := strings.ReplaceAll(value, ";", ",")
	origins := NormalizeCORSOrigins(strings.Split(sanitized, ","))
	if len(origins) == 0 {
		return []string{DefaultCORSOrigin}
	}
	return origins
}

// NormalizeCORSOrigins trims each origin and drops empties and duplicates,
// keeping the first occurrence. Unlike ParseCORSOrigins it never substitutes
// a default.
func NormalizeCORSOrigins(values []string) []string {
	origins := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" || slices.Contains(origins, trimmed) {
			continue
		}
		origins = append(origins, trimmed)
	}
	return origins
}

// source resolves variable names case-insensitively.
type source map[string]string

func newSource(environ []string, dotenv map[string]string) source {
	s := make(source, len(environ)+len(dotenv))
	for _, key := range slices.Sorted(maps.Keys(dotenv)) {
		s[strings.ToUpper(key)] = dotenv[key]
	}
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		s[strings.ToUpper(key)] = value
	}
	return s
}

func (s source) lookup(key string) (string, bool) {
	value, ok := s[key]
	return value, ok
}

func (s source) get(key, fallback string) string {
	if value, ok := s.lookup(key); ok {
		return value
	}
	return fallback
}

// parser coerces raw values and records every failure.
type parser struct {
	src  source
	errs []error
	bad  []validator.FieldError
}

func (p *parser) fail(key, rule string, err error) {
	p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
	p.bad = append(p.bad, validator.FieldError{Field: key, Rule: rule})
}

func (p *parser) result() error {
	if len(p.errs) == 0 {
		return nil
	}
	names := make([]string, 0, len(p.bad))
	for _, fe := range p.bad {
		names = append(names, fe.Field)
	}
	return apperr.Wrap(apperr.KindValidation, "invalid value for "+strings.Join(names, ", "), errors.Join(p.errs...)).
		WithOp(opLoad).
		WithDetails(p.bad)
}

func (p *parser) bool(key string, fallback bool) bool {
	raw, ok := p.src.lookup(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	}
	p.fail(key, "bool", fmt.Errorf("%q is not a boolean", raw))
	return fallback
}

func (p *parser) int(key string, fallback int) int {
	raw, ok := p.src.lookup(key)
	if !ok {
		return fallback
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		p.fail(key, "int", err)
		return fallback
	}
	return value
}

func (p *parser) float(key string, fallback float64) float64 {
	raw, ok := p.src.lookup(key)
	if !ok {
		return fallback
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		p.fail(key, "float", fmt.Errorf("%q is not a finite number", raw))
		return fallback
	}
	return value
}

// seconds accepts a float number of seconds ("10.5") or a Go duration ("1m").
func (p *parser) seconds(key string, fallback time.Duration) time.Duration {
	raw, ok := p.src.lookup(key)
	if !ok {
		return fallback
	}
	trimmed := strings.TrimSpace(raw)
	if value, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(value) && !math.IsInf(value, 0) {
		return time.Duration(value * float64(time.Second))
	}
	value, err := time.ParseDuration(trimmed)
	if err != nil {
		p.fail(key, "duration", fmt.Errorf("%q is neither seconds nor a duration", raw))
		return fallback
	}
	return value
}

// corsOrigins accepts a JSON array (sequence form) or a delimited string.
func (p *parser) corsOrigins(key string) []string {
	raw, ok := p.src.lookup(key)
	if !ok {
		return []string{DefaultCORSOrigin}
	}
	if strings.HasPrefix(strings.TrimSpace(raw), "[") {
		var values []string
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			p.fail(key, "list", err)
			return []string{DefaultCORSOrigin}
		}
		return NormalizeCORSOrigins(values)
	}
	return ParseCORSOrigins(raw)
}
