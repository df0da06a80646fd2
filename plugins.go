package transport

import (
	"github.com/henrywarne/http-transport/internal/plugins/circuitbreaker"
	"github.com/henrywarne/http-transport/internal/plugins/ctxprop"
	"github.com/henrywarne/http-transport/internal/plugins/headers"
	"github.com/henrywarne/http-transport/internal/plugins/jsondecode"
	"github.com/henrywarne/http-transport/internal/plugins/logger"
	"github.com/henrywarne/http-transport/internal/plugins/metrics"
	"github.com/henrywarne/http-transport/internal/plugins/toerror"
)

// NewJSONDecoder builds the reference JSON body decoder plugin: a
// post-phase that parses a JSON response body in place.
func NewJSONDecoder() Middleware {
	return jsondecode.New()
}

// NewContextProperty builds the reference context-property setter
// plugin: a pre-phase assigning value at dottedPath within the Context.
func NewContextProperty(value interface{}, dottedPath string) Middleware {
	return ctxprop.New(value, dottedPath)
}

// LoggerSink is the minimal logging surface the logger plugin needs.
type LoggerSink = logger.Sink

// NewLogger builds the reference request/response logger plugin. A nil
// sink falls back to a slog text logger writing to stdout.
func NewLogger(sink LoggerSink) Middleware {
	return logger.New(sink)
}

// NewToError builds the toError middleware: a post-phase that converts
// a 4xx/5xx response into an ErrKindHTTPStatus failure, which is what
// makes such responses visible to the retry engine's classification.
func NewToError() Middleware {
	return toerror.New()
}

// NewHeaders builds a supplemental pre-phase plugin that merges static
// default headers into every request, never overwriting a value the
// caller already set.
func NewHeaders(static map[string]string) Middleware {
	return headers.New(static)
}

// CircuitBreakerConfig configures NewCircuitBreaker.
type CircuitBreakerConfig = circuitbreaker.Config

// DefaultCircuitBreakerConfig returns sensible circuit breaker defaults.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return circuitbreaker.DefaultConfig()
}

// NewCircuitBreaker builds a supplemental circuit breaker middleware
// that short-circuits the chain while open.
func NewCircuitBreaker(cfg CircuitBreakerConfig) Middleware {
	return circuitbreaker.New(cfg)
}

// MetricsConfig configures NewMetrics.
type MetricsConfig = metrics.Config

// DefaultMetricsConfig returns sensible Prometheus collector defaults.
func DefaultMetricsConfig() MetricsConfig {
	return metrics.DefaultConfig()
}

// NewMetrics builds a supplemental Prometheus metrics middleware.
func NewMetrics(cfg MetricsConfig) Middleware {
	return metrics.New(cfg)
}
