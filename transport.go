// Package transport implements a composable HTTP client: a middleware
// pipeline wraps every call, a retry engine classifies and re-attempts
// transient failures above that pipeline, and a fluent request builder
// accumulates per-call configuration that composes with client-wide
// defaults.
package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/henrywarne/http-transport/internal/pipeline"
	"github.com/henrywarne/http-transport/internal/retryengine"
	"github.com/henrywarne/http-transport/internal/transportadapter"
	"github.com/henrywarne/http-transport/middleware"
)

const (
	libraryName    = "http-transport"
	libraryVersion = "0.1.0"

	// DefaultRetryMax is the library default retry budget: no retries.
	DefaultRetryMax = 0
	// DefaultRetryDelay is the library default inter-attempt delay.
	DefaultRetryDelay = 100 * time.Millisecond
)

// DefaultUserAgent is the User-Agent seeded on every Client that hasn't
// overridden it: "<library-name>/<library-version>".
func DefaultUserAgent() string {
	return libraryName + "/" + libraryVersion
}

// Re-exported so callers only need to import this package for ordinary
// use; the middleware package remains the place to implement custom
// middleware.
type (
	// Handler is one step of the pipeline.
	Handler = middleware.Handler
	// Middleware wraps a Handler to produce a new Handler.
	Middleware = middleware.Middleware
	// Context is the mutable bag threaded through one call.
	Context = middleware.Context
	// RequestView is the request half of a Context.
	RequestView = middleware.RequestView
	// ResponseView is the response half of a Context.
	ResponseView = middleware.ResponseView
	// RetryRecord is one prior failed attempt.
	RetryRecord = middleware.RetryRecord
	// RetryPolicy is a resolved retry budget.
	RetryPolicy = middleware.RetryPolicy
	// ErrKind classifies a failure. See the ErrKind* constants.
	ErrKind = middleware.ErrKind
	// Error is the error type the transport adapter and bundled plugins
	// return. A call whose context is cancelled during a retry delay
	// returns the context's error instead.
	Error = middleware.Error
	// Transport is the contract the pipeline's innermost leaf
	// satisfies.
	Transport = transportadapter.Transport
)

// Error kind constants, re-exported from the middleware package.
const (
	ErrKindInvalidPlugin = middleware.ErrKindInvalidPlugin
	ErrKindTimeout       = middleware.ErrKindTimeout
	ErrKindTransport     = middleware.ErrKindTransport
	ErrKindHTTPStatus    = middleware.ErrKindHTTPStatus
	ErrKindDecode        = middleware.ErrKindDecode
)

// WrapMiddleware adapts a plain function into a Middleware.
func WrapMiddleware(fn middleware.MiddlewareFunc) Middleware {
	return middleware.WrapMiddleware(fn)
}

// NewInvalidPluginError builds the error raised synchronously when a
// non-callable middleware is registered.
func NewInvalidPluginError() *Error {
	return middleware.NewInvalidPluginError()
}

// NewStdlibTransport builds the default Transport, backed by an
// *http.Client.
func NewStdlibTransport(client *http.Client) Transport {
	return transportadapter.NewStdlibTransport(client)
}

// runChain builds the composed pipeline for transport+mws and runs it
// under the retry engine described by rc.RetryPolicy.
func runChain(ctx context.Context, transport Transport, mws []Middleware, rc *Context) error {
	handler := pipeline.Build(transport, mws...)
	engine := retryengine.New(handler)
	return engine.Run(ctx, rc)
}
