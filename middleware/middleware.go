// Package middleware defines the shared pipeline contract: the request
// and response views threaded through a call, the handler signature, and
// the onion-style composition that wraps a transport call with user and
// library middleware.
package middleware

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// RequestView is the request half of a Context. Headers and Query use
// the standard library's own case-insensitive / multi-value mappings,
// so merges and lookups need no bespoke logic.
type RequestView struct {
	Method  string
	URL     string
	Headers http.Header
	Query   url.Values
	Body    interface{}

	// Timeout is the per-request socket timeout override. Zero means
	// "use the client default".
	Timeout time.Duration
}

// ResponseView is the response half of a Context. It is nil until the
// transport adapter has run at least once.
type ResponseView struct {
	StatusCode int
	Headers    http.Header
	Body       interface{}

	// ElapsedTime is populated when timing is enabled (Context.Opts
	// does not hold "time" == false).
	ElapsedTime time.Duration
}

// RetryRecord is one prior failed attempt.
type RetryRecord struct {
	StatusCode int
	Reason     string
}

// RetryPolicy is the resolved retry budget for a call.
type RetryPolicy struct {
	// Max is the number of re-attempts beyond the first. Zero disables
	// retries entirely and makes Delay irrelevant.
	Max int
	// Delay is the fixed inter-attempt sleep. No backoff, no jitter.
	Delay time.Duration
}

// Context is the single mutable value threaded through one call. It is
// owned by exactly one call and must never be shared across calls.
type Context struct {
	Req         *RequestView
	Res         *ResponseView
	Retries     []RetryRecord
	RetryPolicy RetryPolicy
	Opts        map[string]interface{}
}

// TimingEnabled reports whether elapsed-time capture is active for this
// call. It defaults to true; set Opts["time"] = false to disable it.
func (c *Context) TimingEnabled() bool {
	if c.Opts == nil {
		return true
	}
	if v, ok := c.Opts["time"]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return true
}

// Handler is one step of the pipeline: it receives the shared Context
// and returns an error if the attempt failed. Implementations that want
// to short-circuit the chain simply return without delegating further.
type Handler func(ctx context.Context, rc *Context) error

// Middleware wraps a Handler and returns a new Handler. A middleware may
// do work before delegating to next (pre-phase), after it returns
// (post-phase), or both.
type Middleware interface {
	Handle(next Handler) Handler
}

// Chain folds middlewares right-to-left around base so that
// middlewares[0] is outermost: it runs first on the way in and last on
// the way out. Registration order is entry order; post-phases run in
// reverse, matching that order.
func Chain(base Handler, middlewares ...Middleware) Handler {
	handler := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i].Handle(handler)
	}
	return handler
}

// functionMiddleware adapts a plain function to the Middleware interface.
type functionMiddleware struct {
	fn func(next Handler) Handler
}

func (m *functionMiddleware) Handle(next Handler) Handler {
	return m.fn(next)
}

// MiddlewareFunc is a function-based middleware, wrapped via WrapMiddleware
// when a caller prefers a closure over a named type.
type MiddlewareFunc func(next Handler) Handler

// WrapMiddleware adapts a MiddlewareFunc into a Middleware.
func WrapMiddleware(fn MiddlewareFunc) Middleware {
	return &functionMiddleware{fn: fn}
}
