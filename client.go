package transport

import (
	"net/http"
	"time"
)

// Client exposes the verb methods and Use, seeding each fresh
// RequestBuilder with the client's user-agent, global middleware, and
// retry defaults.
type Client struct {
	transport     Transport
	userAgent     string
	middlewares   []Middleware
	retryDefaults RetryPolicy
}

// ClientBuilder accumulates client-wide defaults: the transport
// adapter, user-agent, global middleware, and retry defaults. Build
// produces an immutable Client.
type ClientBuilder struct {
	transport     Transport
	userAgent     string
	middlewares   []Middleware
	retryDefaults RetryPolicy
}

// NewClientBuilder starts a ClientBuilder seeded with library defaults:
// the stdlib transport, the default User-Agent, and no retries.
func NewClientBuilder() *ClientBuilder {
	return &ClientBuilder{
		transport: NewStdlibTransport(&http.Client{}),
		userAgent: DefaultUserAgent(),
		retryDefaults: RetryPolicy{
			Max:   DefaultRetryMax,
			Delay: DefaultRetryDelay,
		},
	}
}

// WithTransport overrides the transport adapter.
func (cb *ClientBuilder) WithTransport(t Transport) *ClientBuilder {
	cb.transport = t
	return cb
}

// WithHTTPClient overrides the underlying *http.Client used by the
// default stdlib transport.
func (cb *ClientBuilder) WithHTTPClient(c *http.Client) *ClientBuilder {
	cb.transport = NewStdlibTransport(c)
	return cb
}

// WithUserAgent overrides the default "<library-name>/<library-version>"
// User-Agent.
func (cb *ClientBuilder) WithUserAgent(ua string) *ClientBuilder {
	cb.userAgent = ua
	return cb
}

// WithMiddleware appends global middleware, run before any per-request
// middleware. A nil middleware raises ErrKindInvalidPlugin immediately.
func (cb *ClientBuilder) WithMiddleware(mw Middleware) *ClientBuilder {
	if mw == nil {
		panic(NewInvalidPluginError())
	}
	cb.middlewares = append(cb.middlewares, mw)
	return cb
}

// WithMiddlewares appends multiple global middlewares in order.
func (cb *ClientBuilder) WithMiddlewares(mws ...Middleware) *ClientBuilder {
	for _, mw := range mws {
		cb.WithMiddleware(mw)
	}
	return cb
}

// WithRetry sets the client-wide retry budget.
func (cb *ClientBuilder) WithRetry(max int) *ClientBuilder {
	cb.retryDefaults.Max = max
	return cb
}

// WithMetrics appends the supplemental Prometheus metrics middleware as
// global middleware.
func (cb *ClientBuilder) WithMetrics(cfg MetricsConfig) *ClientBuilder {
	return cb.WithMiddleware(NewMetrics(cfg))
}

// WithCircuitBreaker appends the supplemental circuit breaker middleware
// as global middleware.
func (cb *ClientBuilder) WithCircuitBreaker(cfg CircuitBreakerConfig) *ClientBuilder {
	return cb.WithMiddleware(NewCircuitBreaker(cfg))
}

// WithRetryDelay sets the client-wide fixed inter-attempt delay.
func (cb *ClientBuilder) WithRetryDelay(d time.Duration) *ClientBuilder {
	cb.retryDefaults.Delay = d
	return cb
}

// Build produces the immutable Client.
func (cb *ClientBuilder) Build() *Client {
	return &Client{
		transport:     cb.transport,
		userAgent:     cb.userAgent,
		middlewares:   append([]Middleware{}, cb.middlewares...),
		retryDefaults: cb.retryDefaults,
	}
}

// NewClient builds a Client with library defaults and no customization,
// equivalent to NewClientBuilder().Build().
func NewClient() *Client {
	return NewClientBuilder().Build()
}

// Use returns a fresh RequestBuilder with mw appended to its chain and
// no verb set yet, enabling client.Use(mw).Get(url)...
func (c *Client) Use(mw Middleware) *RequestBuilder {
	return newRequestBuilder(c).Use(mw)
}

// Get starts a GET request.
func (c *Client) Get(url string) *RequestBuilder {
	return newRequestBuilder(c).Get(url)
}

// Post starts a POST request with an optional body.
func (c *Client) Post(url string, body ...interface{}) *RequestBuilder {
	return newRequestBuilder(c).Post(url, body...)
}

// Put starts a PUT request with an optional body.
func (c *Client) Put(url string, body ...interface{}) *RequestBuilder {
	return newRequestBuilder(c).Put(url, body...)
}

// Patch starts a PATCH request with an optional body.
func (c *Client) Patch(url string, body ...interface{}) *RequestBuilder {
	return newRequestBuilder(c).Patch(url, body...)
}

// Delete starts a DELETE request.
func (c *Client) Delete(url string) *RequestBuilder {
	return newRequestBuilder(c).Delete(url)
}

// Head starts a HEAD request.
func (c *Client) Head(url string) *RequestBuilder {
	return newRequestBuilder(c).Head(url)
}
