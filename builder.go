package transport

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// RequestBuilder accumulates one call's configuration: method, URL,
// body, headers, query, timeout, retry policy, and per-request
// middleware. Setters return the builder so calls chain; a terminal
// projection (AsResponse or AsBody) runs the call and freezes the
// builder against further mutation.
type RequestBuilder struct {
	client *Client

	req         *Context
	middlewares []Middleware
	frozen      bool
}

func newRequestBuilder(c *Client) *RequestBuilder {
	headers := make(http.Header)
	if c.userAgent != "" {
		headers.Set("User-Agent", c.userAgent)
	}
	return &RequestBuilder{
		client: c,
		req: &Context{
			Req: &RequestView{
				Headers: headers,
				Query:   make(url.Values),
			},
			RetryPolicy: c.retryDefaults,
			Opts:        make(map[string]interface{}),
		},
		middlewares: append([]Middleware{}, c.middlewares...),
	}
}

// Headers merges the given map into the request's headers. An empty
// map is a no-op. Keys are compared case-insensitively.
func (b *RequestBuilder) Headers(h map[string]string) *RequestBuilder {
	if b.frozen {
		return b
	}
	for k, v := range h {
		b.req.Req.Headers.Set(k, v)
	}
	return b
}

// Query appends one query parameter.
func (b *RequestBuilder) Query(name, value string) *RequestBuilder {
	if b.frozen {
		return b
	}
	b.req.Req.Query.Add(name, value)
	return b
}

// QueryMap appends each entry of the given map as a query parameter. An
// empty map is a no-op.
func (b *RequestBuilder) QueryMap(params map[string]string) *RequestBuilder {
	if b.frozen {
		return b
	}
	for k, v := range params {
		b.req.Req.Query.Add(k, v)
	}
	return b
}

// Timeout sets the per-request socket timeout.
func (b *RequestBuilder) Timeout(d time.Duration) *RequestBuilder {
	if b.frozen {
		return b
	}
	b.req.Req.Timeout = d
	return b
}

// Retry overrides the attempt budget: n re-attempts beyond the first.
func (b *RequestBuilder) Retry(n int) *RequestBuilder {
	if b.frozen {
		return b
	}
	b.req.RetryPolicy.Max = n
	return b
}

// RetryDelay overrides the fixed inter-attempt delay.
func (b *RequestBuilder) RetryDelay(d time.Duration) *RequestBuilder {
	if b.frozen {
		return b
	}
	b.req.RetryPolicy.Delay = d
	return b
}

// Use appends a middleware to this request's chain. A nil middleware
// raises ErrKindInvalidPlugin synchronously, matching the source
// contract that a non-callable middleware is a registration-time error.
func (b *RequestBuilder) Use(mw Middleware) *RequestBuilder {
	if b.frozen {
		return b
	}
	if mw == nil {
		panic(NewInvalidPluginError())
	}
	b.middlewares = append(b.middlewares, mw)
	return b
}

func (b *RequestBuilder) setMethod(method, rawURL string, body interface{}) *RequestBuilder {
	if b.frozen {
		return b
	}
	b.req.Req.Method = method
	b.req.Req.URL = rawURL
	if body != nil {
		b.req.Req.Body = body
	}
	return b
}

// Get sets the method to GET and the URL.
func (b *RequestBuilder) Get(url string) *RequestBuilder {
	return b.setMethod(http.MethodGet, url, nil)
}

// Post sets the method to POST, the URL, and an optional body.
func (b *RequestBuilder) Post(url string, body ...interface{}) *RequestBuilder {
	return b.setMethod(http.MethodPost, url, firstBody(body))
}

// Put sets the method to PUT, the URL, and an optional body.
func (b *RequestBuilder) Put(url string, body ...interface{}) *RequestBuilder {
	return b.setMethod(http.MethodPut, url, firstBody(body))
}

// Patch sets the method to PATCH, the URL, and an optional body.
func (b *RequestBuilder) Patch(url string, body ...interface{}) *RequestBuilder {
	return b.setMethod(http.MethodPatch, url, firstBody(body))
}

// Delete sets the method to DELETE and the URL.
func (b *RequestBuilder) Delete(url string) *RequestBuilder {
	return b.setMethod(http.MethodDelete, url, nil)
}

// Head sets the method to HEAD and the URL.
func (b *RequestBuilder) Head(url string) *RequestBuilder {
	return b.setMethod(http.MethodHead, url, nil)
}

func firstBody(body []interface{}) interface{} {
	if len(body) == 0 {
		return nil
	}
	return body[0]
}

// AsResponse runs the pipeline and retry engine and returns the full
// response view. It freezes the builder.
func (b *RequestBuilder) AsResponse(ctx context.Context) (*ResponseView, error) {
	if err := b.run(ctx); err != nil {
		return nil, err
	}
	return b.req.Res, nil
}

// AsBody runs the pipeline and retry engine and returns only the
// response body. It freezes the builder.
func (b *RequestBuilder) AsBody(ctx context.Context) (interface{}, error) {
	if err := b.run(ctx); err != nil {
		return nil, err
	}
	return b.req.Res.Body, nil
}

func (b *RequestBuilder) run(ctx context.Context) error {
	b.frozen = true
	return runChain(ctx, b.client.transport, b.middlewares, b.req)
}
