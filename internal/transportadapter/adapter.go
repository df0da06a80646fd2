// Package transportadapter implements the single transport operation the
// pipeline calls into: take a populated Context, perform one HTTP
// exchange, and populate the response view or raise a classified error.
package transportadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/henrywarne/http-transport/middleware"
)

// Transport is the contract the pipeline's innermost leaf satisfies. It
// is the one piece of the system this library does not own the
// implementation of beyond the default StdlibTransport.
type Transport interface {
	Execute(ctx context.Context, rc *middleware.Context) error
}

// StdlibTransport performs the exchange using net/http.
type StdlibTransport struct {
	Client *http.Client
}

// NewStdlibTransport builds a Transport backed by http.Client.
func NewStdlibTransport(client *http.Client) *StdlibTransport {
	if client == nil {
		client = &http.Client{}
	}
	return &StdlibTransport{Client: client}
}

// Execute builds an *http.Request from rc.Req, runs it, and populates
// rc.Res on success. A socket timeout is surfaced as ErrKindTimeout with
// the exact "ESOCKETTIMEDOUT" message; any other failure is wrapped as
// ErrKindTransport.
func (t *StdlibTransport) Execute(ctx context.Context, rc *middleware.Context) error {
	req := rc.Req

	parsed, err := url.Parse(req.URL)
	if err != nil {
		return middleware.NewTransportError(req.Method, req.URL, pkgerrors.Wrap(err, "parse URL"))
	}

	if len(req.Query) > 0 {
		q := parsed.Query()
		for k, values := range req.Query {
			for _, v := range values {
				q.Add(k, v)
			}
		}
		parsed.RawQuery = q.Encode()
	}

	body, err := encodeBody(req)
	if err != nil {
		return middleware.NewTransportError(req.Method, req.URL, pkgerrors.Wrap(err, "encode body"))
	}

	callCtx := ctx
	var cancel context.CancelFunc
	if req.Timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(callCtx, req.Method, parsed.String(), body)
	if err != nil {
		return middleware.NewTransportError(req.Method, req.URL, pkgerrors.Wrap(err, "build request"))
	}
	if req.Headers != nil {
		httpReq.Header = req.Headers.Clone()
	}

	start := time.Now()
	resp, err := t.Client.Do(httpReq)
	elapsed := time.Since(start)

	if err != nil {
		if isTimeout(err) {
			return middleware.NewTimeoutError(req.Method, req.URL)
		}
		return middleware.NewTransportError(req.Method, req.URL, pkgerrors.Wrap(err, "do request"))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return middleware.NewTransportError(req.Method, req.URL, pkgerrors.Wrap(err, "read response body"))
	}

	rc.Res = &middleware.ResponseView{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header.Clone(),
		Body:       string(respBody),
	}
	if rc.TimingEnabled() {
		rc.Res.ElapsedTime = elapsed
	}
	return nil
}

// encodeBody: raw bytes and strings pass through untouched, anything
// else is JSON-marshaled with a Content-Type default.
func encodeBody(req *middleware.RequestView) (io.Reader, error) {
	if req.Body == nil {
		return nil, nil
	}
	switch b := req.Body.(type) {
	case []byte:
		return bytes.NewReader(b), nil
	case string:
		return bytes.NewReader([]byte(b)), nil
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		if req.Headers == nil {
			req.Headers = http.Header{}
		}
		if req.Headers.Get("Content-Type") == "" {
			req.Headers.Set("Content-Type", "application/json")
		}
		return bytes.NewReader(raw), nil
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
