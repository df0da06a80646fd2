// Package toerror implements the toError middleware that retry
// classification depends on: it converts a 4xx/5xx response into a
// rejection carrying the status code, since the retry engine only
// reacts to what middleware surfaces as a failure, never to raw status
// codes.
package toerror

import (
	"context"

	"github.com/henrywarne/http-transport/middleware"
)

// Plugin rejects responses at or above Threshold (400 by default) with
// an ErrKindHTTPStatus error.
type Plugin struct {
	// Threshold is the lowest status code treated as a failure.
	// Defaults to 400 when zero.
	Threshold int
}

// New builds a toError plugin with the default 400 threshold.
func New() *Plugin {
	return &Plugin{Threshold: 400}
}

func (p *Plugin) Handle(next middleware.Handler) middleware.Handler {
	threshold := p.Threshold
	if threshold == 0 {
		threshold = 400
	}
	return func(ctx context.Context, rc *middleware.Context) error {
		if err := next(ctx, rc); err != nil {
			return err
		}
		if rc.Res == nil || rc.Res.StatusCode < threshold {
			return nil
		}
		reason := "something bad happend."
		return middleware.NewHTTPStatusError(
			rc.Req.Method,
			rc.Req.URL,
			rc.Res.StatusCode,
			reason,
			rc.Res.Headers,
		)
	}
}
