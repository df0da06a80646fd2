// Package headers implements a small supplemental pre-phase plugin for
// default request headers, separate from ctxprop since it only ever
// touches rc.Req.Headers and can apply conditionally.
package headers

import (
	"context"

	"github.com/henrywarne/http-transport/middleware"
)

// Condition decides whether Static should be applied to a given
// request. A nil Condition always applies.
type Condition func(req *middleware.RequestView) bool

// Plugin merges Static into rc.Req.Headers on every pre-phase where
// Condition passes (or always, if Condition is nil). Existing header
// values set by the caller are never overwritten.
type Plugin struct {
	Static    map[string]string
	Condition Condition
}

// New builds a headers plugin applying static headers unconditionally.
func New(static map[string]string) *Plugin {
	return &Plugin{Static: static}
}

// NewConditional builds a headers plugin that only applies when cond
// returns true for the current request.
func NewConditional(static map[string]string, cond Condition) *Plugin {
	return &Plugin{Static: static, Condition: cond}
}

func (p *Plugin) Handle(next middleware.Handler) middleware.Handler {
	return func(ctx context.Context, rc *middleware.Context) error {
		if p.Condition == nil || p.Condition(rc.Req) {
			for k, v := range p.Static {
				if rc.Req.Headers.Get(k) == "" {
					rc.Req.Headers.Set(k, v)
				}
			}
		}
		return next(ctx, rc)
	}
}
