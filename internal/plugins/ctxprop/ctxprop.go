// Package ctxprop implements the reference context-property setter
// plugin: a pre-phase middleware assigning a value at a dotted path
// within the Context, creating intermediate maps as needed.
package ctxprop

import (
	"context"
	"strings"
	"time"

	"github.com/henrywarne/http-transport/middleware"
)

// Plugin assigns Value at DottedPath within the Context on every
// pre-phase. Example paths: "opts.time", "req.timeout", or the bare
// "opts", which replaces the entire options bag.
type Plugin struct {
	Value      interface{}
	DottedPath string
}

// New builds a context-property setter for the given value and path.
func New(value interface{}, dottedPath string) *Plugin {
	return &Plugin{Value: value, DottedPath: dottedPath}
}

func (p *Plugin) Handle(next middleware.Handler) middleware.Handler {
	return func(ctx context.Context, rc *middleware.Context) error {
		set(rc, p.DottedPath, p.Value)
		return next(ctx, rc)
	}
}

// set walks the well-known top-level segments of Context ("opts" and
// "req") and assigns the leaf value, creating
// intermediate maps under "opts" as needed. A path that ends exactly at
// "opts" replaces the whole options bag rather than no-oping. Any other
// top-level segment is treated as an opts-bag entry.
func set(rc *middleware.Context, dottedPath string, value interface{}) {
	segments := strings.Split(dottedPath, ".")
	if len(segments) == 0 {
		return
	}

	switch segments[0] {
	case "opts":
		assignOpts(rc, segments[1:], value)
	case "req":
		assignReq(rc, segments[1:], value)
	default:
		assignOpts(rc, segments, value)
	}
}

func assignOpts(rc *middleware.Context, path []string, value interface{}) {
	if len(path) == 0 {
		if m, ok := value.(map[string]interface{}); ok {
			rc.Opts = m
		} else {
			rc.Opts = map[string]interface{}{}
		}
		return
	}
	if rc.Opts == nil {
		rc.Opts = make(map[string]interface{})
	}
	m := rc.Opts
	for _, seg := range path[:len(path)-1] {
		next, ok := m[seg].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			m[seg] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}

func assignReq(rc *middleware.Context, path []string, value interface{}) {
	if rc.Req == nil || len(path) == 0 {
		return
	}
	switch path[0] {
	case "timeout", "_timeout":
		switch v := value.(type) {
		case time.Duration:
			rc.Req.Timeout = v
		case int:
			rc.Req.Timeout = time.Duration(v) * time.Millisecond
		}
	case "method":
		if s, ok := value.(string); ok {
			rc.Req.Method = s
		}
	case "url":
		if s, ok := value.(string); ok {
			rc.Req.URL = s
		}
	}
}
