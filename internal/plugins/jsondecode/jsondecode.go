// Package jsondecode implements the reference JSON body decoder plugin:
// a post-phase middleware that parses a JSON response body in place.
package jsondecode

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/henrywarne/http-transport/middleware"
)

// Plugin decodes ctx.Res.Body into a structured value when the response
// carries a JSON content type and the body is still a string.
type Plugin struct{}

// New builds the JSON decoder plugin.
func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) Handle(next middleware.Handler) middleware.Handler {
	return func(ctx context.Context, rc *middleware.Context) error {
		if err := next(ctx, rc); err != nil {
			return err
		}
		if rc.Res == nil || !isJSON(rc.Res.Headers.Get("Content-Type")) {
			return nil
		}
		raw, ok := rc.Res.Body.(string)
		if !ok || raw == "" {
			return nil
		}
		var decoded interface{}
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			return middleware.NewDecodeError("failed to decode JSON response body", err)
		}
		rc.Res.Body = decoded
		return nil
	}
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}
