// Package pipeline wires the transport adapter in as the innermost leaf
// of the middleware chain, giving the retry engine a single composed
// Handler to re-invoke per attempt.
package pipeline

import (
	"context"

	"github.com/henrywarne/http-transport/internal/transportadapter"
	"github.com/henrywarne/http-transport/middleware"
)

// Build composes mws around transport into a single Handler. mws[0] is
// outermost, matching middleware.Chain's ordering.
func Build(transport transportadapter.Transport, mws ...middleware.Middleware) middleware.Handler {
	base := func(ctx context.Context, rc *middleware.Context) error {
		return transport.Execute(ctx, rc)
	}
	return middleware.Chain(base, mws...)
}
