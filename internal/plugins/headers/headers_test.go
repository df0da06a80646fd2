package headers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/henrywarne/http-transport/internal/plugins/headers"
	"github.com/henrywarne/http-transport/middleware"
)

func noopHandler(ctx context.Context, rc *middleware.Context) error { return nil }

func TestPlugin_AppliesStaticHeadersWithoutOverwriting(t *testing.T) {
	plugin := headers.New(map[string]string{"X-Default": "fallback"})
	rc := &middleware.Context{Req: &middleware.RequestView{Headers: http.Header{"X-Default": []string{"caller"}}}}

	err := plugin.Handle(noopHandler)(context.Background(), rc)

	require.NoError(t, err)
	require.Equal(t, "caller", rc.Req.Headers.Get("X-Default"))
}

func TestPlugin_ConditionalSkipsWhenConditionFalse(t *testing.T) {
	plugin := headers.NewConditional(
		map[string]string{"X-Internal": "1"},
		func(req *middleware.RequestView) bool { return false },
	)
	rc := &middleware.Context{Req: &middleware.RequestView{Headers: http.Header{}}}

	err := plugin.Handle(noopHandler)(context.Background(), rc)

	require.NoError(t, err)
	require.Empty(t, rc.Req.Headers.Get("X-Internal"))
}
