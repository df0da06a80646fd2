package jsondecode_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/henrywarne/http-transport/internal/plugins/jsondecode"
	"github.com/henrywarne/http-transport/middleware"
)

func TestPlugin_DecodesJSONBody(t *testing.T) {
	plugin := jsondecode.New()
	base := func(ctx context.Context, rc *middleware.Context) error {
		rc.Res = &middleware.ResponseView{
			Headers: http.Header{"Content-Type": []string{"application/json"}},
			Body:    `{"key":"value"}`,
		}
		return nil
	}

	rc := &middleware.Context{}
	err := plugin.Handle(base)(context.Background(), rc)

	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"key": "value"}, rc.Res.Body)
}

func TestPlugin_LeavesNonJSONBodyAlone(t *testing.T) {
	plugin := jsondecode.New()
	base := func(ctx context.Context, rc *middleware.Context) error {
		rc.Res = &middleware.ResponseView{
			Headers: http.Header{"Content-Type": []string{"text/plain"}},
			Body:    "plain text",
		}
		return nil
	}

	rc := &middleware.Context{}
	err := plugin.Handle(base)(context.Background(), rc)

	require.NoError(t, err)
	require.Equal(t, "plain text", rc.Res.Body)
}

func TestPlugin_MalformedJSONSurfacesDecodeError(t *testing.T) {
	plugin := jsondecode.New()
	base := func(ctx context.Context, rc *middleware.Context) error {
		rc.Res = &middleware.ResponseView{
			Headers: http.Header{"Content-Type": []string{"application/json"}},
			Body:    `not json`,
		}
		return nil
	}

	err := plugin.Handle(base)(context.Background(), &middleware.Context{})

	require.Error(t, err)
	mwErr, ok := err.(*middleware.Error)
	require.True(t, ok)
	require.Equal(t, middleware.ErrKindDecode, mwErr.Kind)
}
