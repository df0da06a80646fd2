package transport_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	transport "github.com/henrywarne/http-transport"
)

func TestBuilder_QueryAndQueryMapAppend(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
	}))
	defer srv.Close()

	client := transport.NewClientBuilder().WithHTTPClient(srv.Client()).Build()
	_, err := client.Get(srv.URL).
		Query("a", "1").
		QueryMap(map[string]string{"b": "2"}).
		QueryMap(map[string]string{}).
		AsResponse(context.Background())

	require.NoError(t, err)
	require.Contains(t, gotQuery, "a=1")
	require.Contains(t, gotQuery, "b=2")
}

func TestBuilder_PostJSONBodySetsContentType(t *testing.T) {
	var gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
	}))
	defer srv.Close()

	client := transport.NewClientBuilder().WithHTTPClient(srv.Client()).Build()
	_, err := client.Post(srv.URL, map[string]string{"hello": "world"}).AsResponse(context.Background())

	require.NoError(t, err)
	require.Equal(t, "application/json", gotContentType)
	require.JSONEq(t, `{"hello":"world"}`, gotBody)
}

func TestBuilder_AsBodyReturnsOnlyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	client := transport.NewClientBuilder().WithHTTPClient(srv.Client()).Build()
	body, err := client.Get(srv.URL).AsBody(context.Background())

	require.NoError(t, err)
	require.Equal(t, "payload", body)
}

func TestClientBuilder_RetryDefaultsSeedFreshBuilders(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(500)
	}))
	defer srv.Close()

	client := transport.NewClientBuilder().
		WithHTTPClient(srv.Client()).
		WithMiddleware(transport.NewToError()).
		WithRetry(2).
		Build()

	_, err := client.Get(srv.URL).AsResponse(context.Background())

	require.Error(t, err)
	require.Equal(t, 3, calls)
}
