package circuitbreaker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/henrywarne/http-transport/internal/plugins/circuitbreaker"
	"github.com/henrywarne/http-transport/middleware"
)

func TestPlugin_OpensAfterConsecutiveFailures(t *testing.T) {
	plugin := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 2,
		RecoveryTimeout:  time.Hour,
		HalfOpenMaxCalls: 1,
	})

	failing := func(ctx context.Context, rc *middleware.Context) error {
		return middleware.NewHTTPStatusError("GET", "http://x", 500, "boom", nil)
	}
	handler := plugin.Handle(failing)
	ctx := context.Background()
	rc := &middleware.Context{}

	require.Error(t, handler(ctx, rc))
	require.Error(t, handler(ctx, rc))
	require.Equal(t, circuitbreaker.StateOpen, plugin.State())

	err := handler(ctx, rc)
	require.Error(t, err)
	require.Equal(t, "circuit breaker is open", err.Error())
}

func TestPlugin_ClosesAfterSuccess(t *testing.T) {
	plugin := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 1,
		RecoveryTimeout:  10 * time.Millisecond,
		HalfOpenMaxCalls: 1,
	})

	failing := func(ctx context.Context, rc *middleware.Context) error {
		return middleware.NewHTTPStatusError("GET", "http://x", 500, "boom", nil)
	}
	succeeding := func(ctx context.Context, rc *middleware.Context) error { return nil }

	ctx := context.Background()
	rc := &middleware.Context{}

	require.Error(t, plugin.Handle(failing)(ctx, rc))
	require.Equal(t, circuitbreaker.StateOpen, plugin.State())

	// After the recovery timeout a half-open probe is let through; its
	// success closes the circuit again.
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, plugin.Handle(succeeding)(ctx, rc))
	require.Equal(t, circuitbreaker.StateClosed, plugin.State())
}
