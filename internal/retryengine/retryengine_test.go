package retryengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/henrywarne/http-transport/internal/retryengine"
	"github.com/henrywarne/http-transport/middleware"
)

func TestRun_NoRetriesWhenMaxIsZero(t *testing.T) {
	calls := 0
	handler := func(ctx context.Context, rc *middleware.Context) error {
		calls++
		return middleware.NewHTTPStatusError("GET", "http://x", 500, "boom", nil)
	}
	engine := retryengine.New(handler)
	rc := &middleware.Context{RetryPolicy: middleware.RetryPolicy{Max: 0, Delay: 10 * time.Second}}

	start := time.Now()
	err := engine.Run(context.Background(), rc)
	elapsed := time.Since(start)

	require.Error(t, err)
	require.Equal(t, 1, calls)
	require.Less(t, elapsed, 10*time.Second)
	require.Empty(t, rc.Retries)
}

func TestRun_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	handler := func(ctx context.Context, rc *middleware.Context) error {
		calls++
		if calls < 3 {
			return middleware.NewHTTPStatusError("GET", "http://x", 500, "something bad happend.", nil)
		}
		rc.Res = &middleware.ResponseView{StatusCode: 200}
		return nil
	}
	engine := retryengine.New(handler)
	rc := &middleware.Context{RetryPolicy: middleware.RetryPolicy{Max: 2, Delay: time.Millisecond}}

	err := engine.Run(context.Background(), rc)

	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Len(t, rc.Retries, 2)
	require.Equal(t, 500, rc.Retries[0].StatusCode)
	require.Regexp(t, "something bad", rc.Retries[0].Reason)
}

func TestRun_EntersExactlyKPlus1TimesWhenAlwaysRetryable(t *testing.T) {
	calls := 0
	handler := func(ctx context.Context, rc *middleware.Context) error {
		calls++
		return middleware.NewTimeoutError("GET", "http://x")
	}
	engine := retryengine.New(handler)
	delay := 5 * time.Millisecond
	rc := &middleware.Context{RetryPolicy: middleware.RetryPolicy{Max: 3, Delay: delay}}

	start := time.Now()
	err := engine.Run(context.Background(), rc)
	elapsed := time.Since(start)

	require.Error(t, err)
	require.Equal(t, 4, calls)
	require.Len(t, rc.Retries, 3)
	require.GreaterOrEqual(t, elapsed, 3*delay)
}

func TestRun_4xxIsNeverRetried(t *testing.T) {
	calls := 0
	handler := func(ctx context.Context, rc *middleware.Context) error {
		calls++
		return middleware.NewHTTPStatusError("GET", "http://x", 404, "not found", nil)
	}
	engine := retryengine.New(handler)
	rc := &middleware.Context{RetryPolicy: middleware.RetryPolicy{Max: 5, Delay: time.Millisecond}}

	err := engine.Run(context.Background(), rc)

	require.Error(t, err)
	require.Equal(t, 1, calls)
	require.Empty(t, rc.Retries)
}

func TestRun_ContextCancellationDuringDelayStopsRetrying(t *testing.T) {
	calls := 0
	handler := func(ctx context.Context, rc *middleware.Context) error {
		calls++
		return middleware.NewTimeoutError("GET", "http://x")
	}
	engine := retryengine.New(handler)
	rc := &middleware.Context{RetryPolicy: middleware.RetryPolicy{Max: 5, Delay: time.Second}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := engine.Run(ctx, rc)

	require.Error(t, err)
	require.Equal(t, 1, calls)
}
