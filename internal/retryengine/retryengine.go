// Package retryengine implements the state machine that sits above the
// composed middleware chain: it invokes the chain, classifies the
// outcome, and decides whether to accept it or sleep and re-invoke.
package retryengine

import (
	"context"
	"time"

	"github.com/henrywarne/http-transport/middleware"
)

// Engine runs a composed Handler under a retry policy.
type Engine struct {
	Handler middleware.Handler
}

// New builds an Engine around the given composed handler.
func New(handler middleware.Handler) *Engine {
	return &Engine{Handler: handler}
}

// Run executes rc.Req under rc.RetryPolicy, re-invoking the handler on
// retryable failures until the outcome is terminal or the budget is
// exhausted. It returns the final attempt's error, if any.
//
// Attempt counting: the first call is the zeroth attempt and is never
// recorded in rc.Retries. rc.RetryPolicy.Max bounds the number of
// re-attempts beyond that first call.
func (e *Engine) Run(ctx context.Context, rc *middleware.Context) error {
	attempt := 0
	for {
		err := e.Handler(ctx, rc)
		if err == nil {
			return nil
		}

		retryable, statusCode, reason := classify(err)
		if !retryable || attempt >= rc.RetryPolicy.Max {
			return err
		}

		rc.Retries = append(rc.Retries, middleware.RetryRecord{
			StatusCode: statusCode,
			Reason:     reason,
		})
		rc.Res = nil

		if rc.RetryPolicy.Delay > 0 {
			timer := time.NewTimer(rc.RetryPolicy.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		attempt++
	}
}

// classify inspects a pipeline failure and reports whether the retry
// engine should re-attempt it, along with the record it should log.
func classify(err error) (retryable bool, statusCode int, reason string) {
	mwErr, ok := err.(*middleware.Error)
	if !ok {
		return false, 0, err.Error()
	}
	return mwErr.Retryable(), mwErr.StatusCode, mwErr.Error()
}
