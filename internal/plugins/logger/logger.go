// Package logger implements the reference request/response logger
// plugin. It emits one line per successful attempt and one warning
// line per retry-triggering attempt after the first, in the exact
// shapes the library contract specifies.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/henrywarne/http-transport/middleware"
)

// Sink is the minimal logging surface the plugin needs; *slog.Logger
// satisfies it directly.
type Sink interface {
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
}

type slogSink struct {
	logger *slog.Logger
}

func (s *slogSink) Info(msg string, args ...interface{}) { s.logger.Info(msg, args...) }
func (s *slogSink) Warn(msg string, args ...interface{}) { s.logger.Warn(msg, args...) }

func defaultSink() Sink {
	return &slogSink{logger: slog.New(slog.NewTextHandler(os.Stdout, nil))}
}

// Plugin is the logger middleware. It is a post-phase: it lets the rest
// of the chain (including any toError middleware) run first, then logs
// based on what happened.
type Plugin struct {
	sink Sink
}

// New builds a logger plugin. A nil sink falls back to a slog text
// logger writing to stdout.
func New(sink Sink) *Plugin {
	if sink == nil {
		sink = defaultSink()
	}
	return &Plugin{sink: sink}
}

func (p *Plugin) Handle(next middleware.Handler) middleware.Handler {
	return func(ctx context.Context, rc *middleware.Context) error {
		requestID := uuid.New().String()
		attemptIndex := len(rc.Retries)

		err := next(ctx, rc)

		method := rc.Req.Method
		url := rc.Req.URL

		if err == nil {
			p.logSuccess(rc, method, url, requestID)
			return nil
		}

		mwErr, ok := err.(*middleware.Error)
		retryWillHappen := ok && mwErr.Retryable() && attemptIndex < rc.RetryPolicy.Max
		if retryWillHappen && attemptIndex > 0 {
			p.logRetryWarning(rc, method, url, attemptIndex, mwErr, requestID)
		}
		return err
	}
}

func (p *Plugin) logSuccess(rc *middleware.Context, method, url, requestID string) {
	line := fmt.Sprintf("%s %s %d", method, url, rc.Res.StatusCode)
	if rc.TimingEnabled() {
		line = fmt.Sprintf("%s %d ms", line, rc.Res.ElapsedTime.Milliseconds())
	}
	p.sink.Info(line, "request_id", requestID)
}

func (p *Plugin) logRetryWarning(rc *middleware.Context, method, url string, attemptIndex int, mwErr *middleware.Error, requestID string) {
	elapsed := int64(0)
	if rc.Res != nil {
		elapsed = rc.Res.ElapsedTime.Milliseconds()
	}
	line := fmt.Sprintf("Attempt %d %s %s %d %d ms", attemptIndex, method, url, mwErr.StatusCode, elapsed)
	p.sink.Warn(line, "request_id", requestID)
}
