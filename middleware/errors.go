package middleware

import "fmt"

// ErrKind classifies a failure surfaced by the pipeline or retry engine.
type ErrKind string

const (
	// ErrKindInvalidPlugin means a non-callable middleware was
	// registered. Raised synchronously at registration; never retried.
	ErrKindInvalidPlugin ErrKind = "invalid_plugin"
	// ErrKindTimeout means the transport adapter hit its socket
	// timeout. Retryable.
	ErrKindTimeout ErrKind = "timeout"
	// ErrKindTransport means some other transport-level failure
	// (DNS, connection refused, ...). Not retried; carries no status
	// code.
	ErrKindTransport ErrKind = "transport"
	// ErrKindHTTPStatus means user middleware (typically toError)
	// converted a 4xx/5xx response into a failure. Retryable only
	// when StatusCode >= 500.
	ErrKindHTTPStatus ErrKind = "http_status"
	// ErrKindDecode means a plugin's post-phase failed to decode the
	// response body. Not retried.
	ErrKindDecode ErrKind = "decode"
)

// Error is the error type this library builds for its own failures: a
// kind tag plus whatever context that kind carries (status code,
// response headers, wrapped cause).
type Error struct {
	Kind       ErrKind
	Message    string
	StatusCode int
	Headers    map[string][]string
	Cause      error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s error", e.Kind)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is treats two *Error values as equal when their Kind and StatusCode
// match.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind && e.StatusCode == other.StatusCode
}

// Retryable reports whether the retry engine should treat this error as
// a retryable attempt outcome: timeouts always, HTTP status errors only
// at >= 500.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case ErrKindTimeout:
		return true
	case ErrKindHTTPStatus:
		return e.StatusCode >= 500
	default:
		return false
	}
}

// NewInvalidPluginError builds the error raised synchronously when a
// non-callable middleware is registered.
func NewInvalidPluginError() *Error {
	return &Error{Kind: ErrKindInvalidPlugin, Message: "Plugin is not a function"}
}

// NewTimeoutError builds the error the transport adapter raises on a
// socket timeout. The message format is part of the public contract.
func NewTimeoutError(method, url string) *Error {
	return &Error{
		Kind:    ErrKindTimeout,
		Message: fmt.Sprintf("Request failed for %s %s: ESOCKETTIMEDOUT", method, url),
	}
}

// NewTransportError builds the error the transport adapter raises for
// any other transport-level failure.
func NewTransportError(method, url string, cause error) *Error {
	return &Error{
		Kind:    ErrKindTransport,
		Message: fmt.Sprintf("Request failed for %s %s: %s", method, url, cause),
		Cause:   cause,
	}
}

// NewHTTPStatusError builds the error a middleware like toError
// synthesizes from a 4xx/5xx response.
func NewHTTPStatusError(method, url string, statusCode int, reason string, headers map[string][]string) *Error {
	return &Error{
		Kind:       ErrKindHTTPStatus,
		Message:    reason,
		StatusCode: statusCode,
		Headers:    headers,
	}
}

// NewDecodeError builds the error a plugin raises when it fails to
// decode a response body.
func NewDecodeError(message string, cause error) *Error {
	return &Error{Kind: ErrKindDecode, Message: message, Cause: cause}
}
