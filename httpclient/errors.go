package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorCode classifies a failed request.
type ErrorCode int

const (
	ErrCodeTimeout    ErrorCode = iota // deadline or client timeout
	ErrCodeConnection                  // dial, TLS or read failure
	ErrCodeAuth                        // 401, 403
	ErrCodeNotFound                    // 404
	ErrCodeRateLimit                   // 429 or the local limiter
	ErrCodeValidation                  // other 4xx, or a request that could not be built
	ErrCodeServer                      // 5xx
	ErrCodeCanceled                    // request context cancelled
)

var codeNames = [...]string{
	ErrCodeTimeout:    "timeout",
	ErrCodeConnection: "connection",
	ErrCodeAuth:       "auth",
	ErrCodeNotFound:   "not_found",
	ErrCodeRateLimit:  "rate_limit",
	ErrCodeValidation: "validation",
	ErrCodeServer:     "server",
	ErrCodeCanceled:   "canceled",
}

func (c ErrorCode) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return "unknown"
	}
	return codeNames[c]
}

// Error is a classified request failure. StatusCode is zero when no response
// was received; Body holds the response body otherwise.
type Error struct {
	StatusCode int
	Code       ErrorCode
	Message    string
	Retryable  bool
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ClassifyStatusCode returns nil for a 2xx status and a classified Error for
// anything else. 429 and 5xx responses are retryable.
func ClassifyStatusCode(status int, body []byte) *Error {
	if status >= 200 && status < 300 {
		return nil
	}
	e := &Error{StatusCode: status, Message: fmt.Sprintf("HTTP %d", status), Body: body, Code: ErrCodeServer}
	switch {
	case status == 401 || status == 403:
		e.Code = ErrCodeAuth
	case status == 404:
		e.Code = ErrCodeNotFound
	case status == 429:
		e.Code, e.Retryable = ErrCodeRateLimit, true
	case status >= 400 && status < 500:
		e.Code = ErrCodeValidation
	case status >= 500:
		e.Retryable = true
	}
	return e
}

// invalidRequest reports a request that could not be built. It never reaches
// the server.
func invalidRequest(format string, args ...any) *Error {
	return &Error{Code: ErrCodeValidation, Message: fmt.Sprintf(format, args...)}
}

// transportError classifies a failure without a response. Cancellation of ctx
// wins over timeouts; everything else is a retryable connection failure.
func transportError(ctx context.Context, err error) *Error {
	e := &Error{Message: err.Error(), Err: err}
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		e.Code = ErrCodeCanceled
	case ctx.Err() != nil || isNetTimeout(err):
		e.Code, e.Retryable = ErrCodeTimeout, true
	default:
		e.Code, e.Retryable = ErrCodeConnection, true
	}
	return e
}

func isNetTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// CodeOf returns the classification of the first *Error in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return 0, false
	}
	return e.Code, true
}

func hasCode(err error, code ErrorCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// IsTimeout reports whether err is a request timeout.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsConnection reports whether err is a connection-level failure.
func IsConnection(err error) bool { return hasCode(err, ErrCodeConnection) }

// IsCanceled reports whether the request's context was cancelled.
func IsCanceled(err error) bool { return hasCode(err, ErrCodeCanceled) }

// IsNotFound reports whether the server answered 404.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsRateLimit reports whether the request was throttled locally or by a 429.
func IsRateLimit(err error) bool { return hasCode(err, ErrCodeRateLimit) }
