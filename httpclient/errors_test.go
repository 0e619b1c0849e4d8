package httpclient

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"testing"
)

func TestErrorCode_String(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeTimeout, "timeout"},
		{ErrCodeConnection, "connection"},
		{ErrCodeAuth, "auth"},
		{ErrCodeNotFound, "not_found"},
		{ErrCodeRateLimit, "rate_limit"},
		{ErrCodeValidation, "validation"},
		{ErrCodeServer, "server"},
		{ErrCodeCanceled, "canceled"},
		{ErrorCode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ErrorCode(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestError_Error(t *testing.T) {
	e := &Error{StatusCode: 404, Code: ErrCodeNotFound, Message: "HTTP 404"}
	want := "httpclient: not_found (HTTP 404): HTTP 404"
	if got := e.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	e2 := &Error{Code: ErrCodeConnection, Message: "connection refused"}
	want2 := "httpclient: connection: connection refused"
	if got := e2.Error(); got != want2 {
		t.Errorf("got %q, want %q", got, want2)
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := invalidRequest("bad %s", "input")
	outer := &Error{Code: ErrCodeServer, Message: "wrapped", Err: inner}
	if outer.Unwrap() != inner {
		t.Error("Unwrap did not return inner error")
	}
}

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		code    int
		wantNil bool
		errCode ErrorCode
		retry   bool
	}{
		{200, true, 0, false},
		{201, true, 0, false},
		{204, true, 0, false},
		{400, false, ErrCodeValidation, false},
		{401, false, ErrCodeAuth, false},
		{403, false, ErrCodeAuth, false},
		{404, false, ErrCodeNotFound, false},
		{429, false, ErrCodeRateLimit, true},
		{500, false, ErrCodeServer, true},
		{502, false, ErrCodeServer, true},
		{503, false, ErrCodeServer, true},
	}
	for _, tt := range tests {
		e := ClassifyStatusCode(tt.code, nil)
		if tt.wantNil {
			if e != nil {
				t.Errorf("ClassifyStatusCode(%d): expected nil, got %v", tt.code, e)
			}
			continue
		}
		if e == nil {
			t.Errorf("ClassifyStatusCode(%d): expected error, got nil", tt.code)
			continue
		}
		if e.Code != tt.errCode {
			t.Errorf("ClassifyStatusCode(%d): code = %v, want %v", tt.code, e.Code, tt.errCode)
		}
		if e.Retryable != tt.retry {
			t.Errorf("ClassifyStatusCode(%d): retryable = %v, want %v", tt.code, e.Retryable, tt.retry)
		}
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("upload: %w", ClassifyStatusCode(403, nil))
	if code, ok := CodeOf(wrapped); !ok || code != ErrCodeAuth {
		t.Errorf("CodeOf(wrapped 403) = %v, %v", code, ok)
	}
	if _, ok := CodeOf(fmt.Errorf("plain")); ok {
		t.Error("CodeOf should not classify foreign errors")
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"timeout", &Error{Code: ErrCodeTimeout}, IsTimeout},
		{"connection", &Error{Code: ErrCodeConnection}, IsConnection},
		{"canceled", &Error{Code: ErrCodeCanceled}, IsCanceled},
		{"not found", ClassifyStatusCode(404, nil), IsNotFound},
		{"rate limit", ClassifyStatusCode(429, nil), IsRateLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("predicate did not match %v", tt.err)
			}
			if tt.check(invalidRequest("bad")) {
				t.Error("predicate matched a validation error")
			}
			if tt.check(nil) {
				t.Error("predicate matched nil")
			}
		})
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestTransportError(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	expired, cancel2 := context.WithTimeout(context.Background(), 0)
	defer cancel2()
	<-expired.Done()

	tests := []struct {
		name      string
		ctx       context.Context
		err       error
		want      ErrorCode
		retryable bool
	}{
		{"cancelled context", cancelled, fmt.Errorf("dial: %w", context.Canceled), ErrCodeCanceled, false},
		{"deadline exceeded", expired, context.DeadlineExceeded, ErrCodeTimeout, true},
		{"client timeout", context.Background(), fmt.Errorf("do: %w", timeoutErr{}), ErrCodeTimeout, true},
		{"refused", context.Background(), fmt.Errorf("connection refused"), ErrCodeConnection, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transportError(tt.ctx, tt.err)
			if got.Code != tt.want || got.Retryable != tt.retryable {
				t.Errorf("transportError() = %s retryable=%v, want %s retryable=%v", got.Code, got.Retryable, tt.want, tt.retryable)
			}
			if !stderrors.Is(got, tt.err) {
				t.Error("expected the cause to be wrapped")
			}
		})
	}
}
