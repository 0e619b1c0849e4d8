package provider

import (
	"context"
	"sync"
	"sync/atomic"
)

// Progress is one raw progress report from an in-flight call.
// Values <= 0 mean the amount is not known yet.
type Progress struct {
	Transferred int64
	Expected    int64
}

// ProgressFunc receives raw progress reports, possibly from a background goroutine.
type ProgressFunc func(Progress)

// Result is the outcome of one provider call: a value on success, an error otherwise.
type Result[R any] struct {
	Value R
	Err   error
}

// Success wraps a successful value.
func Success[R any](v R) Result[R] {
	return Result[R]{Value: v}
}

// Failure wraps an error.
func Failure[R any](err error) Result[R] {
	return Result[R]{Err: err}
}

// Unwrap returns the value and error.
func (r Result[R]) Unwrap() (R, error) {
	return r.Value, r.Err
}

// Completion receives the outcome of one call. Providers invoke it once, from
// any goroutine.
type Completion[R any] func(Result[R])

// Cancellable is the handle on one in-flight call.
type Cancellable interface {
	// Cancel requests cancellation. Safe to call more than once and after the
	// call resolved.
	Cancel()
	// IsCancelled reports whether Cancel was called.
	IsCancelled() bool
}

// Caller issues asynchronous calls. Call returns immediately; the outcome
// arrives later through onComplete.
type Caller[D, R any] interface {
	Call(d D, onComplete Completion[R]) Cancellable
}

// ProgressCaller is a Caller whose calls can report interim progress.
type ProgressCaller[D, R any] interface {
	Caller[D, R]
	CallWithProgress(d D, onProgress ProgressFunc, onComplete Completion[R]) Cancellable
}

// CallerFunc adapts a plain function to the Caller interface.
type CallerFunc[D, R any] func(d D, onComplete Completion[R]) Cancellable

// Call implements Caller.
func (f CallerFunc[D, R]) Call(d D, onComplete Completion[R]) Cancellable {
	return f(d, onComplete)
}

// Token is the standard Cancellable. It cancels the wrapped context at most once.
type Token struct {
	once      sync.Once
	cancel    context.CancelFunc
	cancelled atomic.Bool
}

// NewToken returns a token that invokes cancel on the first Cancel. cancel may be nil.
func NewToken(cancel context.CancelFunc) *Token {
	return &Token{cancel: cancel}
}

// Cancel implements Cancellable.
func (t *Token) Cancel() {
	t.once.Do(func() {
		t.cancelled.Store(true)
		if t.cancel != nil {
			t.cancel()
		}
	})
}

// IsCancelled implements Cancellable.
func (t *Token) IsCancelled() bool {
	return t.cancelled.Load()
}
