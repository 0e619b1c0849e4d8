package testutil

import (
	"sync"
	"sync/atomic"

	"github.com/kbukum/rxhttp/provider"
)

// FakeToken counts every Cancel call, including repeated ones, so tests can
// assert how often a consumer cancelled.
type FakeToken struct {
	cancels atomic.Int32
}

// Cancel implements provider.Cancellable.
func (t *FakeToken) Cancel() { t.cancels.Add(1) }

// IsCancelled implements provider.Cancellable.
func (t *FakeToken) IsCancelled() bool { return t.cancels.Load() > 0 }

// CancelCount returns how many times Cancel was invoked.
func (t *FakeToken) CancelCount() int { return int(t.cancels.Load()) }

// FakeCall is one recorded call on a FakeCaller. Tests drive it by invoking
// Progress, Succeed or Fail from any goroutine.
type FakeCall[D, R any] struct {
	Descriptor D
	Token      *FakeToken

	onProgress provider.ProgressFunc
	onComplete provider.Completion[R]
}

// Progress invokes the progress callback, if the call registered one.
func (c *FakeCall[D, R]) Progress(transferred, expected int64) {
	if c.onProgress != nil {
		c.onProgress(provider.Progress{Transferred: transferred, Expected: expected})
	}
}

// Succeed invokes the completion callback with v. It may be called more than
// once to exercise consumers that must ignore repeated completions.
func (c *FakeCall[D, R]) Succeed(v R) {
	c.onComplete(provider.Success(v))
}

// Fail invokes the completion callback with err.
func (c *FakeCall[D, R]) Fail(err error) {
	c.onComplete(provider.Failure[R](err))
}

// FakeCaller is a manually driven provider.ProgressCaller. It records every
// call and never resolves one on its own unless OnCall does.
type FakeCaller[D, R any] struct {
	// OnCall, when set, runs synchronously inside Call before it returns.
	OnCall func(c *FakeCall[D, R])

	mu    sync.Mutex
	calls []*FakeCall[D, R]
}

var _ provider.ProgressCaller[string, string] = (*FakeCaller[string, string])(nil)

// NewFakeCaller returns an empty FakeCaller.
func NewFakeCaller[D, R any]() *FakeCaller[D, R] {
	return &FakeCaller[D, R]{}
}

// Call implements provider.Caller.
func (f *FakeCaller[D, R]) Call(d D, onComplete provider.Completion[R]) provider.Cancellable {
	return f.CallWithProgress(d, nil, onComplete)
}

// CallWithProgress implements provider.ProgressCaller.
func (f *FakeCaller[D, R]) CallWithProgress(d D, onProgress provider.ProgressFunc, onComplete provider.Completion[R]) provider.Cancellable {
	call := &FakeCall[D, R]{
		Descriptor: d,
		Token:      &FakeToken{},
		onProgress: onProgress,
		onComplete: onComplete,
	}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	if f.OnCall != nil {
		f.OnCall(call)
	}
	return call.Token
}

// Calls returns every recorded call in order.
func (f *FakeCaller[D, R]) Calls() []*FakeCall[D, R] {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*FakeCall[D, R], len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns the number of calls issued.
func (f *FakeCaller[D, R]) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// Last returns the most recent call, or nil.
func (f *FakeCaller[D, R]) Last() *FakeCall[D, R] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}

// CancelCount sums Cancel invocations across all calls.
func (f *FakeCaller[D, R]) CancelCount() int {
	n := 0
	for _, c := range f.Calls() {
		n += c.Token.CancelCount()
	}
	return n
}
