package rx

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/rxhttp/logger"
	"github.com/kbukum/rxhttp/observability"
	"github.com/kbukum/rxhttp/provider"
	"github.com/kbukum/rxhttp/stream"
)

// ErrClosed is the error of every subscription made after Close.
var ErrClosed = errors.New("rx: adapter closed")

// Adapter turns a callback-based provider.Caller into cold streams.
//
// Each subscription to a stream returned by Request issues exactly one call.
// Disposing the subscription while the call is in flight cancels its token
// once; disposing after resolution cancels nothing.
type Adapter[D, R any] struct {
	caller provider.Caller[D, R]
	opts   options

	mu       sync.Mutex
	closed   bool
	inflight map[string]*flight
}

// New wraps caller.
func New[D, R any](caller provider.Caller[D, R], opts ...Option) *Adapter[D, R] {
	return &Adapter[D, R]{
		caller:   caller,
		opts:     buildOptions(opts),
		inflight: make(map[string]*flight),
	}
}

// Request returns a cold stream for one logical call of d. Every subscription
// calls the provider once and receives either the response followed by
// completion, or the provider error.
func (a *Adapter[D, R]) Request(d D) *stream.Stream[R] {
	return stream.Create(func(e stream.Emitter[R]) func() {
		return a.launch(e.Dispose, e.Error, func(f *flight) provider.Cancellable {
			return a.caller.Call(d, bridge(f, func(r provider.Result[R]) {
				v, err := r.Unwrap()
				if err != nil {
					e.Error(err)
					return
				}
				e.Next(v)
				e.Complete()
			}))
		})
	})
}

// Close disposes every in-flight subscription: their tokens are cancelled and
// their consumers receive no further events. Later subscriptions fail with
// ErrClosed. Safe to call more than once.
func (a *Adapter[D, R]) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	flights := make([]*flight, 0, len(a.inflight))
	for _, f := range a.inflight {
		flights = append(flights, f)
	}
	a.mu.Unlock()

	for _, f := range flights {
		f.alive.Store(false)
		f.dispose()
	}
	a.opts.log.Debug("adapter closed", logger.Fields("disposed", len(flights)))
}

// InFlight returns the number of subscriptions whose call has not ended.
func (a *Adapter[D, R]) InFlight() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.inflight)
}

// Flight states. A flight leaves statePending exactly once.
const (
	statePending int32 = iota
	stateCompleted
	stateFailed
	stateCancelled
)

// flight is the lifetime record of one subscription's call. Provider
// callbacks consult the flight, never the adapter.
type flight struct {
	id      string
	started time.Time
	dispose func()

	alive atomic.Bool
	state atomic.Int32
}

// progress guards a progress callback so it only reaches a live, unresolved flight.
func (f *flight) progress(fn provider.ProgressFunc) provider.ProgressFunc {
	return func(p provider.Progress) {
		if f.alive.Load() && f.state.Load() == statePending {
			fn(p)
		}
	}
}

// bridge is the single translation point from a provider completion to stream
// events. Only the first completion of a live, pending flight is delivered.
func bridge[R any](f *flight, deliver func(provider.Result[R])) provider.Completion[R] {
	return func(r provider.Result[R]) {
		if !f.alive.Load() {
			return
		}
		next := stateCompleted
		if r.Err != nil {
			next = stateFailed
		}
		if !f.state.CompareAndSwap(statePending, next) {
			return
		}
		deliver(r)
	}
}

// launch registers a flight, issues the call and returns the subscription teardown.
func (a *Adapter[D, R]) launch(dispose func(), fail func(error), issue func(f *flight) provider.Cancellable) func() {
	f, err := a.begin(dispose)
	if err != nil {
		fail(err)
		return nil
	}
	token := issue(f)
	return func() { a.end(f, token) }
}

func (a *Adapter[D, R]) begin(dispose func()) (*flight, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, ErrClosed
	}
	f := &flight{id: uuid.NewString(), started: time.Now(), dispose: dispose}
	f.alive.Store(true)
	a.inflight[f.id] = f
	a.mu.Unlock()

	if a.opts.metrics != nil {
		a.opts.metrics.RecordSubscribe(context.Background(), a.opts.name)
	}
	a.opts.log.Debug("request subscribed", logger.Fields(logger.FieldRequestID, f.id))
	return f, nil
}

// end runs once per subscription, when it terminates or is disposed.
func (a *Adapter[D, R]) end(f *flight, token provider.Cancellable) {
	f.alive.Store(false)
	if f.state.CompareAndSwap(statePending, stateCancelled) && token != nil {
		token.Cancel()
	}

	a.mu.Lock()
	delete(a.inflight, f.id)
	a.mu.Unlock()

	outcome := outcomeName(f.state.Load())
	if a.opts.metrics != nil {
		a.opts.metrics.RecordStreamEnd(context.Background(), a.opts.name, outcome)
	}
	fields := logger.DurationFields("request", time.Since(f.started))
	fields[logger.FieldRequestID] = f.id
	fields[logger.FieldStatus] = outcome
	a.opts.log.Debug("request ended", fields)
}

func outcomeName(state int32) string {
	switch state {
	case stateCompleted:
		return observability.OutcomeCompleted
	case stateFailed:
		return observability.OutcomeError
	default:
		return observability.OutcomeCancelled
	}
}
