package stream

import (
	"errors"
	"sync"
)

var (
	// ErrDisposed is reported by the blocking bridges when a subscription
	// ended without a terminal event.
	ErrDisposed = errors.New("stream: subscription disposed")
	// ErrEmpty is reported by First and Last when the stream completed
	// without emitting a value.
	ErrEmpty = errors.New("stream: completed without a value")
)

// Observer receives the events of one subscription. Nil callbacks are skipped.
type Observer[T any] struct {
	Next     func(T)
	Error    func(error)
	Complete func()
	// Disposed runs when the producer ends the subscription without a
	// terminal event. It does not run when the consumer disposes.
	Disposed func()
}

// Emitter is the producer side of a subscription.
//
// All methods are safe to call from any goroutine. Deliveries are serialized
// and reach the observer in call order. Once a terminal event has been
// delivered or the subscription is disposed, every further call is a no-op.
type Emitter[T any] interface {
	Next(v T)
	Error(err error)
	Complete()
	// Dispose ends the subscription without a terminal event and notifies
	// the observer through Observer.Disposed.
	Dispose()
	// Disposed reports whether the subscription has ended.
	Disposed() bool
}

// OnSubscribe starts the producer for one subscription and returns its
// teardown. The teardown runs exactly once, when the subscription ends.
type OnSubscribe[T any] func(e Emitter[T]) (teardown func())

// Stream is a cold, push-based sequence. Nothing runs until Subscribe, and
// each Subscribe runs the producer again.
type Stream[T any] struct {
	onSubscribe OnSubscribe[T]
}

// Create builds a stream from a producer function.
func Create[T any](fn OnSubscribe[T]) *Stream[T] {
	return &Stream[T]{onSubscribe: fn}
}

// Just emits v and completes.
func Just[T any](v T) *Stream[T] {
	return Create(func(e Emitter[T]) func() {
		e.Next(v)
		e.Complete()
		return nil
	})
}

// Fail terminates immediately with err.
func Fail[T any](err error) *Stream[T] {
	return Create(func(e Emitter[T]) func() {
		e.Error(err)
		return nil
	})
}

// Empty completes without emitting.
func Empty[T any]() *Stream[T] {
	return Create(func(e Emitter[T]) func() {
		e.Complete()
		return nil
	})
}

// Subscribe starts the producer and returns the subscription handle.
func (s *Stream[T]) Subscribe(o Observer[T]) *Subscription {
	sub := newSubscription()
	e := &emitter[T]{obs: o, sub: sub}
	teardown := s.onSubscribe(e)
	sub.setTeardown(teardown)
	return sub
}

// Subscription is the consumer's handle on one run of a stream.
type Subscription struct {
	mu       sync.Mutex
	ended    bool
	terminal bool
	disposed bool
	teardown func()
	done     chan struct{}
}

func newSubscription() *Subscription {
	return &Subscription{done: make(chan struct{})}
}

// Dispose ends the subscription and runs the producer teardown without
// calling Observer.Disposed. Once it returns, no new delivery reaches the
// observer; a delivery already running on another goroutine finishes. Safe to
// call more than once and after a terminal event.
func (s *Subscription) Dispose() {
	s.end(true)
}

// Disposed reports whether the subscription was disposed before a terminal event.
func (s *Subscription) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// Done is closed when the subscription ends, by terminal event or disposal.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) isEnded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// markTerminal records that a terminal event is being delivered, so a
// Dispose from inside the observer callback does not count as disposal.
func (s *Subscription) markTerminal() {
	s.mu.Lock()
	s.terminal = true
	s.mu.Unlock()
}

// end marks the subscription finished and runs the teardown if one is
// registered. It reports whether this call ended the subscription as disposed.
func (s *Subscription) end(dispose bool) bool {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return false
	}
	s.ended = true
	s.disposed = dispose && !s.terminal
	disposed := s.disposed
	teardown := s.teardown
	s.teardown = nil
	close(s.done)
	s.mu.Unlock()

	if teardown != nil {
		teardown()
	}
	return disposed
}

// setTeardown registers the producer teardown. If the subscription already
// ended while the producer was starting, the teardown runs immediately.
func (s *Subscription) setTeardown(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		fn()
		return
	}
	s.teardown = fn
	s.mu.Unlock()
}

type emitter[T any] struct {
	obs Observer[T]
	sub *Subscription

	deliver sync.Mutex // serializes deliveries; never held by Dispose
	stopped bool
}

func (e *emitter[T]) Next(v T) {
	e.deliver.Lock()
	defer e.deliver.Unlock()
	if e.stopped || e.sub.isEnded() {
		return
	}
	if e.obs.Next != nil {
		e.obs.Next(v)
	}
}

func (e *emitter[T]) Error(err error) {
	if !e.stop() {
		return
	}
	if e.obs.Error != nil {
		e.obs.Error(err)
	}
	e.deliver.Unlock()
	e.sub.end(false)
}

func (e *emitter[T]) Complete() {
	if !e.stop() {
		return
	}
	if e.obs.Complete != nil {
		e.obs.Complete()
	}
	e.deliver.Unlock()
	e.sub.end(false)
}

// stop acquires the delivery lock and claims the terminal slot. On success
// the caller holds the lock and must release it.
func (e *emitter[T]) stop() bool {
	e.deliver.Lock()
	if e.stopped || e.sub.isEnded() {
		e.deliver.Unlock()
		return false
	}
	e.stopped = true
	e.sub.markTerminal()
	return true
}

func (e *emitter[T]) Dispose() {
	if e.sub.end(true) && e.obs.Disposed != nil {
		e.obs.Disposed()
	}
}

func (e *emitter[T]) Disposed() bool {
	return e.sub.isEnded()
}
