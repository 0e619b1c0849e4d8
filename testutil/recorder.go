package testutil

import (
	"sync"
	"time"

	"github.com/kbukum/rxhttp/stream"
)

// Recorder is a thread-safe stream observer that keeps every event it sees.
type Recorder[T any] struct {
	mu          sync.Mutex
	values      []T
	err         error
	errors      int
	completions int
	done        chan struct{}
	doneOnce    sync.Once
}

// NewRecorder returns an empty Recorder.
func NewRecorder[T any]() *Recorder[T] {
	return &Recorder[T]{done: make(chan struct{})}
}

// Observer returns the observer to pass to Subscribe.
func (r *Recorder[T]) Observer() stream.Observer[T] {
	return stream.Observer[T]{
		Next: func(v T) {
			r.mu.Lock()
			r.values = append(r.values, v)
			r.mu.Unlock()
		},
		Error: func(err error) {
			r.mu.Lock()
			r.err = err
			r.errors++
			r.mu.Unlock()
			r.doneOnce.Do(func() { close(r.done) })
		},
		Complete: func() {
			r.mu.Lock()
			r.completions++
			r.mu.Unlock()
			r.doneOnce.Do(func() { close(r.done) })
		},
	}
}

// Values returns a copy of the received values.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.values))
	copy(out, r.values)
	return out
}

// Err returns the last error received.
func (r *Recorder[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Errors returns the number of error events.
func (r *Recorder[T]) Errors() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errors
}

// Completions returns the number of completion events.
func (r *Recorder[T]) Completions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completions
}

// Terminated reports whether an error or completion was received.
func (r *Recorder[T]) Terminated() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Wait blocks until a terminal event arrives or timeout elapses.
func (r *Recorder[T]) Wait(timeout time.Duration) bool {
	select {
	case <-r.done:
		return true
	case <-time.After(timeout):
		return false
	}
}
