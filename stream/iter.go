package stream

import (
	"context"
	"sync"
)

// Iterator provides pull-based sequential access to a stream's values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when the stream completed.
	Next(ctx context.Context) (T, bool, error)
	// Close disposes the underlying subscription.
	Close() error
}

// Collect subscribes to s and blocks until it terminates, returning every
// value it emitted. Cancelling ctx disposes the subscription and returns
// ctx.Err() with the values received so far.
func Collect[T any](ctx context.Context, s *Stream[T]) ([]T, error) {
	var (
		mu     sync.Mutex
		values []T
		err    error
		ended  bool
	)
	sub := s.Subscribe(Observer[T]{
		Next: func(v T) {
			mu.Lock()
			values = append(values, v)
			mu.Unlock()
		},
		Error: func(e error) {
			mu.Lock()
			err, ended = e, true
			mu.Unlock()
		},
		Complete: func() {
			mu.Lock()
			ended = true
			mu.Unlock()
		},
	})

	select {
	case <-sub.Done():
	case <-ctx.Done():
		sub.Dispose()
		mu.Lock()
		defer mu.Unlock()
		if ended {
			return values, err
		}
		return values, ctx.Err()
	}

	mu.Lock()
	defer mu.Unlock()
	if !ended {
		return values, ErrDisposed
	}
	return values, err
}

// First blocks until s emits its first value, then disposes the subscription.
func First[T any](ctx context.Context, s *Stream[T]) (T, error) {
	it := Iter(ctx, s)
	defer it.Close()

	v, ok, err := it.Next(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if !ok {
		var zero T
		return zero, ErrEmpty
	}
	return v, nil
}

type item[T any] struct {
	val T
	err error
	end bool
}

// Iter subscribes to s and exposes its events through a pull-based Iterator.
// The producer blocks while the consumer is not pulling. The caller must
// Close the iterator to release the subscription.
func Iter[T any](ctx context.Context, s *Stream[T]) Iterator[T] {
	it := &chanIter[T]{
		ch:     make(chan item[T]),
		closed: make(chan struct{}),
		ready:  make(chan struct{}),
		ended:  make(chan struct{}),
	}
	send := func(x item[T]) {
		select {
		case it.ch <- x:
		case <-it.closed:
		case <-ctx.Done():
		}
	}

	// Subscribing on a separate goroutine lets producers that emit
	// synchronously during Subscribe hand values to the consumer.
	go func() {
		it.sub = s.Subscribe(Observer[T]{
			Next:     func(v T) { send(item[T]{val: v}) },
			Error:    func(err error) { send(item[T]{err: err, end: true}) },
			Complete: func() { send(item[T]{end: true}) },
		})
		close(it.ready)
		<-it.sub.Done()
		close(it.ended)
	}()
	return it
}

type chanIter[T any] struct {
	ch        chan item[T]
	closed    chan struct{}
	ready     chan struct{}
	ended     chan struct{}
	closeOnce sync.Once
	sub       *Subscription
	finished  bool
}

func (it *chanIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if it.finished {
		return zero, false, nil
	}
	select {
	case x := <-it.ch:
		return it.receive(x)
	case <-it.ended:
		// Drain a value that raced with the end of the subscription.
		select {
		case x := <-it.ch:
			return it.receive(x)
		default:
		}
		it.finished = true
		return zero, false, ErrDisposed
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

func (it *chanIter[T]) receive(x item[T]) (T, bool, error) {
	var zero T
	if x.end {
		it.finished = true
		return zero, false, x.err
	}
	return x.val, true, nil
}

func (it *chanIter[T]) Close() error {
	it.closeOnce.Do(func() {
		close(it.closed)
		<-it.ready
		it.sub.Dispose()
	})
	return nil
}
