package stream

// Map transforms each value with fn.
func Map[I, O any](s *Stream[I], fn func(I) O) *Stream[O] {
	return Create(func(e Emitter[O]) func() {
		return s.Subscribe(Observer[I]{
			Next:     func(v I) { e.Next(fn(v)) },
			Error:    e.Error,
			Complete: e.Complete,
			Disposed: e.Dispose,
		}).Dispose
	})
}

// Filter forwards only the values for which keep returns true.
func Filter[T any](s *Stream[T], keep func(T) bool) *Stream[T] {
	return Create(func(e Emitter[T]) func() {
		return s.Subscribe(Observer[T]{
			Next: func(v T) {
				if keep(v) {
					e.Next(v)
				}
			},
			Error:    e.Error,
			Complete: e.Complete,
			Disposed: e.Dispose,
		}).Dispose
	})
}

// Scan folds every value into a running state and emits each new state.
// The state starts from seed for every subscription.
func Scan[T, A any](s *Stream[T], seed A, fold func(acc A, v T) A) *Stream[A] {
	return Create(func(e Emitter[A]) func() {
		acc := seed
		return s.Subscribe(Observer[T]{
			Next: func(v T) {
				acc = fold(acc, v)
				e.Next(acc)
			},
			Error:    e.Error,
			Complete: e.Complete,
			Disposed: e.Dispose,
		}).Dispose
	})
}

// Tap invokes the side-effect callbacks of o before forwarding each event.
func Tap[T any](s *Stream[T], o Observer[T]) *Stream[T] {
	return Create(func(e Emitter[T]) func() {
		return s.Subscribe(Observer[T]{
			Next: func(v T) {
				if o.Next != nil {
					o.Next(v)
				}
				e.Next(v)
			},
			Error: func(err error) {
				if o.Error != nil {
					o.Error(err)
				}
				e.Error(err)
			},
			Complete: func() {
				if o.Complete != nil {
					o.Complete()
				}
				e.Complete()
			},
			Disposed: func() {
				if o.Disposed != nil {
					o.Disposed()
				}
				e.Dispose()
			},
		}).Dispose
	})
}

// Last emits only the final value, at completion. A stream that completes
// without values fails with ErrEmpty.
func Last[T any](s *Stream[T]) *Stream[T] {
	return Create(func(e Emitter[T]) func() {
		var (
			last T
			seen bool
		)
		return s.Subscribe(Observer[T]{
			Next: func(v T) {
				last, seen = v, true
			},
			Error: e.Error,
			Complete: func() {
				if !seen {
					e.Error(ErrEmpty)
					return
				}
				e.Next(last)
				e.Complete()
			},
			Disposed: e.Dispose,
		}).Dispose
	})
}
