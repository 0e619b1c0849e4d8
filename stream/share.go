package stream

import "sync"

// Share multicasts one run of s to every current subscriber.
//
// The first subscriber starts s; later subscribers join the running source
// and see only events emitted after they joined. When the last subscriber
// disposes, the source is disposed. After the source terminates, the next
// subscriber starts a fresh run. If the source is disposed by its producer,
// every subscriber is disposed with it.
func Share[T any](s *Stream[T]) *Stream[T] {
	return Create(newShared(s, false).subscribe)
}

// ShareReplay is Share that remembers the latest value and the terminal event
// of its run.
//
// A subscriber joining a running source first receives the latest value.
// Once the source has terminated, every later subscriber receives the latest
// value and the terminal event, and the source is not run again. If every
// subscriber leaves before the source terminates, the run is disposed and
// forgotten, so the next subscriber starts a new one. Observers must not
// subscribe to the same stream from inside a callback.
func ShareReplay[T any](s *Stream[T]) *Stream[T] {
	return Create(newShared(s, true).subscribe)
}

type shared[T any] struct {
	source *Stream[T]
	replay bool

	// emit orders replays against live deliveries. Only used with replay.
	emit sync.Mutex

	mu          sync.Mutex
	subscribers map[uint64]Emitter[T]
	order       []uint64
	nextID      uint64
	running     bool
	generation  uint64
	conn        *Subscription

	last     T
	hasLast  bool
	finished bool
	err      error
}

func newShared[T any](s *Stream[T], replay bool) *shared[T] {
	return &shared[T]{source: s, replay: replay, subscribers: make(map[uint64]Emitter[T])}
}

func (sh *shared[T]) lockEmit() {
	if sh.replay {
		sh.emit.Lock()
	}
}

func (sh *shared[T]) unlockEmit() {
	if sh.replay {
		sh.emit.Unlock()
	}
}

func (sh *shared[T]) subscribe(e Emitter[T]) func() {
	sh.lockEmit()
	sh.mu.Lock()
	if sh.finished {
		last, hasLast, err := sh.last, sh.hasLast, sh.err
		sh.mu.Unlock()
		sh.unlockEmit()
		if hasLast {
			e.Next(last)
		}
		if err != nil {
			e.Error(err)
		} else {
			e.Complete()
		}
		return nil
	}

	id := sh.nextID
	sh.nextID++
	sh.subscribers[id] = e
	sh.order = append(sh.order, id)
	start := !sh.running
	if start {
		sh.running = true
		sh.generation++
		sh.forget()
	}
	gen := sh.generation
	last, hasLast := sh.last, sh.replay && sh.hasLast
	sh.mu.Unlock()
	if hasLast {
		e.Next(last)
	}
	sh.unlockEmit()

	if start {
		conn := sh.source.Subscribe(Observer[T]{
			Next:     func(v T) { sh.broadcastNext(gen, v) },
			Error:    func(err error) { sh.broadcastEnd(gen, endError, err) },
			Complete: func() { sh.broadcastEnd(gen, endComplete, nil) },
			Disposed: func() { sh.broadcastEnd(gen, endDisposed, nil) },
		})

		sh.mu.Lock()
		stale := !sh.running || sh.generation != gen
		if !stale {
			sh.conn = conn
		}
		sh.mu.Unlock()
		if stale {
			conn.Dispose()
		}
	}

	return func() { sh.leave(id) }
}

// forget drops the cached value of a previous run. Callers hold mu.
func (sh *shared[T]) forget() {
	var zero T
	sh.last, sh.hasLast = zero, false
}

func (sh *shared[T]) snapshot() []Emitter[T] {
	out := make([]Emitter[T], 0, len(sh.order))
	for _, id := range sh.order {
		if d, ok := sh.subscribers[id]; ok {
			out = append(out, d)
		}
	}
	return out
}

func (sh *shared[T]) broadcastNext(gen uint64, v T) {
	sh.lockEmit()
	defer sh.unlockEmit()

	sh.mu.Lock()
	if sh.generation != gen {
		sh.mu.Unlock()
		return
	}
	if sh.replay {
		sh.last, sh.hasLast = v, true
	}
	targets := sh.snapshot()
	sh.mu.Unlock()

	for _, d := range targets {
		d.Next(v)
	}
}

type endKind int

const (
	endComplete endKind = iota
	endError
	endDisposed
)

func (sh *shared[T]) broadcastEnd(gen uint64, kind endKind, err error) {
	sh.lockEmit()
	defer sh.unlockEmit()

	sh.mu.Lock()
	if sh.generation != gen {
		sh.mu.Unlock()
		return
	}
	targets := sh.snapshot()
	sh.subscribers = make(map[uint64]Emitter[T])
	sh.order = nil
	sh.running = false
	sh.conn = nil
	if sh.replay && kind != endDisposed {
		sh.finished, sh.err = true, err
	} else {
		sh.forget()
	}
	sh.mu.Unlock()

	for _, d := range targets {
		switch kind {
		case endError:
			d.Error(err)
		case endComplete:
			d.Complete()
		default:
			d.Dispose()
		}
	}
}

func (sh *shared[T]) leave(id uint64) {
	sh.mu.Lock()
	if _, ok := sh.subscribers[id]; !ok {
		sh.mu.Unlock()
		return
	}
	delete(sh.subscribers, id)
	for i, v := range sh.order {
		if v == id {
			sh.order = append(sh.order[:i], sh.order[i+1:]...)
			break
		}
	}

	var conn *Subscription
	if len(sh.subscribers) == 0 && sh.running {
		conn = sh.conn
		sh.conn = nil
		sh.running = false
		sh.generation++
		sh.forget()
	}
	sh.mu.Unlock()

	if conn != nil {
		conn.Dispose()
	}
}
