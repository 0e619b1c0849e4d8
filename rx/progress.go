package rx

import (
	"github.com/kbukum/rxhttp/provider"
	"github.com/kbukum/rxhttp/stream"
)

// Snapshot is the accumulated progress of one call. Response is set only on
// the terminal snapshot, which is marked by HasResponse.
type Snapshot[R any] struct {
	BytesTransferred int64
	BytesExpected    int64
	Response         R
	HasResponse      bool
}

// Completed reports whether the snapshot carries the final response.
func (s Snapshot[R]) Completed() bool {
	return s.HasResponse
}

// Fraction returns the transferred share in [0, 1]. It is 1 once completed
// and 0 while the expected size is unknown.
func (s Snapshot[R]) Fraction() float64 {
	if s.HasResponse {
		return 1
	}
	if s.BytesExpected <= 0 {
		return 0
	}
	f := float64(s.BytesTransferred) / float64(s.BytesExpected)
	if f > 1 {
		return 1
	}
	return f
}

// Accumulate folds next into prev. A byte count only moves forward: values
// that are not greater than the previous one are ignored. The response of next
// replaces the previous one when present.
func Accumulate[R any](prev, next Snapshot[R]) Snapshot[R] {
	out := prev
	if next.BytesTransferred > prev.BytesTransferred {
		out.BytesTransferred = next.BytesTransferred
	}
	if next.BytesExpected > prev.BytesExpected {
		out.BytesExpected = next.BytesExpected
	}
	if next.HasResponse {
		out.Response = next.Response
		out.HasResponse = true
	}
	return out
}

// ProgressAdapter is an Adapter over a caller whose calls report progress.
type ProgressAdapter[D, R any] struct {
	*Adapter[D, R]
	pcaller provider.ProgressCaller[D, R]
}

// NewProgress wraps caller. Plain Request remains available on the result.
func NewProgress[D, R any](caller provider.ProgressCaller[D, R], opts ...Option) *ProgressAdapter[D, R] {
	return &ProgressAdapter[D, R]{
		Adapter: New[D, R](caller, opts...),
		pcaller: caller,
	}
}

// RequestWithProgress returns a cold stream of accumulated snapshots for d.
// Each subscription issues one call; every progress report and the final
// response produce one snapshot. A failed call ends the stream with the
// provider error and no extra snapshot.
func (p *ProgressAdapter[D, R]) RequestWithProgress(d D) *stream.Stream[Snapshot[R]] {
	return stream.Scan(p.updates(d), Snapshot[R]{}, Accumulate[R])
}

// updates emits the raw, unaccumulated snapshots of one call.
func (p *ProgressAdapter[D, R]) updates(d D) *stream.Stream[Snapshot[R]] {
	return stream.Create(func(e stream.Emitter[Snapshot[R]]) func() {
		return p.launch(e.Dispose, e.Error, func(f *flight) provider.Cancellable {
			onProgress := f.progress(func(pr provider.Progress) {
				e.Next(Snapshot[R]{BytesTransferred: pr.Transferred, BytesExpected: pr.Expected})
			})
			return p.pcaller.CallWithProgress(d, onProgress, bridge(f, func(r provider.Result[R]) {
				v, err := r.Unwrap()
				if err != nil {
					e.Error(err)
					return
				}
				e.Next(Snapshot[R]{Response: v, HasResponse: true})
				e.Complete()
			}))
		})
	})
}

// Transfer pairs two views of one accumulation. Progress emits the
// non-terminal snapshots; Response emits the terminal snapshot only. Both
// come from a single provider call: the first subscription to either view
// starts it, and once it has ended, later subscribers receive its result
// instead of a new call. If every subscriber leaves before the call ends, the
// call is cancelled and the next subscription starts a new one.
type Transfer[R any] struct {
	Progress *stream.Stream[Snapshot[R]]
	Response *stream.Stream[Snapshot[R]]
}

// RequestTransfer splits RequestWithProgress(d) into its progress and response
// projections.
func (p *ProgressAdapter[D, R]) RequestTransfer(d D) Transfer[R] {
	shared := stream.ShareReplay(p.RequestWithProgress(d))
	return Transfer[R]{
		Progress: stream.Filter(shared, func(s Snapshot[R]) bool { return !s.HasResponse }),
		Response: stream.Last(stream.Filter(shared, Snapshot[R].Completed)),
	}
}
