package stream_test

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/rxhttp/stream"
)

func ints(vals ...int) *stream.Stream[int] {
	return stream.Create(func(e stream.Emitter[int]) func() {
		for _, v := range vals {
			e.Next(v)
		}
		e.Complete()
		return nil
	})
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMap(t *testing.T) {
	got, err := stream.Collect(context.Background(), stream.Map(ints(1, 2, 3), strconv.Itoa))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != "1" || got[2] != "3" {
		t.Errorf("unexpected %v", got)
	}
}

func TestFilter(t *testing.T) {
	got, err := stream.Collect(context.Background(), stream.Filter(ints(1, 2, 3, 4), func(v int) bool { return v%2 == 0 }))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{2, 4}) {
		t.Errorf("expected [2 4], got %v", got)
	}
}

func TestScan_StatePerSubscription(t *testing.T) {
	sum := stream.Scan(ints(1, 2, 3), 0, func(acc, v int) int { return acc + v })

	for i := 0; i < 2; i++ {
		got, err := stream.Collect(context.Background(), sum)
		if err != nil {
			t.Fatal(err)
		}
		if !intSliceEqual(got, []int{1, 3, 6}) {
			t.Errorf("run %d: expected [1 3 6], got %v", i, got)
		}
	}
}

func TestScan_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	src := stream.Create(func(e stream.Emitter[int]) func() {
		e.Next(5)
		e.Error(boom)
		return nil
	})
	got, err := stream.Collect(context.Background(), stream.Scan(src, 0, func(acc, v int) int { return acc + v }))
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if !intSliceEqual(got, []int{5}) {
		t.Errorf("expected [5], got %v", got)
	}
}

func TestTap(t *testing.T) {
	var seen, completed atomic.Int32
	s := stream.Tap(ints(1, 2), stream.Observer[int]{
		Next:     func(int) { seen.Add(1) },
		Complete: func() { completed.Add(1) },
	})
	if _, err := stream.Collect(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	if seen.Load() != 2 || completed.Load() != 1 {
		t.Errorf("unexpected tap counts seen=%d completed=%d", seen.Load(), completed.Load())
	}
}

func TestLast(t *testing.T) {
	got, err := stream.Collect(context.Background(), stream.Last(ints(4, 5, 6)))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{6}) {
		t.Errorf("expected [6], got %v", got)
	}

	_, err = stream.Collect(context.Background(), stream.Last(stream.Empty[int]()))
	if !errors.Is(err, stream.ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestOperator_DisposePropagatesUpstream(t *testing.T) {
	var teardowns atomic.Int32
	src := stream.Create(func(e stream.Emitter[int]) func() {
		return func() { teardowns.Add(1) }
	})
	sub := stream.Map(stream.Filter(src, func(int) bool { return true }), strconv.Itoa).
		Subscribe(stream.Observer[string]{})
	sub.Dispose()
	if got := teardowns.Load(); got != 1 {
		t.Errorf("expected upstream teardown once, got %d", got)
	}
}

func TestShare_SingleUpstreamRun(t *testing.T) {
	var (
		starts    atomic.Int32
		teardowns atomic.Int32
		emitter   stream.Emitter[int]
	)
	src := stream.Create(func(e stream.Emitter[int]) func() {
		starts.Add(1)
		emitter = e
		return func() { teardowns.Add(1) }
	})
	shared := stream.Share(src)

	var a, b recorder[int]
	subA := shared.Subscribe(a.observer())
	subB := shared.Subscribe(b.observer())
	if got := starts.Load(); got != 1 {
		t.Fatalf("expected one upstream run, got %d", got)
	}

	emitter.Next(1)
	subA.Dispose()
	emitter.Next(2)
	if teardowns.Load() != 0 {
		t.Fatal("upstream disposed while a subscriber remains")
	}
	emitter.Complete()

	if !intSliceEqual(a.values, []int{1}) {
		t.Errorf("A: expected [1], got %v", a.values)
	}
	if !intSliceEqual(b.values, []int{1, 2}) || b.completed != 1 {
		t.Errorf("B: expected [1 2] and completion, got %v completed=%d", b.values, b.completed)
	}
	select {
	case <-subB.Done():
	default:
		t.Error("B should be done")
	}

	// A fresh subscriber after termination starts a new run.
	shared.Subscribe(stream.Observer[int]{})
	if got := starts.Load(); got != 2 {
		t.Errorf("expected second upstream run, got %d", got)
	}
}

func TestShare_LastSubscriberDisposesUpstream(t *testing.T) {
	var teardowns atomic.Int32
	src := stream.Create(func(e stream.Emitter[int]) func() {
		return func() { teardowns.Add(1) }
	})
	shared := stream.Share(src)
	s1 := shared.Subscribe(stream.Observer[int]{})
	s2 := shared.Subscribe(stream.Observer[int]{})
	s1.Dispose()
	s2.Dispose()
	s2.Dispose()
	if got := teardowns.Load(); got != 1 {
		t.Errorf("expected one upstream teardown, got %d", got)
	}
}

func TestShare_ErrorReachesAllSubscribers(t *testing.T) {
	boom := errors.New("boom")
	var emitter stream.Emitter[int]
	shared := stream.Share(stream.Create(func(e stream.Emitter[int]) func() {
		emitter = e
		return nil
	}))
	var a, b recorder[int]
	shared.Subscribe(a.observer())
	shared.Subscribe(b.observer())
	emitter.Error(boom)
	if !errors.Is(a.err, boom) || !errors.Is(b.err, boom) {
		t.Errorf("expected both subscribers to see boom, got %v / %v", a.err, b.err)
	}
}

func TestCollect_ContextCancelDisposes(t *testing.T) {
	var teardowns atomic.Int32
	never := stream.Create(func(e stream.Emitter[int]) func() {
		e.Next(1)
		return func() { teardowns.Add(1) }
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	got, err := stream.Collect(ctx, never)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if !intSliceEqual(got, []int{1}) {
		t.Errorf("expected partial values [1], got %v", got)
	}
	if teardowns.Load() != 1 {
		t.Error("expected subscription to be disposed")
	}
}

func TestCollect_ProducerDisposeReportsErrDisposed(t *testing.T) {
	s := stream.Create(func(e stream.Emitter[int]) func() {
		go e.Dispose()
		return nil
	})
	_, err := stream.Collect(context.Background(), s)
	if !errors.Is(err, stream.ErrDisposed) {
		t.Errorf("expected ErrDisposed, got %v", err)
	}
}

func TestFirst(t *testing.T) {
	v, err := stream.First(context.Background(), ints(7, 8))
	if err != nil || v != 7 {
		t.Errorf("expected 7, got %d, %v", v, err)
	}

	_, err = stream.First(context.Background(), stream.Empty[int]())
	if !errors.Is(err, stream.ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestIter(t *testing.T) {
	ctx := context.Background()
	it := stream.Iter(ctx, ints(1, 2, 3))
	defer it.Close()

	var got []int
	for {
		v, ok, err := it.Next(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		got = append(got, v)
	}
	if !intSliceEqual(got, []int{1, 2, 3}) {
		t.Errorf("expected [1 2 3], got %v", got)
	}
	if _, ok, _ := it.Next(ctx); ok {
		t.Error("exhausted iterator must stay exhausted")
	}
}

func TestIter_CloseReleasesProducer(t *testing.T) {
	var teardowns atomic.Int32
	endless := stream.Create(func(e stream.Emitter[int]) func() {
		go func() {
			for i := 0; !e.Disposed(); i++ {
				e.Next(i)
			}
		}()
		return func() { teardowns.Add(1) }
	})
	ctx := context.Background()
	it := stream.Iter(ctx, endless)
	if _, ok, err := it.Next(ctx); !ok || err != nil {
		t.Fatalf("expected a value, got ok=%v err=%v", ok, err)
	}
	it.Close()
	it.Close()
	if teardowns.Load() != 1 {
		t.Errorf("expected teardown once, got %d", teardowns.Load())
	}
}
