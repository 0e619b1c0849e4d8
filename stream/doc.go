// Package stream implements cold, push-based, cancellable streams.
//
// A Stream does no work until Subscribe is called; every subscription runs
// the producer afresh and ends with exactly one terminal event (Error or
// Complete) unless it is disposed first. Producers may emit from any
// goroutine; deliveries to one observer are serialized and keep call order.
//
//	s := stream.Create(func(e stream.Emitter[int]) func() {
//	    go func() { e.Next(1); e.Complete() }()
//	    return func() { /* release resources */ }
//	})
//	sub := s.Subscribe(stream.Observer[int]{Next: fmt.Println})
//	defer sub.Dispose()
//
// Operators (Map, Filter, Scan, Tap, Last, Share, ShareReplay) compose
// streams, and Collect, First and Iter bridge them into blocking,
// context-aware code.
package stream
