// Package rx adapts callback-based providers into cold, cancellable streams.
//
// An Adapter issues one provider call per subscription. The stream emits the
// response and completes, or fails with the provider error. Disposing the
// subscription while the call is in flight cancels the call's token:
//
//	caller := provider.Async[httpclient.Request, *httpclient.Response](client)
//	requests := rx.New[httpclient.Request, *httpclient.Response](caller,
//	    rx.WithName("billing"),
//	    rx.WithLogger(log),
//	)
//	resp, err := stream.First(ctx, requests.Request(httpclient.Request{Path: "/invoices"}))
//
// A ProgressAdapter additionally folds the call's progress reports into
// monotonic Snapshots, ending with one snapshot that carries the response:
//
//	uploads := rx.NewProgress[httpclient.Upload, *httpclient.Response](upCaller)
//	t := uploads.RequestTransfer(upload)
//	t.Progress.Subscribe(stream.Observer[rx.Snapshot[*httpclient.Response]]{
//	    Next: func(s rx.Snapshot[*httpclient.Response]) { bar.Set(s.Fraction()) },
//	})
//	final, err := stream.First(ctx, t.Response)
//
// Close disposes every in-flight subscription of an adapter and rejects new
// ones with ErrClosed.
package rx
