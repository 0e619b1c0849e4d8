// Package provider defines the Request Provider contract consumed by the
// reactive adapters in package rx, plus bridges from blocking providers.
//
// Two styles of provider live here:
//   - RequestResponse[I, O] and Progressive[I, O]: blocking Execute calls
//     (the httpclient Adapter is one).
//   - Caller[D, R] and ProgressCaller[D, R]: asynchronous calls that return a
//     Cancellable immediately and report through callbacks.
//
// Async and AsyncProgress turn the first style into the second:
//
//	caller := provider.AsyncProgress[httpclient.Request, *httpclient.Response](client)
//	token := caller.CallWithProgress(req, onProgress, func(r provider.Result[*httpclient.Response]) {
//	    resp, err := r.Unwrap()
//	    ...
//	})
//	defer token.Cancel()
//
// # Middleware
//
// Middleware[I, O] wraps a RequestResponse provider. Use Chain to compose
// several, or ChainProgressive to keep progress reporting:
//
//	wrapped := provider.ChainProgressive(rawProvider,
//	    provider.WithLogging[In, Out](log),
//	    provider.WithMetrics[In, Out](metrics),
//	    provider.WithTracing[In, Out]("my-service"),
//	)
package provider
