package provider

import "context"

// Middleware transforms a RequestResponse provider by wrapping it.
// The returned provider typically delegates to the original while
// adding cross-cutting behavior (logging, metrics, tracing, etc.).
//
// The built-in middlewares also implement Progressive and forward progress
// reports from the wrapped provider.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain composes multiple middlewares into one. Middlewares are applied
// in order: the first middleware is outermost (executes first on the
// way in, last on the way out).
//
// Chain(a, b, c)(provider) is equivalent to a(b(c(provider))).
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// ChainProgressive applies middlewares to p and returns a Progressive. If a
// custom middleware hides ExecuteWithProgress, the result still satisfies
// Progressive but reports no progress.
func ChainProgressive[I, O any](p Progressive[I, O], middlewares ...Middleware[I, O]) Progressive[I, O] {
	wrapped := Chain(middlewares...)(p)
	if pw, ok := wrapped.(Progressive[I, O]); ok {
		return pw
	}
	return silentProgress[I, O]{wrapped}
}

type silentProgress[I, O any] struct {
	RequestResponse[I, O]
}

func (s silentProgress[I, O]) ExecuteWithProgress(ctx context.Context, input I, _ ProgressFunc) (O, error) {
	return s.Execute(ctx, input)
}
