package provider

import "context"

// RequestResponse represents a provider that takes one input and returns one output.
// It blocks until the call resolves; Async turns it into a Caller.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Progressive is a RequestResponse that reports transfer progress while it
// executes. onProgress may be nil.
type Progressive[I, O any] interface {
	RequestResponse[I, O]
	ExecuteWithProgress(ctx context.Context, input I, onProgress ProgressFunc) (O, error)
}

// executeWithProgress uses the progress-reporting path when p supports it and
// plain Execute otherwise.
func executeWithProgress[I, O any](ctx context.Context, p RequestResponse[I, O], input I, onProgress ProgressFunc) (O, error) {
	if pp, ok := p.(Progressive[I, O]); ok {
		return pp.ExecuteWithProgress(ctx, input, onProgress)
	}
	return p.Execute(ctx, input)
}
