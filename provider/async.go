package provider

import (
	"context"
	"fmt"

	"github.com/kbukum/rxhttp/errors"
	"github.com/kbukum/rxhttp/logger"
)

// AsyncOption configures Async and AsyncProgress.
type AsyncOption func(*asyncConfig)

type asyncConfig struct {
	base context.Context
	log  *logger.Logger
}

// WithBaseContext sets the parent context of every call. Values such as trace
// spans flow from it into Execute; cancelling it cancels every call.
func WithBaseContext(ctx context.Context) AsyncOption {
	return func(c *asyncConfig) {
		c.base = ctx
	}
}

// WithAsyncLogger sets the logger used to report recovered panics.
func WithAsyncLogger(log *logger.Logger) AsyncOption {
	return func(c *asyncConfig) {
		c.log = log
	}
}

// AsyncCaller runs a blocking RequestResponse on its own goroutine per call.
// It implements both Caller and ProgressCaller.
type AsyncCaller[I, O any] struct {
	inner RequestResponse[I, O]
	cfg   asyncConfig
}

var (
	_ Caller[any, any]         = (*AsyncCaller[any, any])(nil)
	_ ProgressCaller[any, any] = (*AsyncCaller[any, any])(nil)
)

// Async bridges a blocking provider into a Caller. Each call runs Execute on a
// new goroutine with a context that the returned token cancels. The completion
// is delivered even after cancellation, carrying a CANCELED error; consumers
// that already let go of the call are expected to drop it.
func Async[I, O any](rr RequestResponse[I, O], opts ...AsyncOption) *AsyncCaller[I, O] {
	cfg := asyncConfig{base: context.Background()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = logger.NewNop()
	}
	return &AsyncCaller[I, O]{inner: rr, cfg: cfg}
}

// AsyncProgress is Async for providers that report progress.
func AsyncProgress[I, O any](p Progressive[I, O], opts ...AsyncOption) *AsyncCaller[I, O] {
	return Async[I, O](p, opts...)
}

// Name returns the wrapped provider's name.
func (a *AsyncCaller[I, O]) Name() string { return a.inner.Name() }

// Call implements Caller.
func (a *AsyncCaller[I, O]) Call(input I, onComplete Completion[O]) Cancellable {
	return a.CallWithProgress(input, nil, onComplete)
}

// CallWithProgress implements ProgressCaller. When the wrapped provider is not
// Progressive, onProgress is never invoked.
func (a *AsyncCaller[I, O]) CallWithProgress(input I, onProgress ProgressFunc, onComplete Completion[O]) Cancellable {
	ctx, cancel := context.WithCancel(a.cfg.base)
	token := NewToken(cancel)

	go func() {
		defer cancel()
		out, err := a.run(ctx, input, onProgress)
		if err != nil && token.IsCancelled() && !errors.IsAppError(err) {
			err = errors.Canceled(a.inner.Name(), err)
		}
		if onComplete != nil {
			onComplete(Result[O]{Value: out, Err: err})
		}
	}()

	return token
}

func (a *AsyncCaller[I, O]) run(ctx context.Context, input I, onProgress ProgressFunc) (out O, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero O
			out = zero
			err = errors.Internal(fmt.Errorf("provider %s panicked: %v", a.inner.Name(), r))
			a.cfg.log.Error("provider panic recovered", logger.Fields(
				logger.FieldProvider, a.inner.Name(),
				logger.FieldError, fmt.Sprint(r),
			))
		}
	}()
	return executeWithProgress(ctx, a.inner, input, onProgress)
}
