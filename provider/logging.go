package provider

import (
	"context"
	"time"

	"github.com/kbukum/rxhttp/logger"
)

// WithLogging returns a Middleware that logs each Execute call.
// Logs: provider name, duration, and success/error status.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &loggingRR[I, O]{inner: inner, log: log}
	}
}

type loggingRR[I, O any] struct {
	inner RequestResponse[I, O]
	log   *logger.Logger
}

func (l *loggingRR[I, O]) Name() string                         { return l.inner.Name() }
func (l *loggingRR[I, O]) IsAvailable(ctx context.Context) bool { return l.inner.IsAvailable(ctx) }

func (l *loggingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return l.ExecuteWithProgress(ctx, input, nil)
}

func (l *loggingRR[I, O]) ExecuteWithProgress(ctx context.Context, input I, onProgress ProgressFunc) (O, error) {
	start := time.Now()
	output, err := executeWithProgress(ctx, l.inner, input, onProgress)
	duration := time.Since(start)

	fields := logger.DurationFields("execute", duration)
	fields[logger.FieldProvider] = l.inner.Name()

	log := l.log.WithContext(ctx)
	if err != nil {
		fields[logger.FieldError] = err.Error()
		log.Error("provider execute failed", fields)
	} else {
		log.Debug("provider execute ok", fields)
	}

	return output, err
}
