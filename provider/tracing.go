package provider

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/rxhttp/observability"
)

// WithTracing returns a Middleware that creates an OpenTelemetry span
// around each Execute call. The span name is "{serviceName}.{providerName}".
func WithTracing[I, O any](serviceName string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &tracingRR[I, O]{inner: inner, serviceName: serviceName}
	}
}

type tracingRR[I, O any] struct {
	inner       RequestResponse[I, O]
	serviceName string
}

func (t *tracingRR[I, O]) Name() string                         { return t.inner.Name() }
func (t *tracingRR[I, O]) IsAvailable(ctx context.Context) bool { return t.inner.IsAvailable(ctx) }

func (t *tracingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return t.ExecuteWithProgress(ctx, input, nil)
}

func (t *tracingRR[I, O]) ExecuteWithProgress(ctx context.Context, input I, onProgress ProgressFunc) (O, error) {
	spanName := t.serviceName + "." + t.inner.Name()
	ctx, span := observability.StartSpan(ctx, spanName)
	defer span.End()

	observability.SetSpanAttributes(ctx,
		attribute.String(observability.AttrServiceName, t.serviceName),
		attribute.String(observability.AttrOperationName, t.inner.Name()),
	)

	var sent atomic.Int64
	report := onProgress
	if onProgress != nil {
		report = func(p Progress) {
			sent.Store(p.Transferred)
			onProgress(p)
		}
	}

	output, err := executeWithProgress(ctx, t.inner, input, report)
	if n := sent.Load(); n > 0 {
		observability.SetSpanAttributes(ctx, attribute.Int64(observability.AttrBytesSent, n))
	}
	if err != nil {
		observability.SetSpanError(ctx, err)
	}

	return output, err
}
