package provider

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/kbukum/rxhttp/observability"
)

// WithMetrics returns a Middleware that records execution metrics
// using the observability.Metrics instruments.
// Records: operation count, duration histogram, errors and uploaded bytes.
func WithMetrics[I, O any](metrics *observability.Metrics) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &metricsRR[I, O]{inner: inner, metrics: metrics}
	}
}

type metricsRR[I, O any] struct {
	inner   RequestResponse[I, O]
	metrics *observability.Metrics
}

func (m *metricsRR[I, O]) Name() string                         { return m.inner.Name() }
func (m *metricsRR[I, O]) IsAvailable(ctx context.Context) bool { return m.inner.IsAvailable(ctx) }

func (m *metricsRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return m.ExecuteWithProgress(ctx, input, nil)
}

func (m *metricsRR[I, O]) ExecuteWithProgress(ctx context.Context, input I, onProgress ProgressFunc) (O, error) {
	var sent atomic.Int64
	report := onProgress
	if onProgress != nil {
		report = func(p Progress) {
			sent.Store(p.Transferred)
			onProgress(p)
		}
	}

	start := time.Now()
	output, err := executeWithProgress(ctx, m.inner, input, report)
	duration := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
		m.metrics.RecordError(ctx, "execute", m.inner.Name())
	}
	m.metrics.RecordOperation(ctx, m.inner.Name(), "execute", status, duration)
	m.metrics.RecordUploadBytes(ctx, m.inner.Name(), sent.Load())

	return output, err
}
