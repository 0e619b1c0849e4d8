package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation is one outbound request, traced as a client span and counted in
// the request metrics.
type Operation struct {
	Service string
	Name    string

	started time.Time
	span    trace.Span
	metrics *Metrics
}

// StartOperation opens a client span named spanName for the request name on
// service. metrics may be nil.
func StartOperation(ctx context.Context, metrics *Metrics, service, name, requestID, spanName string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String(AttrServiceName, service),
		attribute.String(AttrOperationName, name),
	)
	if requestID != "" {
		span.SetAttributes(attribute.String(AttrRequestID, requestID))
	}
	span.SetAttributes(attrs...)

	if metrics != nil {
		metrics.RecordRequestStart(ctx)
	}
	return ctx, &Operation{Service: service, Name: name, started: time.Now(), span: span, metrics: metrics}
}

// Span is the operation's client span.
func (op *Operation) Span() trace.Span { return op.span }

// Elapsed is the time since StartOperation.
func (op *Operation) Elapsed() time.Duration { return time.Since(op.started) }

// End closes the span with status and records the request duration. A
// non-nil err fails the span.
func (op *Operation) End(ctx context.Context, status string, err error) {
	elapsed := op.Elapsed()
	if err != nil {
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, err.Error())
	}
	op.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, elapsed.Milliseconds()),
	)
	op.span.End()

	if op.metrics != nil {
		op.metrics.RecordRequestEnd(ctx, op.Service, op.Name, status, elapsed)
	}
}
