package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

func newMeterProvider(ctx context.Context, cfg TelemetryConfig, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("metric exporter: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	), nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Stream outcomes recorded by RecordStreamEnd.
const (
	OutcomeCompleted = "completed"
	OutcomeError     = "error"
	OutcomeCancelled = "cancelled"
)

// Metrics holds OpenTelemetry metric instruments for requests, provider
// operations and reactive request streams.
type Metrics struct {
	requestTotal      metric.Int64Counter
	requestDuration   metric.Float64Histogram
	requestActive     metric.Int64UpDownCounter
	operationTotal    metric.Int64Counter
	operationDuration metric.Float64Histogram
	errorTotal        metric.Int64Counter

	streamSubscriptions metric.Int64Counter
	streamActive        metric.Int64UpDownCounter
	streamEnded         metric.Int64Counter
	uploadBytes         metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.requestTotal, err = meter.Int64Counter("request.total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, fmt.Errorf("creating request.total counter: %w", err)
	}
	if m.requestDuration, err = meter.Float64Histogram("request.duration",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating request.duration histogram: %w", err)
	}
	if m.requestActive, err = meter.Int64UpDownCounter("request.active",
		metric.WithDescription("Number of HTTP requests in flight"),
	); err != nil {
		return nil, fmt.Errorf("creating request.active gauge: %w", err)
	}
	if m.operationTotal, err = meter.Int64Counter("operation.total",
		metric.WithDescription("Total number of provider operations"),
	); err != nil {
		return nil, fmt.Errorf("creating operation.total counter: %w", err)
	}
	if m.operationDuration, err = meter.Float64Histogram("operation.duration",
		metric.WithDescription("Duration of provider operations in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating operation.duration histogram: %w", err)
	}
	if m.errorTotal, err = meter.Int64Counter("error.total",
		metric.WithDescription("Total errors by type and component"),
	); err != nil {
		return nil, fmt.Errorf("creating error.total counter: %w", err)
	}
	if m.streamSubscriptions, err = meter.Int64Counter("stream.subscriptions",
		metric.WithDescription("Total number of request stream subscriptions"),
	); err != nil {
		return nil, fmt.Errorf("creating stream.subscriptions counter: %w", err)
	}
	if m.streamActive, err = meter.Int64UpDownCounter("stream.active",
		metric.WithDescription("Number of request streams waiting on a provider call"),
	); err != nil {
		return nil, fmt.Errorf("creating stream.active gauge: %w", err)
	}
	if m.streamEnded, err = meter.Int64Counter("stream.ended",
		metric.WithDescription("Request streams ended, by outcome"),
	); err != nil {
		return nil, fmt.Errorf("creating stream.ended counter: %w", err)
	}
	if m.uploadBytes, err = meter.Int64Counter("upload.bytes",
		metric.WithDescription("Bytes sent in multipart upload bodies"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, fmt.Errorf("creating upload.bytes counter: %w", err)
	}

	return m, nil
}

// RecordRequestStart increments the active request count.
func (m *Metrics) RecordRequestStart(ctx context.Context) {
	m.requestActive.Add(ctx, 1)
}

// RecordRequestEnd decrements active requests and records the completed request.
func (m *Metrics) RecordRequestEnd(ctx context.Context, service, method, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("method", method),
		attribute.String("status", status),
	)
	m.requestActive.Add(ctx, -1)
	m.requestTotal.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("method", method),
	))
}

// RecordOperation records a provider operation execution.
func (m *Metrics) RecordOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	m.operationTotal.Add(ctx, 1, attrs)
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("operation", operation),
	))
}

// RecordError records an error by type and component.
func (m *Metrics) RecordError(ctx context.Context, errType, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errType),
		attribute.String("component", component),
	))
}

// RecordSubscribe counts a new stream subscription and marks it active.
func (m *Metrics) RecordSubscribe(ctx context.Context, adapter string) {
	attrs := metric.WithAttributes(attribute.String("adapter", adapter))
	m.streamSubscriptions.Add(ctx, 1, attrs)
	m.streamActive.Add(ctx, 1, attrs)
}

// RecordStreamEnd marks a subscription inactive and records how it ended.
// outcome is one of the Outcome constants.
func (m *Metrics) RecordStreamEnd(ctx context.Context, adapter, outcome string) {
	m.streamActive.Add(ctx, -1, metric.WithAttributes(attribute.String("adapter", adapter)))
	m.streamEnded.Add(ctx, 1, metric.WithAttributes(
		attribute.String("adapter", adapter),
		attribute.String("outcome", outcome),
	))
}

// RecordUploadBytes adds n to the uploaded byte count for service.
func (m *Metrics) RecordUploadBytes(ctx context.Context, service string, n int64) {
	if n <= 0 {
		return
	}
	m.uploadBytes.Add(ctx, n, metric.WithAttributes(attribute.String("service", service)))
}
