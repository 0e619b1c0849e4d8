// Package observability provides OpenTelemetry tracing and metrics for
// outbound requests and the reactive streams built on them.
//
// Exporting to a collector:
//
//	cfg := observability.TelemetryConfig{Enabled: true, Insecure: true}
//	cfg.ApplyDefaults()
//	tel, err := observability.Start(ctx, cfg, "uploader", "staging")
//	defer tel.Shutdown(ctx)
//
// Instrumenting a request:
//
//	ctx, op := observability.StartOperation(ctx, metrics, "files", "POST /upload", id, observability.SpanHTTPUpload)
//	defer op.End(ctx, status, err)
//
// Stream metrics:
//
//	metrics, err := observability.NewMetrics(observability.Meter("uploader"))
//	metrics.RecordSubscribe(ctx, "files")
//	metrics.RecordStreamEnd(ctx, "files", observability.OutcomeCompleted)
package observability
