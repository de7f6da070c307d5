// Package observability provides OpenTelemetry tracing and metrics for
// speechkit task runs and remote calls.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("speechkit"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanTaskRun)
//	defer span.End()
//
// Metrics:
//
//	metrics, err := observability.NewMetrics(observability.Meter("speechkit"))
//	metrics.RecordTask(ctx, "audio-to-text", "ok", duration)
//	metrics.RecordRemoteCall(ctx, "siliconflow", "/audio/transcriptions", 200, duration)
//
// Both are no-ops until InitTracer/InitMeter (or Setup) installs real providers.
package observability
