// Package observability wires OpenTelemetry tracing and metrics for the
// bridge. Both are off unless configured; with no provider installed the
// global otel no-op implementations are used.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("h2bridge"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "h2bridge.call")
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("h2bridge"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("h2bridge"))
//	metrics.RecordCall(ctx, "upstream", "ok", duration)
package observability
