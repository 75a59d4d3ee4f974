// Package observability provides OpenTelemetry metrics and tracing for
// pipeline runs.
//
// Instruments are created on any metric.Meter; without a configured
// provider the global no-op provider discards them.
//
// Metrics:
//
//	mp, err := observability.InitMeter(observability.DefaultMeterConfig("logpipe"), reader)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("logpipe"))
//	metrics.RecordRun(ctx, observability.StatusOK, counts, elapsed)
//
// Tracing:
//
//	tp, err := observability.InitTracer(observability.DefaultTracerConfig("logpipe"), exporter)
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanProcess)
//	defer span.End()
package observability
