// Package observability wires OpenTelemetry tracing and metrics into the
// stream engine, the process runner and guarded resources.
//
// Telemetry is off unless enabled in configuration. Without an exporter the
// global no-op providers are used and every call below is cheap.
//
//	cfg := observability.DefaultConfig("nightly-backup")
//	cfg.Enabled = true
//	tp, err := observability.InitTracer(ctx, &cfg)
//	defer tp.Shutdown(ctx)
//
//	ctx, op := observability.StartOperation(ctx, "process", observability.SpanProcessRun)
//	defer op.End(ctx, err)
//
// Instruments for processes and guarded resources live on Metrics. Library
// code records through DefaultMetrics, which binds lazily to the global meter
// provider; InitMeter rebinds it.
package observability
