// Package observability wires OpenTelemetry tracing and metrics for
// connection attempts.
//
// Providers (optional, the global no-op providers are used otherwise):
//
//	tp, err := observability.InitTracer(ctx, &observability.TracerConfig{ServiceName: "asynchttp", Endpoint: "localhost:4318"})
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, &observability.MeterConfig{ServiceName: "asynchttp", Endpoint: "localhost:4318"})
//	defer mp.Shutdown(ctx)
//
// Per-attempt instrumentation:
//
//	m, err := observability.NewAttemptMetrics(observability.Meter("asynchttp"))
//	a := observability.StartAttempt(ctx, observability.Tracer("asynchttp"), m, id, "example.com:443")
//	defer a.End("ok", nil)
package observability
