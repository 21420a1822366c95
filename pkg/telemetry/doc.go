// Package telemetry provides observability instrumentation for partforge.
//
// The telemetry package integrates structured logging (zerolog), distributed
// tracing (OpenTelemetry), and metrics (Prometheus) into a unified system for
// monitoring resolution and processing runs.
//
// # Usage
//
// Initialize telemetry at application startup:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.ServiceVersion = "1.0.0"
//
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(context.Background())
//
// Add telemetry to context:
//
//	ctx = tel.WithContext(ctx)
//
// # Structured Logging
//
// The logger provides component-specific logging with domain field helpers:
//
//	logger := tel.Logger.NewComponentLogger("engine")
//	logger = logger.WithRunID("run-123").WithPartNumber("PF-1001")
//	logger.Info("Starting document processing")
//	logger.WithError(err).Error("Processing failed")
//
// # Tracing and Metrics
//
// Spans wrap processing and comparison runs:
//
//	ctx, span := tel.Tracer.StartProcessSpan(ctx, "bracket", "part")
//	defer span.End()
//
// Metrics cover schedule resolutions, cut parameter lookups, writeback
// entries, comparison fields, and processing durations; the collector is a
// no-op when metrics are disabled.
package telemetry
