// Package instrumentation provides comprehensive OpenTelemetry instrumentation
// for the worklens MCP server.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests, calendar acquisition, and MCP tools
//   - Distributed tracing for request flows and acquisition runs
//   - Prometheus metrics export via /metrics endpoint on dedicated port
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Calendar Acquisition Metrics:
//   - calendar_acquisitions_total: Counter of acquisition runs by status,
//     bucketed event count, and bucketed window size
//   - calendar_acquisition_duration_seconds: Histogram of acquisition durations
//   - calendar_strategy_attempts_total: Counter of strategy attempts by strategy and result
//   - calendar_records_dropped_total: Counter of raw records rejected during normalization
//   - calendar_events_cached: Gauge of events in the cache after the latest refresh
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - HTTP request handling
//   - MCP tool invocations (tool.<name>)
//   - Calendar acquisition operations (calendar.<operation>)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: worklens)
//
// # Example Usage
//
//	// Initialize instrumentation
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "worklens",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	// Get metrics recorder
//	recorder := provider.Metrics()
//
//	// Record an HTTP request
//	recorder.RecordHTTPRequest(ctx, "POST", "/mcp", 200, time.Since(start))
//
//	// Record an acquisition run
//	recorder.RecordAcquisition(ctx, instrumentation.StatusSuccess, len(events), windowDays, time.Since(start))
//
//	// Record an MCP tool invocation
//	recorder.RecordToolInvocation(ctx, "calendar_get_events", "success", time.Since(start))
package instrumentation
