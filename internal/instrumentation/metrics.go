package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	// Common attributes (reused across metrics)
	attrMethod   = "method"
	attrPath     = "path"
	attrStatus   = "status"
	attrStrategy = "strategy"
	attrResult   = "result"
	attrReason   = "reason"
	attrTool     = "tool"
	attrCalendar = "calendar"
	attrEvents   = "events"
	attrWindow   = "window_days"
)

// Metrics provides methods for recording observability metrics.
//
// All recording methods are nil-receiver and zero-value safe: a nil or
// uninitialized Metrics records nothing, so callers never guard.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Calendar acquisition metrics
	acquisitionsTotal     metric.Int64Counter
	acquisitionDuration   metric.Float64Histogram
	strategyAttemptsTotal metric.Int64Counter
	recordsDroppedTotal   metric.Int64Counter
	eventsCached          metric.Int64Gauge

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// Configuration
	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// HTTP Metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	// Calendar acquisition metrics
	m.acquisitionsTotal, err = meter.Int64Counter(
		"calendar_acquisitions_total",
		metric.WithDescription("Total number of calendar acquisition runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_acquisitions_total counter: %w", err)
	}

	m.acquisitionDuration, err = meter.Float64Histogram(
		"calendar_acquisition_duration_seconds",
		metric.WithDescription("Calendar acquisition duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_acquisition_duration_seconds histogram: %w", err)
	}

	m.strategyAttemptsTotal, err = meter.Int64Counter(
		"calendar_strategy_attempts_total",
		metric.WithDescription("Total number of acquisition strategy attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_strategy_attempts_total counter: %w", err)
	}

	m.recordsDroppedTotal, err = meter.Int64Counter(
		"calendar_records_dropped_total",
		metric.WithDescription("Total number of raw records dropped during normalization"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_records_dropped_total counter: %w", err)
	}

	m.eventsCached, err = meter.Int64Gauge(
		"calendar_events_cached",
		metric.WithDescription("Number of events in the cache after the latest refresh"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_events_cached gauge: %w", err)
	}

	// MCP Tool Metrics
	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordAcquisition records one full acquisition run.
//
// Parameters:
//   - status: Result status ("success" or "error")
//   - eventCount: Events in the cache after the run (bucketed via BucketEventCount)
//   - windowDays: Total look-behind + look-ahead window (bucketed via BucketWindowDays)
//   - duration: Time taken from strategy selection through cache replacement
//
// The bucketed labels go on the counter only; the duration histogram keeps
// the status label alone to bound the series count.
func (m *Metrics) RecordAcquisition(ctx context.Context, status string, eventCount, windowDays int, duration time.Duration) {
	if m == nil || m.acquisitionsTotal == nil || m.acquisitionDuration == nil {
		return // Instrumentation not initialized
	}

	counterAttrs := []attribute.KeyValue{
		attribute.String(attrStatus, status),
		attribute.String(attrEvents, BucketEventCount(eventCount)),
		attribute.String(attrWindow, BucketWindowDays(windowDays)),
	}

	m.acquisitionsTotal.Add(ctx, 1, metric.WithAttributes(counterAttrs...))
	m.acquisitionDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String(attrStatus, status)))
}

// RecordStrategyAttempt records one attempt of a single acquisition strategy.
// Result should be one of: "success", "failure"
func (m *Metrics) RecordStrategyAttempt(ctx context.Context, strategy, result string) {
	if m == nil || m.strategyAttemptsTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrStrategy, strategy),
		attribute.String(attrResult, result),
	}

	m.strategyAttemptsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordDroppedRecord records a raw record rejected during normalization.
//
// Parameters:
//   - reason: Low-cardinality drop reason (e.g. "bad_start", "bad_end")
//   - calendar: Source calendar name (only included if detailedLabels is true;
//     calendar names are user-defined and unbounded)
func (m *Metrics) RecordDroppedRecord(ctx context.Context, reason, calendar string) {
	if m == nil || m.recordsDroppedTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrReason, reason),
	}

	// Only add high-cardinality labels if explicitly enabled
	if m.detailedLabels && calendar != "" {
		attrs = append(attrs, attribute.String(attrCalendar, calendar))
	}

	m.recordsDroppedTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// SetCachedEvents records the cache size after a completed refresh.
func (m *Metrics) SetCachedEvents(ctx context.Context, count int) {
	if m == nil || m.eventsCached == nil {
		return // Instrumentation not initialized
	}

	m.eventsCached.Record(ctx, int64(count))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
//
// Parameters:
//   - toolName: Name of the MCP tool (e.g., "calendar_get_events", "calendar_status")
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the tool execution
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
