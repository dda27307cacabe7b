// Package server provides the MCP server context and the operational HTTP
// surface for the worklens application.
//
// # Key Components
//
// ServerContext owns the single calendar integration instance and the
// active configuration. Tool handlers share it; configuration updates flow
// through it so the integration always sees the current filter settings.
//
// HealthChecker serves /healthz and /readyz. Readiness reports calendar
// availability as an informational check: the server keeps answering
// status and configuration tools when no calendar interface is reachable,
// so availability never fails the probe.
//
// MetricsServer exposes Prometheus metrics on a dedicated port, isolated
// from the MCP transport, and hosts the health endpoints alongside.
package server
