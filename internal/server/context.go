package server

import (
	"context"
	"sync"

	"github.com/worklens/worklens/internal/calendar"
	"github.com/worklens/worklens/internal/config"
	"github.com/worklens/worklens/internal/instrumentation"
)

// ServerContext holds the shared state for the MCP server: the single
// calendar integration instance and the active configuration.
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	integration *calendar.Integration
	cfg         *config.Config
	cfgPath     string
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	mu          sync.RWMutex
	shutdown    bool
}

// NewServerContext creates a new server context. The integration is
// constructed here and shared by every tool handler; the caller probes
// availability once at startup so handlers serve snapshot reads.
func NewServerContext(ctx context.Context, cfg *config.Config, cfgPath string, opts ...calendar.Option) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	opts = append([]calendar.Option{
		calendar.WithCommandTimeout(cfg.CommandTimeout()),
	}, opts...)

	return &ServerContext{
		ctx:         shutdownCtx,
		cancel:      cancel,
		integration: calendar.New(cfg.Calendar(), opts...),
		cfg:         cfg,
		cfgPath:     cfgPath,
	}
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Integration returns the shared calendar integration.
func (sc *ServerContext) Integration() *calendar.Integration {
	return sc.integration
}

// Config returns the active configuration.
func (sc *ServerContext) Config() *config.Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.cfg
}

// ConfigPath returns the path the configuration was loaded from. Empty when
// the configuration was built in memory.
func (sc *ServerContext) ConfigPath() string {
	return sc.cfgPath
}

// UpdateConfig replaces the active configuration and pushes the calendar
// section into the integration. When the context knows its config path the
// new configuration is also persisted.
func (sc *ServerContext) UpdateConfig(cfg *config.Config) error {
	cfg.Normalize()

	sc.mu.Lock()
	sc.cfg = cfg
	sc.mu.Unlock()

	sc.integration.UpdateConfig(cfg.Calendar())

	if sc.cfgPath != "" {
		return cfg.Save(sc.cfgPath)
	}
	return nil
}

// SetMetrics attaches the metrics recorder used by instrumented tool
// handlers. A nil recorder is valid and records nothing.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the metrics recorder, which may be nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger attaches the audit logger used by instrumented tool
// handlers.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// AuditLogger returns the audit logger, which may be nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
