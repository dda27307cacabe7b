package calendar

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/worklens/worklens/internal/instrumentation"
	"github.com/worklens/worklens/internal/logging"
)

// emptyStreakWarnThreshold is the number of consecutive empty refreshes
// after which the integration warns that the calendar application may have
// become unreachable mid-session. Availability is still not re-probed; see
// the state machine note on Integration.
const emptyStreakWarnThreshold = 3

// Integration is the process-wide calendar context engine. It owns the
// acquisition strategies, the replace-all event cache, and the status
// snapshot. One instance is constructed at startup and handed to consumers
// by reference.
//
// Availability is sampled exactly once per process lifetime: the state
// machine is UNINITIALIZED → (probe) → AVAILABLE | UNAVAILABLE, and
// individual acquisition failures never revert it. If the calendar
// application becomes unreachable mid-session, acquisitions return empty
// results until restart. Documented limitation, not re-probed.
//
// Overlapping acquisitions are not serialized internally: the cache is
// replace-all, so the last completion wins, and the external automation
// interfaces do not reliably tolerate concurrent invocation. Callers run a
// single refresh loop.
type Integration struct {
	strategies []Strategy
	cache      *eventCache
	logger     *slog.Logger
	metrics    *instrumentation.Metrics

	runner  Runner
	timeout time.Duration

	probeOnce sync.Once
	available atomic.Bool

	mu          sync.RWMutex
	cfg         Config
	lastSync    time.Time
	emptyStreak int
}

// Option configures an Integration.
type Option func(*Integration)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Integration) { i.logger = logger }
}

// WithMetrics sets the metrics recorder. A nil recorder is safe and
// records nothing.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(i *Integration) { i.metrics = m }
}

// WithRunner replaces the subprocess runner. Used by tests.
func WithRunner(r Runner) Option {
	return func(i *Integration) { i.runner = r }
}

// WithCommandTimeout bounds each strategy subprocess.
func WithCommandTimeout(d time.Duration) Option {
	return func(i *Integration) { i.timeout = d }
}

// WithStrategies replaces the default strategy list. Order is significant:
// strategies are attempted first to last.
func WithStrategies(strategies ...Strategy) Option {
	return func(i *Integration) { i.strategies = strategies }
}

// New constructs the integration. The availability probe is not run here;
// it happens once, lazily, on the first call that needs it.
func New(cfg Config, opts ...Option) *Integration {
	i := &Integration{
		cache:   newEventCache(),
		logger:  slog.Default(),
		timeout: DefaultCommandTimeout,
		cfg:     cfg,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.runner == nil {
		i.runner = NewExecRunner(i.timeout)
	}
	if i.strategies == nil {
		i.strategies = defaultStrategies(i.runner)
	}
	return i
}

// Probe checks whether any calendar interface is reachable. The check runs
// at most once per process lifetime; later calls return the cached flag.
// Probing spawns an automation host and is comparatively expensive.
func (i *Integration) Probe(ctx context.Context) bool {
	i.probeOnce.Do(func() {
		for _, s := range i.strategies {
			if s.Probe(ctx) {
				i.logger.Info("calendar interface available", logging.Strategy(s.Name()))
				i.available.Store(true)
				return
			}
			i.logger.Debug("calendar interface not reachable", logging.Strategy(s.Name()))
		}
		i.logger.Info("no calendar interface available")
	})
	return i.available.Load()
}

// Available reports the probed availability flag without triggering a probe.
func (i *Integration) Available() bool {
	return i.available.Load()
}

// Config returns the current configuration. Treat the slices as read-only.
func (i *Integration) Config() Config {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.cfg
}

// UpdateConfig replaces the configuration as a whole object. The new
// configuration takes effect on the next acquisition.
func (i *Integration) UpdateConfig(cfg Config) {
	i.mu.Lock()
	i.cfg = cfg
	i.mu.Unlock()
	i.logger.Info("calendar configuration replaced",
		slog.Bool("enabled", cfg.Enabled),
		slog.Int("included_calendars", len(cfg.IncludedCalendars)),
		slog.Int("excluded_calendars", len(cfg.ExcludedCalendars)))
}

// GetCalendarEvents acquires, normalizes, filters, and caches the events in
// the given range. Best effort: it returns a slice, possibly empty, and
// never an error. When every strategy fails the cache and last-sync
// timestamp are left untouched.
func (i *Integration) GetCalendarEvents(ctx context.Context, r TimeRange) []Event {
	start := time.Now()
	logger := logging.WithOperation(i.logger, "calendar.acquire")

	if !i.Probe(ctx) {
		logger.Debug("skipping acquisition, no interface available")
		return []Event{}
	}

	cfg := i.Config()
	if !cfg.Enabled {
		logger.Debug("skipping acquisition, integration disabled")
		return []Event{}
	}

	lookBehind, lookAhead := dayCounts(r, time.Now())

	raw, strategyName, ok := i.acquireRaw(ctx, logger, lookBehind, lookAhead)
	if !ok {
		logger.Warn("all acquisition strategies failed, returning empty result")
		i.metrics.RecordAcquisition(ctx, instrumentation.StatusError, 0, lookBehind+lookAhead, time.Since(start))
		return []Event{}
	}

	events := i.normalizeAll(ctx, logger, raw)
	filtered := FilterEvents(events, cfg)
	i.cache.ReplaceAll(filtered)

	i.mu.Lock()
	i.lastSync = time.Now()
	if len(filtered) == 0 {
		i.emptyStreak++
	} else {
		i.emptyStreak = 0
	}
	streak := i.emptyStreak
	i.mu.Unlock()

	if streak == emptyStreakWarnThreshold {
		logger.Warn("consecutive empty refreshes; the calendar application may have become unreachable",
			slog.Int("refreshes", streak))
	}

	i.metrics.RecordAcquisition(ctx, instrumentation.StatusSuccess, len(filtered), lookBehind+lookAhead, time.Since(start))
	i.metrics.SetCachedEvents(ctx, len(filtered))

	logger.Info("acquisition complete",
		logging.Strategy(strategyName),
		logging.Events(len(filtered)),
		slog.Int("dropped_by_filter", len(events)-len(filtered)),
		logging.Duration(time.Since(start)))

	return filtered
}

// Status returns a read-only snapshot. It never triggers acquisition or
// probing and never blocks on a refresh in flight.
func (i *Integration) Status() IntegrationStatus {
	i.mu.RLock()
	defer i.mu.RUnlock()

	status := IntegrationStatus{
		Available:        i.available.Load(),
		Enabled:          i.cfg.Enabled,
		CachedEventCount: i.cache.Count(),
	}
	if !i.lastSync.IsZero() {
		t := i.lastSync
		status.LastSync = &t
	}
	return status
}

// acquireRaw walks the strategy list in order and returns the first
// successful raw result. ok is false only when every strategy failed.
func (i *Integration) acquireRaw(ctx context.Context, logger *slog.Logger, lookBehind, lookAhead int) ([]RawEvent, string, bool) {
	for _, s := range i.strategies {
		records, err := s.Fetch(ctx, lookBehind, lookAhead)
		if err != nil {
			i.metrics.RecordStrategyAttempt(ctx, s.Name(), instrumentation.ResultFailure)

			var serr *StrategyError
			if errors.As(err, &serr) && serr.Stderr != "" {
				logger.Warn("strategy failed, falling back",
					logging.Strategy(s.Name()),
					slog.String("stderr", serr.Stderr),
					logging.Err(serr.Err))
			} else {
				logger.Warn("strategy failed, falling back",
					logging.Strategy(s.Name()),
					logging.Err(err))
			}
			continue
		}

		i.metrics.RecordStrategyAttempt(ctx, s.Name(), instrumentation.ResultSuccess)
		return records, s.Name(), true
	}
	return nil, "", false
}

// normalizeAll converts raw records to canonical events, dropping and
// logging records whose dates fail to parse. The batch continues past bad
// records.
func (i *Integration) normalizeAll(ctx context.Context, logger *slog.Logger, raw []RawEvent) []Event {
	events := make([]Event, 0, len(raw))
	for _, record := range raw {
		ev, err := normalizeEvent(record)
		if err != nil {
			reason := "invalid_record"
			var rerr *RecordError
			if errors.As(err, &rerr) {
				reason = "bad_" + strings.ToLower(rerr.Field)
			}
			i.metrics.RecordDroppedRecord(ctx, reason, record.CalendarName)
			logger.Warn("dropping unparsable record",
				logging.TitleHash(record.Subject),
				logging.Err(err))
			continue
		}
		events = append(events, ev)
	}
	return events
}

// dayCounts converts an acquisition range into the look-behind/look-ahead
// day counts the strategy scripts consume: the ceiling of elapsed days from
// range start to now, and of remaining days from now to range end, both
// clamped to zero.
func dayCounts(r TimeRange, now time.Time) (lookBehind, lookAhead int) {
	const day = 24 * time.Hour
	if elapsed := now.Sub(r.Start); elapsed > 0 {
		lookBehind = int((elapsed + day - 1) / day)
	}
	if remaining := r.End.Sub(now); remaining > 0 {
		lookAhead = int((remaining + day - 1) / day)
	}
	return lookBehind, lookAhead
}
