package calendar

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Strategy names, used for logging and metric labels.
const (
	StrategyOutlookCOM  = "outlook_com"
	StrategyCalendarApp = "calendar_app"
)

// probeAvailableSignal is the literal a probe script must print for the
// interface to count as reachable.
const probeAvailableSignal = "available"

// Strategy is one concrete method of querying the external calendar store.
type Strategy interface {
	// Name identifies the strategy in logs and metrics.
	Name() string

	// Probe reports whether the strategy's automation interface is
	// reachable. It never returns an error; all failures collapse to false.
	Probe(ctx context.Context) bool

	// Fetch runs the strategy for the given day-count window and returns
	// the raw records it produced. Exactly one subprocess is spawned per
	// call.
	Fetch(ctx context.Context, lookBehindDays, lookAheadDays int) ([]RawEvent, error)
}

// scriptStrategy invokes a script body through a local shell. The fetch
// template's day-count placeholders are substituted per invocation.
type scriptStrategy struct {
	name   string
	shell  string
	args   []string
	fetch  scriptTemplate
	probe  string
	runner Runner
}

// newOutlookCOMStrategy drives the Outlook COM object model through Windows
// PowerShell. This is the primary strategy.
func newOutlookCOMStrategy(runner Runner) *scriptStrategy {
	return &scriptStrategy{
		name:   StrategyOutlookCOM,
		shell:  "powershell.exe",
		args:   []string{"-NoProfile", "-NonInteractive", "-Command"},
		fetch:  outlookFetchScript,
		probe:  outlookProbeScript,
		runner: runner,
	}
}

// newCalendarAppStrategy drives Calendar.app through the macOS JavaScript
// automation runtime. This is the secondary strategy.
func newCalendarAppStrategy(runner Runner) *scriptStrategy {
	return &scriptStrategy{
		name:   StrategyCalendarApp,
		shell:  "osascript",
		args:   []string{"-l", "JavaScript", "-e"},
		fetch:  calendarAppFetchScript,
		probe:  calendarAppProbeScript,
		runner: runner,
	}
}

// defaultStrategies returns the fixed acquisition order: Outlook COM first,
// Calendar.app as fallback.
func defaultStrategies(runner Runner) []Strategy {
	return []Strategy{
		newOutlookCOMStrategy(runner),
		newCalendarAppStrategy(runner),
	}
}

// Name implements Strategy.
func (s *scriptStrategy) Name() string {
	return s.name
}

// Probe implements Strategy.
func (s *scriptStrategy) Probe(ctx context.Context) bool {
	stdout, _, err := s.runner.Run(ctx, s.shell, append(slices.Clone(s.args), s.probe)...)
	if err != nil {
		return false
	}
	return strings.TrimSpace(stdout) == probeAvailableSignal
}

// Fetch implements Strategy. A spawn error, non-zero exit, stderr content,
// or unparsable stdout all surface as a *StrategyError so the executor can
// fall through to the next strategy.
func (s *scriptStrategy) Fetch(ctx context.Context, lookBehindDays, lookAheadDays int) ([]RawEvent, error) {
	script, err := s.fetch.Render(lookBehindDays, lookAheadDays)
	if err != nil {
		return nil, &StrategyError{Strategy: s.name, Err: err}
	}

	stdout, stderr, err := s.runner.Run(ctx, s.shell, append(slices.Clone(s.args), script)...)
	if err != nil {
		return nil, &StrategyError{
			Strategy: s.name,
			Stderr:   strings.TrimSpace(stderr),
			Err:      fmt.Errorf("subprocess failed: %w", err),
		}
	}
	if diag := strings.TrimSpace(stderr); diag != "" {
		return nil, &StrategyError{
			Strategy: s.name,
			Stderr:   diag,
			Err:      errors.New("subprocess wrote to stderr"),
		}
	}

	records, err := decodeRawEvents(stdout)
	if err != nil {
		return nil, &StrategyError{
			Strategy: s.name,
			Err:      fmt.Errorf("unparsable output: %w", err),
		}
	}

	return records, nil
}
