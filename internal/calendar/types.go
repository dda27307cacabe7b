package calendar

import (
	"fmt"
	"time"
)

// BusyStatus is the normalized availability state of an event.
type BusyStatus string

const (
	StatusBusy        BusyStatus = "busy"
	StatusFree        BusyStatus = "free"
	StatusTentative   BusyStatus = "tentative"
	StatusOutOfOffice BusyStatus = "outOfOffice"
)

// RawEvent is the loosely-typed record emitted by an acquisition strategy.
// Field names follow the Outlook object model; the Calendar.app strategy
// emits the same shape so both feed one parser. Raw records are discarded
// after normalization.
type RawEvent struct {
	Subject           string `json:"Subject"`
	Start             string `json:"Start"`
	End               string `json:"End"`
	Location          string `json:"Location,omitempty"`
	IsAllDay          bool   `json:"IsAllDay"`
	BusyStatus        string `json:"BusyStatus"`
	Categories        string `json:"Categories,omitempty"`
	Body              string `json:"Body,omitempty"`
	Sensitivity       string `json:"Sensitivity"`
	Organizer         string `json:"Organizer,omitempty"`
	RequiredAttendees string `json:"RequiredAttendees,omitempty"`
	OptionalAttendees string `json:"OptionalAttendees,omitempty"`
	Resources         string `json:"Resources,omitempty"`
	CalendarName      string `json:"CalendarName,omitempty"`
}

// Event is a normalized, validated calendar event independent of the
// strategy that produced it.
//
// ID is derived from title and start/end epoch milliseconds. It is stable
// across repeated pulls, which keeps cache replacement idempotent, but it is
// not a source identifier: two distinct events sharing a title and identical
// times collide. Accepted limitation.
type Event struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Start          time.Time  `json:"startTime"`
	End            time.Time  `json:"endTime"`
	Location       string     `json:"location,omitempty"`
	IsAllDay       bool       `json:"isAllDay"`
	AttendeesCount int        `json:"attendeesCount"`
	Status         BusyStatus `json:"status"`
	Calendar       string     `json:"calendar"`
}

// Duration returns the event length.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// TimeRange is the half-open acquisition window. A degenerate range (end
// before start) is not rejected; it simply yields no events downstream.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Config is the user-facing integration configuration. It is replaced as a
// whole object and read fresh on every acquisition, so updates take effect
// on the next refresh without a restart.
type Config struct {
	// Enabled gates acquisition entirely.
	Enabled bool

	// IncludedCalendars switches filtering to allow-list mode when
	// non-empty. ExcludedCalendars always applies and wins on overlap.
	IncludedCalendars []string
	ExcludedCalendars []string

	// LookBehindDays/LookAheadDays bound the default acquisition window
	// used by the periodic refresh loop.
	LookBehindDays int
	LookAheadDays  int

	// IncludeAllDayEvents keeps all-day events in the filtered set.
	IncludeAllDayEvents bool

	// MinEventDuration drops events shorter than this. Boundary inclusive:
	// an event exactly this long is kept.
	MinEventDuration time.Duration
}

// DefaultRange returns the acquisition window implied by the configured
// look-behind/look-ahead day counts, anchored at now.
func (c Config) DefaultRange(now time.Time) TimeRange {
	return TimeRange{
		Start: now.AddDate(0, 0, -c.LookBehindDays),
		End:   now.AddDate(0, 0, c.LookAheadDays),
	}
}

// IntegrationStatus is a read-only snapshot of the integration. LastSync is
// nil until the first completed acquisition and is not advanced when every
// strategy fails.
type IntegrationStatus struct {
	Available        bool       `json:"available"`
	Enabled          bool       `json:"enabled"`
	LastSync         *time.Time `json:"lastSync,omitempty"`
	CachedEventCount int        `json:"cachedEventCount"`
}

// StrategyError describes one failed acquisition attempt: a spawn error,
// non-zero exit, stderr output, or unparsable stdout. It never crosses the
// integration boundary; the executor recovers by falling back.
type StrategyError struct {
	// Strategy is the name of the strategy that failed.
	Strategy string

	// Stderr holds any diagnostic output the subprocess produced.
	Stderr string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StrategyError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("strategy %s: %v (stderr: %s)", e.Strategy, e.Err, e.Stderr)
	}
	return fmt.Sprintf("strategy %s: %v", e.Strategy, e.Err)
}

// Unwrap implements the errors.Unwrap interface.
func (e *StrategyError) Unwrap() error {
	return e.Err
}

// RecordError describes a single raw record that could not be normalized.
// The record is dropped and the batch continues.
type RecordError struct {
	// Field is the raw field that failed to parse ("Start" or "End").
	Field string

	// Value is the offending raw value.
	Value string

	// Err is the underlying parse error.
	Err error
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	return fmt.Sprintf("record field %s: unparsable value %q: %v", e.Field, e.Value, e.Err)
}

// Unwrap implements the errors.Unwrap interface.
func (e *RecordError) Unwrap() error {
	return e.Err
}
