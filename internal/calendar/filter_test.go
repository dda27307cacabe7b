package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterTestEvent(title, calendar string, duration time.Duration, allDay bool) Event {
	start := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	return Event{
		ID:       title,
		Title:    title,
		Start:    start,
		End:      start.Add(duration),
		IsAllDay: allDay,
		Calendar: calendar,
	}
}

func TestFilterEvents_MinDurationBoundaryInclusive(t *testing.T) {
	cfg := Config{MinEventDuration: 30 * time.Minute}
	events := []Event{
		filterTestEvent("short", "Work", 15*time.Minute, false),
		filterTestEvent("exact", "Work", 30*time.Minute, false),
		filterTestEvent("long", "Work", 60*time.Minute, false),
	}

	filtered := FilterEvents(events, cfg)

	require.Len(t, filtered, 2)
	assert.Equal(t, "exact", filtered[0].Title)
	assert.Equal(t, "long", filtered[1].Title)
}

func TestFilterEvents_AllDayExcludedByDefault(t *testing.T) {
	events := []Event{
		filterTestEvent("offsite", "Work", 24*time.Hour, true),
		filterTestEvent("meeting", "Work", time.Hour, false),
	}

	filtered := FilterEvents(events, Config{})
	require.Len(t, filtered, 1)
	assert.Equal(t, "meeting", filtered[0].Title)

	kept := FilterEvents(events, Config{IncludeAllDayEvents: true})
	assert.Len(t, kept, 2)
}

func TestFilterEvents_AllowList(t *testing.T) {
	cfg := Config{IncludedCalendars: []string{"Work"}}
	events := []Event{
		filterTestEvent("work meeting", "Work", time.Hour, false),
		filterTestEvent("dentist", "Personal", time.Hour, false),
	}

	filtered := FilterEvents(events, cfg)

	require.Len(t, filtered, 1)
	assert.Equal(t, "work meeting", filtered[0].Title)
}

func TestFilterEvents_EmptyAllowListMeansAll(t *testing.T) {
	events := []Event{
		filterTestEvent("a", "Work", time.Hour, false),
		filterTestEvent("b", "Personal", time.Hour, false),
	}

	filtered := FilterEvents(events, Config{})
	assert.Len(t, filtered, 2)
}

func TestFilterEvents_DenyListWinsOverAllowList(t *testing.T) {
	cfg := Config{
		IncludedCalendars: []string{"Team"},
		ExcludedCalendars: []string{"Team"},
	}
	events := []Event{
		filterTestEvent("team sync", "Team", time.Hour, false),
	}

	filtered := FilterEvents(events, cfg)
	assert.Empty(t, filtered)
}

func TestFilterEvents_Idempotent(t *testing.T) {
	cfg := Config{
		MinEventDuration:  30 * time.Minute,
		ExcludedCalendars: []string{"Holidays"},
	}
	events := []Event{
		filterTestEvent("short", "Work", 10*time.Minute, false),
		filterTestEvent("kept", "Work", time.Hour, false),
		filterTestEvent("holiday", "Holidays", time.Hour, false),
	}

	once := FilterEvents(events, cfg)
	twice := FilterEvents(once, cfg)

	assert.Equal(t, once, twice)
}

func TestFilterEvents_PreservesOrderAndInput(t *testing.T) {
	events := []Event{
		filterTestEvent("first", "Work", time.Hour, false),
		filterTestEvent("skip", "Work", time.Hour, true),
		filterTestEvent("second", "Work", time.Hour, false),
	}

	filtered := FilterEvents(events, Config{})

	require.Len(t, filtered, 2)
	assert.Equal(t, "first", filtered[0].Title)
	assert.Equal(t, "second", filtered[1].Title)

	// Input slice is untouched.
	assert.Len(t, events, 3)
	assert.Equal(t, "skip", events[1].Title)
}
