package calendar

import (
	"strconv"
	"strings"
	"time"
)

// eventTimeLayouts are tried in order against the locale-naive timestamp
// strings the automation interfaces emit. Values carry no zone information
// and are interpreted in the local zone, matching what the calendar
// application displays to the user.
var eventTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"1/2/2006 3:04:05 PM",
	"2006-01-02",
}

// normalizeEvent converts one raw record into a canonical event. Records
// whose start or end cannot be parsed are rejected, never defaulted.
func normalizeEvent(raw RawEvent) (Event, error) {
	start, err := parseEventTime(raw.Start)
	if err != nil {
		return Event{}, &RecordError{Field: "Start", Value: raw.Start, Err: err}
	}
	end, err := parseEventTime(raw.End)
	if err != nil {
		return Event{}, &RecordError{Field: "End", Value: raw.End, Err: err}
	}

	return Event{
		ID:             deriveEventID(raw.Subject, start, end),
		Title:          raw.Subject,
		Description:    raw.Body,
		Start:          start,
		End:            end,
		Location:       raw.Location,
		IsAllDay:       raw.IsAllDay,
		AttendeesCount: countAttendees(raw.RequiredAttendees) + countAttendees(raw.OptionalAttendees),
		Status:         mapBusyStatus(raw.BusyStatus),
		Calendar:       raw.CalendarName,
	}, nil
}

func parseEventTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	var lastErr error
	for _, layout := range eventTimeLayouts {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// deriveEventID builds the deterministic event id from the title and the
// start/end epoch milliseconds.
func deriveEventID(title string, start, end time.Time) string {
	return title + strconv.FormatInt(start.UnixMilli(), 10) + strconv.FormatInt(end.UnixMilli(), 10)
}

// countAttendees counts the ';'-delimited entries in an attendee field.
// An absent field counts zero.
func countAttendees(field string) int {
	if strings.TrimSpace(field) == "" {
		return 0
	}

	n := 0
	for _, entry := range strings.Split(field, ";") {
		if strings.TrimSpace(entry) != "" {
			n++
		}
	}
	return n
}

// mapBusyStatus maps the raw busy-status text onto the canonical states by
// case-insensitive substring, in priority order. Anything unrecognized is
// busy.
func mapBusyStatus(raw string) BusyStatus {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "free"):
		return StatusFree
	case strings.Contains(s, "tentative"):
		return StatusTentative
	case strings.Contains(s, "outofoffice"), strings.Contains(s, "out of office"):
		return StatusOutOfOffice
	default:
		return StatusBusy
	}
}
