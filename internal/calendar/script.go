package calendar

import (
	"fmt"
	"strconv"
	"strings"
)

// Day-count placeholders substituted into strategy script bodies. Values are
// rendered through scriptTemplate.Render, which only accepts integers, so no
// caller-controlled string ever reaches the shell.
const (
	placeholderLookBehind = "{{LOOK_BEHIND_DAYS}}"
	placeholderLookAhead  = "{{LOOK_AHEAD_DAYS}}"
)

// scriptTemplate is a script body carrying day-count placeholders.
type scriptTemplate string

// Render substitutes the validated day counts into the template. Both counts
// must be non-negative; negative values indicate a caller bug and are
// rejected rather than interpolated.
func (t scriptTemplate) Render(lookBehindDays, lookAheadDays int) (string, error) {
	if lookBehindDays < 0 {
		return "", fmt.Errorf("look-behind day count must be non-negative, got %d", lookBehindDays)
	}
	if lookAheadDays < 0 {
		return "", fmt.Errorf("look-ahead day count must be non-negative, got %d", lookAheadDays)
	}

	body := strings.ReplaceAll(string(t), placeholderLookBehind, strconv.Itoa(lookBehindDays))
	body = strings.ReplaceAll(body, placeholderLookAhead, strconv.Itoa(lookAheadDays))
	return body, nil
}

// outlookProbeScript checks whether the Outlook COM object model is
// reachable. It always exits zero; availability is signalled through stdout.
const outlookProbeScript = `
try {
    New-Object -ComObject Outlook.Application | Out-Null
    Write-Output 'available'
} catch {
    Write-Output 'unavailable'
}
`

// outlookFetchScript queries the default Outlook calendar folder through the
// COM object model and emits the shared JSON record shape. ConvertTo-Json
// unwraps single-element arrays and renders an empty pipeline result as
// "[null]"; the empty window is guarded here, the unwrapping compensated in
// the parser.
const outlookFetchScript = scriptTemplate(`
$ErrorActionPreference = 'Stop'
$outlook = New-Object -ComObject Outlook.Application
$namespace = $outlook.GetNamespace('MAPI')
$folder = $namespace.GetDefaultFolder(9)
$items = $folder.Items
$items.IncludeRecurrences = $true
$items.Sort('[Start]')
$windowStart = (Get-Date).Date.AddDays(-` + placeholderLookBehind + `)
$windowEnd = (Get-Date).Date.AddDays(` + placeholderLookAhead + ` + 1)
$restriction = "[Start] >= '" + $windowStart.ToString('g') + "' AND [Start] < '" + $windowEnd.ToString('g') + "'"
$selected = $items.Restrict($restriction) | ForEach-Object {
    [PSCustomObject]@{
        Subject           = $_.Subject
        Start             = $_.Start.ToString('yyyy-MM-ddTHH:mm:ss')
        End               = $_.End.ToString('yyyy-MM-ddTHH:mm:ss')
        Location          = $_.Location
        IsAllDay          = $_.AllDayEvent
        BusyStatus        = [string]$_.BusyStatus
        Categories        = $_.Categories
        Body              = ''
        Sensitivity       = [string]$_.Sensitivity
        Organizer         = $_.Organizer
        RequiredAttendees = $_.RequiredAttendees
        OptionalAttendees = $_.OptionalAttendees
        Resources         = $_.Resources
        CalendarName      = $folder.Name
    }
}
if ($null -eq $selected) {
    '[]'
} else {
    ConvertTo-Json @($selected) -Depth 4
}
`)

// calendarAppProbeScript checks whether Calendar.app is scriptable from the
// macOS JavaScript automation runtime. osascript prints the value of the
// last expression.
const calendarAppProbeScript = `
try {
    Application('Calendar').name();
    'available';
} catch (e) {
    'unavailable';
}
`

// calendarAppFetchScript queries Calendar.app through JXA and emits the same
// record shape as the Outlook strategy. Calendar.app has no busy/free model
// beyond tentative status, so everything else maps to Busy.
const calendarAppFetchScript = scriptTemplate(`
const pad = function (n) { return ('0' + n).slice(-2); };
const stamp = function (d) {
    return d.getFullYear() + '-' + pad(d.getMonth() + 1) + '-' + pad(d.getDate()) +
        'T' + pad(d.getHours()) + ':' + pad(d.getMinutes()) + ':' + pad(d.getSeconds());
};
const app = Application('Calendar');
const now = new Date();
const windowStart = new Date(now.getTime() - ` + placeholderLookBehind + ` * 86400000);
const windowEnd = new Date(now.getTime() + ` + placeholderLookAhead + ` * 86400000);
const records = [];
app.calendars().forEach(function (cal) {
    const matches = cal.events.whose({
        _and: [
            { startDate: { _greaterThanEquals: windowStart } },
            { startDate: { _lessThan: windowEnd } }
        ]
    })();
    matches.forEach(function (ev) {
        records.push({
            Subject: ev.summary() || '',
            Start: stamp(ev.startDate()),
            End: stamp(ev.endDate()),
            Location: ev.location() || '',
            IsAllDay: ev.alldayEvent(),
            BusyStatus: ev.status() === 'tentative' ? 'Tentative' : 'Busy',
            Categories: '',
            Body: '',
            Sensitivity: 'Normal',
            Organizer: '',
            RequiredAttendees: '',
            OptionalAttendees: '',
            Resources: '',
            CalendarName: cal.name()
        });
    });
});
JSON.stringify(records);
`)
