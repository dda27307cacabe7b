package calendar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptTemplate_Render(t *testing.T) {
	tmpl := scriptTemplate("behind=" + placeholderLookBehind + " ahead=" + placeholderLookAhead)

	body, err := tmpl.Render(7, 14)
	require.NoError(t, err)
	assert.Equal(t, "behind=7 ahead=14", body)
}

func TestScriptTemplate_Render_Zero(t *testing.T) {
	tmpl := scriptTemplate(placeholderLookBehind + "/" + placeholderLookAhead)

	body, err := tmpl.Render(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "0/0", body)
}

func TestScriptTemplate_Render_RejectsNegative(t *testing.T) {
	tests := []struct {
		name       string
		lookBehind int
		lookAhead  int
	}{
		{name: "negative look-behind", lookBehind: -1, lookAhead: 7},
		{name: "negative look-ahead", lookBehind: 7, lookAhead: -1},
		{name: "both negative", lookBehind: -3, lookAhead: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := outlookFetchScript.Render(tt.lookBehind, tt.lookAhead)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "non-negative")
		})
	}
}

func TestFetchScripts_PlaceholdersFullySubstituted(t *testing.T) {
	for name, tmpl := range map[string]scriptTemplate{
		"outlook":      outlookFetchScript,
		"calendar_app": calendarAppFetchScript,
	} {
		t.Run(name, func(t *testing.T) {
			require.Contains(t, string(tmpl), placeholderLookBehind)
			require.Contains(t, string(tmpl), placeholderLookAhead)

			body, err := tmpl.Render(3, 5)
			require.NoError(t, err)
			assert.NotContains(t, body, "{{")
			assert.NotContains(t, body, "}}")
		})
	}
}

func TestOutlookFetchScript_GuardsEmptyWindow(t *testing.T) {
	// An empty Restrict result must come back as "[]", not "[null]".
	body, err := outlookFetchScript.Render(1, 1)
	require.NoError(t, err)
	assert.Contains(t, body, "$null -eq $selected")
	assert.Contains(t, body, "'[]'")
}

func TestProbeScripts_SignalOnly(t *testing.T) {
	// Probe scripts carry no placeholders and always print a verdict.
	for name, script := range map[string]string{
		"outlook":      outlookProbeScript,
		"calendar_app": calendarAppProbeScript,
	} {
		t.Run(name, func(t *testing.T) {
			assert.NotContains(t, script, "{{")
			assert.True(t, strings.Contains(script, probeAvailableSignal))
		})
	}
}
