package calendar

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner returns canned subprocess results and records the invocations
// it received.
type fakeRunner struct {
	stdout string
	stderr string
	err    error

	calls [][]string
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	return r.stdout, r.stderr, r.err
}

func TestScriptStrategy_Probe(t *testing.T) {
	tests := []struct {
		name     string
		stdout   string
		err      error
		expected bool
	}{
		{name: "available", stdout: "available", expected: true},
		{name: "available with trailing newline", stdout: "available\r\n", expected: true},
		{name: "unavailable", stdout: "unavailable", expected: false},
		{name: "empty output", stdout: "", expected: false},
		{name: "spawn error", err: errors.New("executable file not found"), expected: false},
		{name: "unexpected output", stdout: "Outlook.Application available", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{stdout: tt.stdout, err: tt.err}
			s := newOutlookCOMStrategy(runner)

			assert.Equal(t, tt.expected, s.Probe(context.Background()))
			assert.Len(t, runner.calls, 1)
		})
	}
}

func TestScriptStrategy_Fetch(t *testing.T) {
	runner := &fakeRunner{stdout: `[{"Subject": "Standup", "Start": "2026-08-24T09:00:00", "End": "2026-08-24T09:15:00"}]`}
	s := newOutlookCOMStrategy(runner)

	records, err := s.Fetch(context.Background(), 7, 14)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Standup", records[0].Subject)

	// Exactly one subprocess per attempt, shell flags intact.
	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, "powershell.exe", call[0])
	assert.Equal(t, []string{"-NoProfile", "-NonInteractive", "-Command"}, call[1:4])
	assert.NotContains(t, call[4], "{{")
}

func TestScriptStrategy_Fetch_EmptyArrayIsSuccess(t *testing.T) {
	runner := &fakeRunner{stdout: "[]"}
	s := newCalendarAppStrategy(runner)

	records, err := s.Fetch(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestScriptStrategy_Fetch_SpawnError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1"), stderr: "Exception calling GetNamespace\n"}
	s := newOutlookCOMStrategy(runner)

	_, err := s.Fetch(context.Background(), 7, 14)
	require.Error(t, err)

	var serr *StrategyError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, StrategyOutlookCOM, serr.Strategy)
	assert.Equal(t, "Exception calling GetNamespace", serr.Stderr)
}

func TestScriptStrategy_Fetch_StderrFailsAttempt(t *testing.T) {
	// A zero exit with diagnostics on stderr is still a failed attempt.
	runner := &fakeRunner{stdout: "[]", stderr: "WARNING: profile not loaded"}
	s := newOutlookCOMStrategy(runner)

	_, err := s.Fetch(context.Background(), 7, 14)
	require.Error(t, err)

	var serr *StrategyError
	require.True(t, errors.As(err, &serr))
	assert.Contains(t, serr.Stderr, "profile not loaded")
}

func TestScriptStrategy_Fetch_UnparsableOutput(t *testing.T) {
	runner := &fakeRunner{stdout: "Loading personal profile..."}
	s := newOutlookCOMStrategy(runner)

	_, err := s.Fetch(context.Background(), 7, 14)
	require.Error(t, err)

	var serr *StrategyError
	require.True(t, errors.As(err, &serr))
	assert.Contains(t, serr.Err.Error(), "unparsable output")
}

func TestScriptStrategy_Fetch_NegativeDayCount(t *testing.T) {
	runner := &fakeRunner{}
	s := newOutlookCOMStrategy(runner)

	_, err := s.Fetch(context.Background(), -1, 7)
	require.Error(t, err)

	// The subprocess must never be spawned with an invalid window.
	assert.Empty(t, runner.calls)
}

func TestDefaultStrategies_Order(t *testing.T) {
	strategies := defaultStrategies(&fakeRunner{})

	require.Len(t, strategies, 2)
	assert.Equal(t, StrategyOutlookCOM, strategies[0].Name())
	assert.Equal(t, StrategyCalendarApp, strategies[1].Name())
}
