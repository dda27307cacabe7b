package calendar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultCommandTimeout bounds a single strategy subprocess. The automation
// hosts can hang indefinitely when the calendar application shows a modal
// dialog; the caller must never hang with them.
const DefaultCommandTimeout = 30 * time.Second

// Runner executes one external process per call and returns its fully
// buffered stdout and stderr. Payloads are small; unbounded buffering is
// acceptable.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

type execRunner struct {
	timeout time.Duration
}

// NewExecRunner returns a Runner backed by os/exec with an enforced
// per-invocation timeout. A non-positive timeout selects
// DefaultCommandTimeout.
func NewExecRunner(timeout time.Duration) Runner {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &execRunner{timeout: timeout}
}

// Run spawns the command and waits for it to exit, killing it if the
// deadline expires.
func (r *execRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Automation hosts occasionally leave a grandchild holding the output
	// pipes open; WaitDelay bounds the wait after the kill.
	cmd.WaitDelay = 5 * time.Second

	err := cmd.Run()
	if err != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("command timed out after %s: %w", r.timeout, err)
	}

	return stdout.String(), stderr.String(), err
}
