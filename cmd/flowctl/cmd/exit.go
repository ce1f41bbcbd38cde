package cmd

import (
	"fmt"
	"time"

	"github.com/hugo-lorenzo-mato/flowctl/internal/core"
)

// Process exit codes.
const (
	ExitOK        = 0
	ExitError     = 1
	ExitJobFailed = 2
	ExitTimeout   = 3
)

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case core.IsCategory(err, core.ErrCatJobFailed):
		return ExitJobFailed
	case core.IsCategory(err, core.ErrCatTimeout):
		return ExitTimeout
	default:
		return ExitError
	}
}

// resultError turns a monitored outcome into the error that sets the exit code.
func resultError(result *core.JobResult) error {
	switch {
	case result.TimedOut():
		return core.ErrTimeout(fmt.Sprintf("workflow job %d did not finish within %v", result.ID, result.Waited.Round(time.Millisecond))).
			WithDetail("id", result.ID).
			WithDetail("status", string(result.Status))
	case result.Failed():
		return core.ErrJobFailed(result.ID, result.Status)
	default:
		return nil
	}
}
