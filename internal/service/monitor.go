package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hugo-lorenzo-mato/flowctl/internal/core"
	"github.com/hugo-lorenzo-mato/flowctl/internal/logging"
)

// DefaultPollInterval is how often the monitor checks job status.
const DefaultPollInterval = 2 * time.Second

var _ core.JobMonitor = (*Monitor)(nil)

// Monitor waits for workflow jobs to reach a terminal status.
type Monitor struct {
	transport    core.JobTransport
	logger       *logging.Logger
	pollInterval time.Duration
	out          io.Writer
	scorecard    *ScorecardBuilder
}

// NewMonitor creates a monitor polling through transport.
func NewMonitor(transport core.JobTransport, logger *logging.Logger) *Monitor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Monitor{
		transport:    transport,
		logger:       logger,
		pollInterval: DefaultPollInterval,
	}
}

// WithPollInterval sets the poll interval.
func (m *Monitor) WithPollInterval(d time.Duration) *Monitor {
	if d > 0 {
		m.pollInterval = d
	}
	return m
}

// WithOutput streams scorecard lines for child jobs to w as they finish.
func (m *Monitor) WithOutput(w io.Writer, scorecard *ScorecardBuilder) *Monitor {
	m.out = w
	m.scorecard = scorecard
	return m
}

// Monitor polls the workflow job until it reaches a terminal status or
// timeout elapses. Failure and timeout are reported through the result's
// Outcome with a nil error; errors are reserved for transport failures and
// cancellation of ctx.
func (m *Monitor) Monitor(ctx context.Context, jobID int, timeout time.Duration) (*core.JobResult, error) {
	startTime := time.Now()
	waitCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logger := m.logger.WithJob(jobID)
	path := fmt.Sprintf("%s%d/", core.WorkflowJobResource.Endpoint, jobID)

	var (
		last    *core.WorkflowJob
		written int
	)
	for {
		job, err := m.fetch(waitCtx, path)
		if err != nil {
			if timedOut(ctx, waitCtx, err) {
				return m.timeoutResult(logger, jobID, last, startTime, timeout), nil
			}
			return nil, err
		}

		if last == nil || last.Status != job.Status {
			logger.Info("workflow job status", "status", job.Status)
		}
		last = job

		if m.out != nil && m.scorecard != nil {
			n, err := m.stream(waitCtx, jobID, written)
			written += n
			if err != nil {
				if timedOut(ctx, waitCtx, err) {
					return m.timeoutResult(logger, jobID, last, startTime, timeout), nil
				}
				return nil, err
			}
		}

		if job.Status.IsTerminal() {
			outcome := core.OutcomeSuccessful
			if job.Status != core.StatusSuccessful {
				outcome = core.OutcomeFailed
			}
			return &core.JobResult{
				ID:      jobID,
				Changed: true,
				Status:  job.Status,
				Outcome: outcome,
				Waited:  time.Since(startTime),
				Fields:  job.Raw,
			}, nil
		}

		select {
		case <-waitCtx.Done():
			if timedOut(ctx, waitCtx, nil) {
				return m.timeoutResult(logger, jobID, last, startTime, timeout), nil
			}
			return nil, ctx.Err()
		case <-time.After(m.pollInterval):
			// Continue polling
		}
	}
}

func (m *Monitor) fetch(ctx context.Context, path string) (*core.WorkflowJob, error) {
	var raw json.RawMessage
	if err := m.transport.Get(ctx, path, &raw); err != nil {
		return nil, err
	}

	var job core.WorkflowJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, core.ErrValidation(core.CodeInvalidResponse,
			fmt.Sprintf("decoding %s", path)).WithCause(err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&job.Raw); err != nil {
		return nil, core.ErrValidation(core.CodeInvalidResponse,
			fmt.Sprintf("decoding %s", path)).WithCause(err)
	}
	return &job, nil
}

// stream writes scorecard lines after the first written ones and returns
// how many it wrote.
func (m *Monitor) stream(ctx context.Context, jobID, written int) (int, error) {
	lines, err := m.scorecard.Lines(ctx, jobID, &written, nil)
	if err != nil {
		return 0, err
	}
	for i, line := range lines {
		if _, err := io.WriteString(m.out, line+"\n"); err != nil {
			return i, fmt.Errorf("writing scorecard: %w", err)
		}
	}
	return len(lines), nil
}

func (m *Monitor) timeoutResult(logger *logging.Logger, jobID int, last *core.WorkflowJob, startTime time.Time, timeout time.Duration) *core.JobResult {
	logger.Warn("workflow job did not finish in time", "timeout", timeout)
	result := &core.JobResult{
		ID:      jobID,
		Changed: true,
		Outcome: core.OutcomeTimeout,
		Waited:  time.Since(startTime),
	}
	if last != nil {
		result.Status = last.Status
		result.Fields = last.Raw
	}
	return result
}

// timedOut reports whether the wait ended on its own deadline while the
// caller's context is still live. That is the case once waitCtx has expired,
// or when err says a request was refused for running past a deadline that
// belongs to waitCtx rather than to parent.
func timedOut(parent, waitCtx context.Context, err error) bool {
	if parent.Err() != nil {
		return false
	}
	if errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
		return true
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	waitDeadline, ok := waitCtx.Deadline()
	if !ok {
		return false
	}
	parentDeadline, ok := parent.Deadline()
	return !ok || waitDeadline.Before(parentDeadline)
}
