package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hugo-lorenzo-mato/flowctl/internal/core"
	"github.com/hugo-lorenzo-mato/flowctl/internal/logging"
)

const (
	nameWidth     = 20
	statusWidth   = 10
	finishedWidth = 20
)

// ScorecardBuilder renders the finished child jobs of a workflow job as a
// fixed-width text report, one line per child in finish order.
type ScorecardBuilder struct {
	lister core.JobLister
	logger *logging.Logger
}

// NewScorecardBuilder creates a builder reading child jobs through lister.
func NewScorecardBuilder(lister core.JobLister, logger *logging.Logger) *ScorecardBuilder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ScorecardBuilder{lister: lister, logger: logger}
}

// Build returns the scorecard lines in [startLine, endLine) joined by
// newlines, with a trailing newline when any line is present. Nil bounds
// select from the first line or through the last one; out-of-range bounds
// are clamped and an empty range yields "".
func (b *ScorecardBuilder) Build(ctx context.Context, workflowJobID int, startLine, endLine *int) (string, error) {
	lines, err := b.Lines(ctx, workflowJobID, startLine, endLine)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", nil
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// Lines is Build without joining.
func (b *ScorecardBuilder) Lines(ctx context.Context, workflowJobID int, startLine, endLine *int) ([]string, error) {
	jobs, err := b.finishedChildren(ctx, workflowJobID)
	if err != nil {
		return nil, err
	}

	start, end := resolveRange(len(jobs), startLine, endLine)
	b.logger.Debug("building scorecard",
		"workflow_job", workflowJobID,
		"records", len(jobs),
		"start", start,
		"end", end)

	if start >= end {
		return nil, nil
	}

	lines := make([]string, 0, end-start)
	for _, job := range jobs[start:end] {
		lines = append(lines, FormatScorecardLine(job))
	}
	return lines, nil
}

// finishedChildren lists the child jobs of a workflow job that ended in a
// reportable status, ordered by finish time.
func (b *ScorecardBuilder) finishedChildren(ctx context.Context, workflowJobID int) ([]core.UnifiedJob, error) {
	statuses := make([]string, len(core.FinishedStatuses))
	for i, s := range core.FinishedStatuses {
		statuses[i] = string(s)
	}

	query := url.Values{}
	query.Set("unified_job_node__workflow_job", strconv.Itoa(workflowJobID))
	query.Set("order_by", "finished")
	query.Set("status__in", strings.Join(statuses, ","))

	raw, err := b.lister.ListAll(ctx, core.UnifiedJobResource.Endpoint, query)
	if err != nil {
		return nil, fmt.Errorf("listing jobs of workflow job %d: %w", workflowJobID, err)
	}

	jobs := make([]core.UnifiedJob, 0, len(raw))
	for i, r := range raw {
		var job core.UnifiedJob
		if err := json.Unmarshal(r, &job); err != nil {
			return nil, core.ErrValidation(core.CodeInvalidResponse,
				fmt.Sprintf("decoding job record %d of workflow job %d", i, workflowJobID)).WithCause(err)
		}
		if !job.Status.IsFinished() {
			continue
		}
		job.WorkflowJob = workflowJobID
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// resolveRange clamps the requested bounds to [0, n].
func resolveRange(n int, startLine, endLine *int) (start, end int) {
	start, end = 0, n
	if startLine != nil {
		start = min(max(*startLine, 0), n)
	}
	if endLine != nil {
		end = min(max(*endLine, 0), n)
	}
	return start, end
}

// FormatScorecardLine renders one child job as
// "<name> <STATUS> at <finished> in <elapsed> seconds", with name, status,
// and finished truncated and padded to fixed columns.
func FormatScorecardLine(job core.UnifiedJob) string {
	return fmt.Sprintf("%-20s %-10s at %-20s in %s seconds",
		truncate(job.Name, nameWidth),
		strings.ToUpper(truncate(string(job.Status), statusWidth)),
		truncate(job.Finished, finishedWidth),
		job.Elapsed.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
