package core

import (
	"context"
	"encoding/json"
	"net/url"
	"time"
)

// =============================================================================
// Transport Ports
// =============================================================================

// JobTransport issues authenticated requests against the orchestration API.
// Paths are relative to the API root (e.g. "workflow_jobs/12/").
// Implementations return an error for every non-success response.
type JobTransport interface {
	// Get decodes the response body of a GET request into out.
	Get(ctx context.Context, path string, out any) error

	// Post sends payload as JSON and decodes the response body into out.
	Post(ctx context.Context, path string, payload, out any) error
}

// JobLister returns every record of a resource matching query, across pages.
type JobLister interface {
	ListAll(ctx context.Context, resource string, query url.Values) ([]json.RawMessage, error)
}

// =============================================================================
// Monitor Port
// =============================================================================

// JobMonitor blocks until a workflow job finishes or timeout elapses.
// A zero timeout waits without bound. Failure and timeout are reported
// through JobResult.Outcome, not as errors.
type JobMonitor interface {
	Monitor(ctx context.Context, jobID int, timeout time.Duration) (*JobResult, error)
}
