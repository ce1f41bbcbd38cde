package core

import (
	"encoding/json"
	"time"
)

// JobStatus represents the state of a workflow job or one of its children.
type JobStatus string

const (
	StatusNew        JobStatus = "new"
	StatusPending    JobStatus = "pending"
	StatusWaiting    JobStatus = "waiting"
	StatusRunning    JobStatus = "running"
	StatusSuccessful JobStatus = "successful"
	StatusFailed     JobStatus = "failed"
	StatusError      JobStatus = "error"
	StatusCanceled   JobStatus = "canceled"
)

// IsTerminal reports whether no further transition can occur from s.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case StatusSuccessful, StatusFailed, StatusError, StatusCanceled:
		return true
	default:
		return false
	}
}

// IsFinished reports whether s counts towards a scorecard.
// Canceled children are terminal but are not reported.
func (s JobStatus) IsFinished() bool {
	switch s {
	case StatusSuccessful, StatusFailed, StatusError:
		return true
	default:
		return false
	}
}

// FinishedStatuses lists the statuses requested for scorecards, in wire order.
var FinishedStatuses = []JobStatus{StatusSuccessful, StatusFailed, StatusError}

// WorkflowJob is a running or completed instance of a workflow job template.
type WorkflowJob struct {
	ID                  int            `json:"id"`
	Name                string         `json:"name"`
	WorkflowJobTemplate int            `json:"workflow_job_template"`
	Created             time.Time      `json:"created"`
	Finished            *time.Time     `json:"finished"`
	Status              JobStatus      `json:"status"`
	Failed              bool           `json:"failed"`
	Elapsed             json.Number    `json:"elapsed"`
	ExtraVars           string         `json:"extra_vars"`
	Raw                 map[string]any `json:"-"`
}

// UnifiedJob is a child job record spawned by a workflow job.
// Finished and Elapsed keep the backend's textual form so reports
// reproduce it verbatim.
type UnifiedJob struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Status      JobStatus   `json:"status"`
	Finished    string      `json:"finished"`
	Elapsed     json.Number `json:"elapsed"`
	WorkflowJob int         `json:"-"`
}

// Outcome is the result category of a launch or a monitored wait.
type Outcome string

const (
	// OutcomeLaunched marks a launch that was not monitored.
	OutcomeLaunched   Outcome = ""
	OutcomeSuccessful Outcome = "successful"
	OutcomeFailed     Outcome = "failed"
	OutcomeTimeout    Outcome = "timeout"
)

// JobResult is returned by launch and monitor operations.
type JobResult struct {
	ID      int            `json:"id" yaml:"id"`
	Changed bool           `json:"changed" yaml:"changed"`
	Status  JobStatus      `json:"status,omitempty" yaml:"status,omitempty"`
	Outcome Outcome        `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	Waited  time.Duration  `json:"-" yaml:"-"`
	Fields  map[string]any `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// TimedOut reports whether the wait ended before the job finished.
func (r *JobResult) TimedOut() bool {
	return r.Outcome == OutcomeTimeout
}

// Failed reports whether the job reached an unsuccessful terminal state.
func (r *JobResult) Failed() bool {
	return r.Outcome == OutcomeFailed
}
