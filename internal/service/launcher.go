package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/hugo-lorenzo-mato/flowctl/internal/core"
	"github.com/hugo-lorenzo-mato/flowctl/internal/logging"
)

// LaunchRequest describes one launch of a workflow job template.
type LaunchRequest struct {
	TemplateID int
	// ExtraVars are variable sources merged in order; see MergeExtraVars.
	ExtraVars []string
	// Fields are launch-time overrides keyed by wire name. A nil value
	// means the field was not given and is not sent.
	Fields  map[string]any
	Monitor bool
	// Timeout bounds the monitored wait. Zero waits without bound.
	Timeout time.Duration
}

// Launcher starts workflow jobs and optionally waits for them.
type Launcher struct {
	transport core.JobTransport
	monitor   core.JobMonitor
	logger    *logging.Logger
}

// NewLauncher creates a launcher. monitor may be nil when no request
// asks to wait.
func NewLauncher(transport core.JobTransport, monitor core.JobMonitor, logger *logging.Logger) *Launcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Launcher{transport: transport, monitor: monitor, logger: logger}
}

// Launch starts a workflow job from req.TemplateID. Without monitoring the
// result carries the launch response; with monitoring it is the monitor's
// result for the new job.
func (l *Launcher) Launch(ctx context.Context, req LaunchRequest) (*core.JobResult, error) {
	if req.TemplateID <= 0 {
		return nil, core.ErrValidation(core.CodeInvalidTemplate,
			fmt.Sprintf("invalid workflow job template id %d", req.TemplateID))
	}
	if req.Monitor && l.monitor == nil {
		return nil, core.ErrValidation(core.CodeMonitorMissing, "monitoring requested but no monitor is configured")
	}

	payload, err := buildLaunchPayload(req)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("workflow_job_templates/%d/launch/", req.TemplateID)
	var resp map[string]any
	if err := l.transport.Post(ctx, path, payload, &resp); err != nil {
		return nil, fmt.Errorf("launching workflow job template %d: %w", req.TemplateID, err)
	}

	id, err := responseID(resp)
	if err != nil {
		return nil, err
	}

	logger := l.logger.WithTemplate(req.TemplateID).WithJob(id)
	logger.Info("workflow job launched")

	if req.Monitor {
		logger.Debug("monitoring workflow job", "timeout", req.Timeout)
		return l.monitor.Monitor(ctx, id, req.Timeout)
	}

	resp["changed"] = true
	return &core.JobResult{
		ID:      id,
		Changed: true,
		Status:  core.JobStatus(stringField(resp, "status")),
		Outcome: core.OutcomeLaunched,
		Fields:  resp,
	}, nil
}

func buildLaunchPayload(req LaunchRequest) (map[string]any, error) {
	payload := make(map[string]any, len(req.Fields)+1)
	for k, v := range req.Fields {
		if v == nil {
			continue
		}
		payload[k] = v
	}

	if len(req.ExtraVars) > 0 {
		vars, err := MergeExtraVars(req.ExtraVars)
		if err != nil {
			return nil, err
		}
		payload["extra_vars"] = vars
	}
	return payload, nil
}

// responseID extracts the job id from a decoded launch response.
func responseID(resp map[string]any) (int, error) {
	switch v := resp["id"].(type) {
	case json.Number:
		id, err := strconv.Atoi(v.String())
		if err == nil {
			return id, nil
		}
	case float64:
		return int(v), nil
	case int:
		return v, nil
	}
	return 0, core.ErrValidation(core.CodeInvalidResponse, "launch response has no job id")
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
