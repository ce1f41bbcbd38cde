package cmd

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hugo-lorenzo-mato/flowctl/internal/core"
)

func TestScorecardCommand(t *testing.T) {
	newFakeAWX(t)

	stdout, _, err := run("scorecard", "77")
	require.NoError(t, err)

	want := "Setup                SUCCESSFUL at 2024-05-01T10:00:05Z in 5 seconds\n" +
		"Deploy               FAILED     at 2024-05-01T10:00:17Z in 12.25 seconds\n"
	assert.Equal(t, want, stdout)
}

func TestScorecardCommand_Range(t *testing.T) {
	newFakeAWX(t)

	stdout, _, err := run("scorecard", "77", "--start-line", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "Deploy "))
	assert.Equal(t, 1, strings.Count(stdout, "\n"))

	stdout, _, err = run("scorecard", "77", "--start-line", "5")
	require.NoError(t, err)
	assert.Equal(t, "", stdout)

	stdout, _, err = run("scorecard", "77", "--end-line", "0")
	require.NoError(t, err)
	assert.Equal(t, "", stdout)
}

func TestScorecardCommand_JSON(t *testing.T) {
	newFakeAWX(t)

	stdout, _, err := run("scorecard", "77", "--format", "json")
	require.NoError(t, err)

	var result scorecardResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, 77, result.ID)
	assert.False(t, result.Changed)
	assert.Equal(t, 2, strings.Count(result.Scorecard, "\n"))
}

func TestScorecardCommand_InvalidID(t *testing.T) {
	newFakeAWX(t)

	_, _, err := run("scorecard", "abc")
	require.Error(t, err)
	assert.Equal(t, ExitError, ExitCode(err))
	assert.True(t, core.IsCategory(err, core.ErrCatValidation))
}

func TestScorecardCommand_NotFound(t *testing.T) {
	newFakeAWX(t)
	t.Setenv("FLOWCTL_TOWER_HOST", os.Getenv("FLOWCTL_TOWER_HOST")+"/missing")

	_, _, err := run("scorecard", "77")
	require.Error(t, err)
	assert.True(t, core.IsCategory(err, core.ErrCatNotFound))
}

func TestLaunchCommand_SendsOnlyGivenFields(t *testing.T) {
	awx := newFakeAWX(t)

	stdout, _, err := run("launch", "-W", "5",
		"--limit", "web",
		"--inventory", "0",
		"--extra-vars", "a=1",
		"--extra-vars", `{"a": 2, "b": 3}`)
	require.NoError(t, err)
	assert.Equal(t, "Launched workflow job 77 (pending)\n", stdout)

	body := awx.lastLaunch()
	require.NotNil(t, body)
	assert.Equal(t, "web", body["limit"])
	assert.Equal(t, float64(0), body["inventory"])
	assert.NotContains(t, body, "scm_branch")
	assert.NotContains(t, body, "job_tags")
	assert.Equal(t, map[string]any{"a": float64(2), "b": float64(3)}, body["extra_vars"])
}

func TestLaunchCommand_NoExtraVars(t *testing.T) {
	awx := newFakeAWX(t)

	_, _, err := run("launch", "-W", "5")
	require.NoError(t, err)
	assert.NotContains(t, awx.lastLaunch(), "extra_vars")
	assert.Zero(t, awx.polls)
}

func TestLaunchCommand_RequiresTemplate(t *testing.T) {
	newFakeAWX(t)

	_, _, err := run("launch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workflow-job-template")
}

func TestLaunchCommand_JSON(t *testing.T) {
	newFakeAWX(t)

	stdout, _, err := run("launch", "-W", "5", "--format", "json")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, float64(77), result["id"])
	assert.Equal(t, true, result["changed"])
}

func TestLaunchCommand_MonitorFailedJob(t *testing.T) {
	newFakeAWX(t, "pending", "running", "failed")

	stdout, _, err := run("launch", "-W", "5", "--monitor")
	require.Error(t, err)
	assert.Equal(t, ExitJobFailed, ExitCode(err))

	assert.Contains(t, stdout, "Setup                SUCCESSFUL")
	assert.Contains(t, stdout, "Deploy               FAILED")
	assert.Equal(t, 1, strings.Count(stdout, "Setup "))
	assert.True(t, strings.HasSuffix(stdout, "Workflow job 77 finished: FAILED\n"))
}

func TestMonitorCommand_Successful(t *testing.T) {
	newFakeAWX(t, "running", "successful")

	stdout, _, err := run("monitor", "77", "--format", "yaml")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, 77, result["id"])
	assert.Equal(t, "successful", result["outcome"])
	assert.NotContains(t, stdout, "Setup")
}

func TestMonitorCommand_Timeout(t *testing.T) {
	newFakeAWX(t, "running")

	stdout, _, err := run("monitor", "77", "--timeout", "1")
	require.Error(t, err)
	assert.Equal(t, ExitTimeout, ExitCode(err))
	assert.Contains(t, stdout, "Workflow job 77 still running after")
}

func TestStatusCommand(t *testing.T) {
	newFakeAWX(t, "running")

	stdout, _, err := run("status", "77")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"ID", "WORKFLOW-JOB-TEMPLATE", "CREATED", "STATUS"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"77", "5", "2024-05-01T10:00:00Z", "running"}, strings.Fields(lines[1]))
}

func TestCommands_MissingHost(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("FLOWCTL_TOWER_HOST", "")

	_, _, err := run("status", "77")
	require.Error(t, err)
	assert.Equal(t, ExitError, ExitCode(err))
	assert.Contains(t, err.Error(), "tower.host")
}

func TestCommands_HostFlag(t *testing.T) {
	newFakeAWX(t, "successful")
	host := os.Getenv("FLOWCTL_TOWER_HOST")
	t.Setenv("FLOWCTL_TOWER_HOST", "")

	_, _, err := run("status", "77", "--host", host)
	require.NoError(t, err)
}
