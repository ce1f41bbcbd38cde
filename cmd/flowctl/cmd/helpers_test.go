package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

// fakeAWX serves the endpoints flowctl uses for one workflow job template (5)
// and the job it launches (77).
type fakeAWX struct {
	t        *testing.T
	mu       sync.Mutex
	statuses []string
	polls    int
	children []map[string]any
	launches []map[string]any
}

func newFakeAWX(t *testing.T, statuses ...string) *fakeAWX {
	t.Helper()
	f := &fakeAWX{
		t:        t,
		statuses: statuses,
		children: []map[string]any{
			{"name": "Setup", "status": "successful", "finished": "2024-05-01T10:00:05Z", "elapsed": 5.0},
			{"name": "Deploy", "status": "failed", "finished": "2024-05-01T10:00:17Z", "elapsed": 12.25},
		},
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("FLOWCTL_TOWER_HOST", srv.URL)
	t.Setenv("FLOWCTL_TOWER_TOKEN", "test-token")
	t.Setenv("FLOWCTL_MONITOR_POLL_INTERVAL", "1ms")
	return f
}

func (f *fakeAWX) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	assert.Equal(f.t, "Bearer test-token", r.Header.Get("Authorization"))

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/v2/workflow_job_templates/5/launch/":
		var body map[string]any
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
		f.launches = append(f.launches, body)
		w.WriteHeader(http.StatusCreated)
		f.write(w, map[string]any{"id": 77, "status": "pending", "workflow_job_template": 5})

	case r.Method == http.MethodGet && r.URL.Path == "/api/v2/workflow_jobs/77/":
		status := "pending"
		if len(f.statuses) > 0 {
			status = f.statuses[min(f.polls, len(f.statuses)-1)]
		}
		f.polls++
		f.write(w, map[string]any{
			"id":                    77,
			"status":                status,
			"workflow_job_template": 5,
			"created":               "2024-05-01T10:00:00Z",
		})

	case r.Method == http.MethodGet && r.URL.Path == "/api/v2/unified_jobs/":
		assert.Equal(f.t, "77", r.URL.Query().Get("unified_job_node__workflow_job"))
		f.write(w, map[string]any{"count": len(f.children), "next": nil, "results": f.children})

	default:
		w.WriteHeader(http.StatusNotFound)
		f.write(w, map[string]any{"detail": "Not found."})
	}
}

func (f *fakeAWX) write(w http.ResponseWriter, v any) {
	assert.NoError(f.t, json.NewEncoder(w).Encode(v))
}

func (f *fakeAWX) lastLaunch() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.launches) == 0 {
		return nil
	}
	return f.launches[len(f.launches)-1]
}

// run executes the root command with args and returns stdout and stderr.
func run(args ...string) (string, string, error) {
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := Execute()
	return stdout.String(), stderr.String(), err
}

// resetFlags restores every flag in the tree to its default between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
