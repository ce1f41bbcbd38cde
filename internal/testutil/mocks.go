// Package testutil provides test doubles for the core ports and golden
// file helpers.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/hugo-lorenzo-mato/flowctl/internal/core"
)

// UnifiedJob builds a child job record as the API returns it.
func UnifiedJob(name, status, finished string, elapsed float64) map[string]any {
	return map[string]any{"name": name, "status": status, "finished": finished, "elapsed": elapsed}
}

// MockLister implements core.JobLister over an in-memory record set.
type MockLister struct {
	mu       sync.Mutex
	Records  []map[string]any
	Err      error
	Calls    int
	Resource string
	Query    url.Values
}

// ListAll returns the current records encoded as JSON.
func (m *MockLister) ListAll(_ context.Context, resource string, query url.Values) ([]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	m.Resource = resource
	m.Query = query
	if m.Err != nil {
		return nil, m.Err
	}

	out := make([]json.RawMessage, 0, len(m.Records))
	for _, r := range m.Records {
		data, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}

// Set replaces the record set.
func (m *MockLister) Set(records ...map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = records
}

// PostCall records one Post to a MockTransport.
type PostCall struct {
	Path    string
	Payload map[string]any
}

// MockTransport implements core.JobTransport. GET requests are answered by
// GetFunc; POST requests are recorded and answered with PostResponse.
// Responses are JSON round-tripped so callers see what a real client decodes.
type MockTransport struct {
	mu           sync.Mutex
	GetFunc      func(path string) (any, error)
	PostResponse any
	PostErr      error
	Posts        []PostCall
	Gets         int
}

// Get answers through GetFunc.
func (m *MockTransport) Get(_ context.Context, path string, out any) error {
	m.mu.Lock()
	m.Gets++
	fn := m.GetFunc
	m.mu.Unlock()

	resp, err := fn(path)
	if err != nil {
		return err
	}
	return decodeInto(resp, out)
}

// Post records the payload and returns PostResponse or PostErr.
func (m *MockTransport) Post(_ context.Context, path string, payload, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	body, _ := payload.(map[string]any)
	m.Posts = append(m.Posts, PostCall{Path: path, Payload: body})
	if m.PostErr != nil {
		return m.PostErr
	}
	return decodeInto(m.PostResponse, out)
}

func decodeInto(resp, out any) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = data
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(out)
}

// MockMonitor implements core.JobMonitor, returning Result and Err.
type MockMonitor struct {
	Result  *core.JobResult
	Err     error
	Calls   int
	JobID   int
	Timeout time.Duration
}

// Monitor records the call.
func (m *MockMonitor) Monitor(_ context.Context, jobID int, timeout time.Duration) (*core.JobResult, error) {
	m.Calls++
	m.JobID = jobID
	m.Timeout = timeout
	return m.Result, m.Err
}
