package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLister(t *testing.T) {
	m := &MockLister{}
	m.Set(UnifiedJob("Setup", "successful", "T1", 5))

	q := url.Values{"order_by": {"finished"}}
	got, err := m.ListAll(context.Background(), "unified_jobs/", q)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.JSONEq(t, `{"name":"Setup","status":"successful","finished":"T1","elapsed":5}`, string(got[0]))
	assert.Equal(t, 1, m.Calls)
	assert.Equal(t, "unified_jobs/", m.Resource)
	assert.Equal(t, "finished", m.Query.Get("order_by"))

	m.Err = errors.New("boom")
	_, err = m.ListAll(context.Background(), "unified_jobs/", nil)
	assert.EqualError(t, err, "boom")
}

func TestMockTransport(t *testing.T) {
	m := &MockTransport{
		GetFunc:      func(path string) (any, error) { return map[string]any{"path": path, "n": 3}, nil },
		PostResponse: map[string]any{"id": 7},
	}

	var got map[string]any
	require.NoError(t, m.Get(context.Background(), "x/", &got))
	assert.Equal(t, "x/", got["path"])
	assert.Equal(t, json.Number("3"), got["n"])

	var raw json.RawMessage
	require.NoError(t, m.Get(context.Background(), "y/", &raw))
	assert.JSONEq(t, `{"path":"y/","n":3}`, string(raw))

	var resp map[string]any
	require.NoError(t, m.Post(context.Background(), "launch/", map[string]any{"a": 1}, &resp))
	assert.Equal(t, json.Number("7"), resp["id"])
	require.Len(t, m.Posts, 1)
	assert.Equal(t, "launch/", m.Posts[0].Path)
	assert.Equal(t, 2, m.Gets)
}
