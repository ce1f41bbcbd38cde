package tower

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/flowctl/internal/core"
)

// pagedHandler serves total records in pages of size, linking pages
// through absolute "next" paths the way the API does.
func pagedHandler(t *testing.T, total, size int, seen *[]url.Values) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if seen != nil {
			*seen = append(*seen, q)
		}
		page := 1
		if p := q.Get("page"); p != "" {
			_, err := fmt.Sscanf(p, "%d", &page)
			assert.NoError(t, err)
		}

		start := (page - 1) * size
		results := []map[string]any{}
		for i := start; i < start+size && i < total; i++ {
			results = append(results, map[string]any{"id": i + 1})
		}

		body := map[string]any{"count": total, "results": results, "next": nil, "previous": nil}
		if start+size < total {
			q.Set("page", fmt.Sprint(page+1))
			body["next"] = r.URL.Path + "?" + q.Encode()
		}
		assert.NoError(t, json.NewEncoder(w).Encode(body))
	}
}

func TestListAll_FollowsNext(t *testing.T) {
	var seen []url.Values
	client := newTestClient(t, pagedHandler(t, 5, 2, &seen), WithPaging(2, 10))

	query := url.Values{}
	query.Set("order_by", "finished")
	results, err := client.ListAll(context.Background(), "unified_jobs/", query)
	require.NoError(t, err)
	require.Len(t, results, 5)
	require.Len(t, seen, 3)

	for _, q := range seen {
		assert.Equal(t, "finished", q.Get("order_by"))
		assert.Equal(t, "2", q.Get("page_size"))
	}

	var last struct{ ID int }
	require.NoError(t, json.Unmarshal(results[4], &last))
	assert.Equal(t, 5, last.ID)

	// The caller's query is left untouched.
	assert.Empty(t, query.Get("page_size"))
}

func TestListAll_EmptyResult(t *testing.T) {
	client := newTestClient(t, pagedHandler(t, 0, 10, nil))

	results, err := client.ListAll(context.Background(), "unified_jobs/", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestListAll_KeepsExplicitPageSize(t *testing.T) {
	var seen []url.Values
	client := newTestClient(t, pagedHandler(t, 3, 50, &seen))

	query := url.Values{"page_size": {"50"}}
	_, err := client.ListAll(context.Background(), "unified_jobs/", query)
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, "50", seen[0].Get("page_size"))
}

func TestListAll_PageLimit(t *testing.T) {
	client := newTestClient(t, pagedHandler(t, 10, 2, nil), WithPaging(2, 3))

	_, err := client.ListAll(context.Background(), "unified_jobs/", nil)
	require.Error(t, err)
	var domErr *core.DomainError
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, core.CodePageLimitExceeded, domErr.Code)
	assert.Equal(t, 6, domErr.Details["fetched"])
}

func TestListAll_PropagatesErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.ListAll(context.Background(), "unified_jobs/", nil)
	assert.True(t, core.IsCategory(err, core.ErrCatAuth))
}

func TestListAll_RefusesForeignNextLink(t *testing.T) {
	var leaked []string
	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		leaked = append(leaked, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"count": 0, "next": null, "results": []}`))
	}))
	t.Cleanup(foreign.Close)

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		body := map[string]any{
			"count":   2,
			"next":    foreign.URL + "/api/v2/unified_jobs/?page=2",
			"results": []map[string]any{{"id": 1}},
		}
		assert.NoError(t, json.NewEncoder(w).Encode(body))
	}, WithToken("s3cret-token"))

	_, err := client.ListAll(context.Background(), "unified_jobs/", nil)
	var domErr *core.DomainError
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, core.CodeForeignURL, domErr.Code)
	assert.Empty(t, leaked)
}
