package tower

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/hugo-lorenzo-mato/flowctl/internal/core"
)

// Page is one page of a list endpoint.
type Page struct {
	Count    int               `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []json.RawMessage `json:"results"`
}

// ListAll fetches every page of resource matching query and returns the
// concatenated results. It fails with PAGE_LIMIT_EXCEEDED rather than
// following more than the configured maximum number of pages.
func (c *Client) ListAll(ctx context.Context, resource string, query url.Values) ([]json.RawMessage, error) {
	params := url.Values{}
	for k, v := range query {
		params[k] = append([]string(nil), v...)
	}
	if params.Get("page_size") == "" {
		params.Set("page_size", strconv.Itoa(c.pageSize))
	}

	next := resource + "?" + params.Encode()
	var results []json.RawMessage

	for page := 1; next != ""; page++ {
		if page > c.maxPages {
			return nil, core.ErrValidation(core.CodePageLimitExceeded,
				fmt.Sprintf("listing %s exceeded %d pages", resource, c.maxPages)).
				WithDetail("fetched", len(results))
		}

		var p Page
		if err := c.Get(ctx, next, &p); err != nil {
			return nil, err
		}
		results = append(results, p.Results...)

		next = ""
		if p.Next != nil {
			next = *p.Next
		}
	}

	c.logger.Debug("listed resource", "resource", resource, "count", len(results))
	return results, nil
}
