package tower

import (
	"fmt"
	"net/http"

	"github.com/hugo-lorenzo-mato/flowctl/internal/core"
)

// APIError is a non-success response from the API.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// classify wraps an APIError in the DomainError for its status code.
func classify(apiErr *APIError) error {
	var domErr *core.DomainError
	switch {
	case apiErr.StatusCode == http.StatusUnauthorized, apiErr.StatusCode == http.StatusForbidden:
		domErr = core.ErrAuth(fmt.Sprintf("%s %s was rejected", apiErr.Method, apiErr.Path))
	case apiErr.StatusCode == http.StatusNotFound:
		domErr = core.ErrNotFound("resource", apiErr.Path)
	case apiErr.StatusCode == http.StatusBadRequest:
		domErr = core.ErrValidation(core.CodeBadRequest,
			fmt.Sprintf("%s %s was rejected as invalid", apiErr.Method, apiErr.Path))
	case apiErr.StatusCode >= 500:
		domErr = core.ErrTransport(core.CodeServerError,
			fmt.Sprintf("%s %s failed on the server", apiErr.Method, apiErr.Path))
	default:
		domErr = core.ErrTransport(core.CodeUnexpectedCode,
			fmt.Sprintf("%s %s returned status %d", apiErr.Method, apiErr.Path, apiErr.StatusCode))
	}
	return domErr.WithCause(apiErr).WithDetail("request_id", apiErr.RequestID)
}
