// Package tower is an HTTP client for AWX/Tower compatible orchestration APIs.
package tower

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/hugo-lorenzo-mato/flowctl/internal/core"
	"github.com/hugo-lorenzo-mato/flowctl/internal/logging"
)

const (
	// DefaultTimeout is the default per-request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultPageSize is the page size requested when listing.
	DefaultPageSize = 200

	// DefaultMaxPages bounds how many pages ListAll follows.
	DefaultMaxPages = 500

	userAgent       = "flowctl"
	requestIDHeader = "X-Request-Id"
	maxErrorBody    = 4096
)

var (
	_ core.JobTransport = (*Client)(nil)
	_ core.JobLister    = (*Client)(nil)
)

// Client talks to the orchestration REST API. It is safe for sequential use
// by one command; the rate limiter is its only shared state.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	username   string
	password   string
	limiter    *rate.Limiter
	pageSize   int
	maxPages   int
	logger     *logging.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. Token auth configured later
// with WithToken wraps this client's transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken authenticates every request with an OAuth2 bearer token.
func WithToken(token string) Option {
	return func(c *Client) {
		if token == "" {
			return
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		authed := oauth2.NewClient(ctx, src)
		authed.Timeout = c.httpClient.Timeout
		c.httpClient = authed
	}
}

// WithBasicAuth authenticates every request with username and password.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify() Option {
	return func(c *Client) {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via tower.verify_ssl=false
		c.httpClient.Transport = tr
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRateLimit caps requests per second. Zero or negative disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithPaging sets the page size and the maximum number of pages ListAll follows.
func WithPaging(pageSize, maxPages int) Option {
	return func(c *Client) {
		if pageSize > 0 {
			c.pageSize = pageSize
		}
		if maxPages > 0 {
			c.maxPages = maxPages
		}
	}
}

// WithLogger sets a logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the API rooted at baseURL
// (e.g. "https://tower.example.com/api/v2/"). Options apply in order.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, core.ErrValidation(core.CodeInvalidConfig,
			fmt.Sprintf("invalid API base URL %q", baseURL))
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Inf, 0),
		pageSize:   DefaultPageSize,
		maxPages:   DefaultMaxPages,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get decodes the response body of a GET request into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post sends payload as JSON and decodes the response body into out.
func (c *Client) Post(ctx context.Context, path string, payload, out any) error {
	return c.do(ctx, http.MethodPost, path, payload, out)
}

// resolve turns an API-relative path, an absolute path, or a full URL
// returned in a "next" link into a request URL. URLs pointing anywhere but
// the configured scheme and host are refused so credentials never leave it.
func (c *Client) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parsing path %q: %w", path, err)
	}
	u := c.baseURL.ResolveReference(ref)
	if !strings.EqualFold(u.Scheme, c.baseURL.Scheme) || !strings.EqualFold(u.Host, c.baseURL.Host) {
		return nil, core.ErrValidation(core.CodeForeignURL,
			fmt.Sprintf("refusing request to %s://%s outside %s://%s",
				u.Scheme, u.Host, c.baseURL.Scheme, c.baseURL.Host))
	}
	return u, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("waiting for rate limiter: %w", ctxErr)
		}
		// The limiter refuses up front when the next token falls after
		// the deadline; report that as the deadline it is.
		if _, ok := ctx.Deadline(); ok {
			return fmt.Errorf("waiting for rate limiter: %v: %w", err, context.DeadlineExceeded)
		}
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}

	u, err := c.resolve(path)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(requestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return core.ErrNetwork(fmt.Sprintf("%s %s failed", method, u.Path)).
			WithCause(err).
			WithDetail("request_id", requestID)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		"method", method,
		"url", u.String(),
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return classify(&APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       u.Path,
			Body:       strings.TrimSpace(string(raw)),
			RequestID:  requestID,
		})
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return core.ErrValidation(core.CodeInvalidResponse,
				fmt.Sprintf("%s %s returned an empty body", method, u.Path))
		}
		return core.ErrValidation(core.CodeInvalidResponse,
			fmt.Sprintf("decoding %s %s response", method, u.Path)).WithCause(err)
	}
	return nil
}
