package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lamnguyen-dev/educenter-api/internal/models"
	"github.com/lamnguyen-dev/educenter-api/internal/query"
	"github.com/lamnguyen-dev/educenter-api/internal/session"
	appErrors "github.com/lamnguyen-dev/educenter-api/pkg/errors"
)

// Client is a typed HTTP client for the admin API. Failures are reported
// through three distinct classes: the server answered with an error payload,
// the server never answered, or the request could not be built at all.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions session.Store
	guard    *session.Guard
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithSession attaches a session store. The stored token is sent as a Bearer
// Authorization header, and the expiry guard sweeps the store before each
// request so an expired token is never sent.
func WithSession(store session.Store) Option {
	return func(c *Client) {
		c.sessions = store
		c.guard = session.NewGuard()
	}
}

// New builds a Client for the given base URL, e.g. "http://localhost:8080/api/v1".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope mirrors the server response contract.
type envelope struct {
	Success    bool               `json:"success"`
	Data       json.RawMessage    `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
	Code       string             `json:"code"`
	Message    string             `json:"message"`
	Status     int                `json:"status"`
	Fields     map[string]string  `json:"fields"`
}

// Do issues a request and decodes the envelope data into out (which may be
// nil for responses without a body).
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	_, err := c.do(ctx, method, path, body, out)
	return err
}

// do issues a request, decodes the envelope data into out, and returns the
// whole envelope.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrRequestSetup.Code, appErrors.ErrRequestSetup.Status, "failed to encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRequestSetup.Code, appErrors.ErrRequestSetup.Status, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNoResponse.Code, appErrors.ErrNoResponse.Status, "no response from server")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNoResponse.Code, appErrors.ErrNoResponse.Status, "failed to read response body")
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			return nil, appErrors.Clone(appErrors.ErrServerRejected, fmt.Sprintf("server returned status %d", resp.StatusCode))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrNoResponse.Code, appErrors.ErrNoResponse.Status, "malformed response body")
	}

	if resp.StatusCode >= 400 || !env.Success {
		rejected := appErrors.Clone(appErrors.ErrServerRejected, env.Message)
		rejected.Fields = env.Fields
		return nil, rejected
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrNoResponse.Code, appErrors.ErrNoResponse.Status, "malformed response data")
		}
	}
	return &env, nil
}

// authorize sweeps expired session state, then injects the Bearer token
// when one survives the sweep.
func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	if c.sessions == nil {
		return nil
	}
	if err := c.guard.Sweep(ctx, c.sessions); err != nil {
		return appErrors.Wrap(err, appErrors.ErrRequestSetup.Code, appErrors.ErrRequestSetup.Status, "failed to sweep session")
	}
	token, err := c.sessions.Read(ctx, session.KeyToken)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrRequestSetup.Code, appErrors.ErrRequestSetup.Status, "failed to read session token")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// GetList issues a GET request against a listing endpoint, decoding the
// items into out and returning the pagination metadata so the caller can
// react to the reported total and page count.
func (c *Client) GetList(ctx context.Context, path string, out interface{}) (*models.Pagination, error) {
	env, err := c.do(ctx, http.MethodGet, path, nil, out)
	if err != nil {
		return nil, err
	}
	if env == nil {
		return nil, nil
	}
	return env.Pagination, nil
}

// ListPage fetches one page of a listing using the pager's filter, page and
// page size. When the requested page lies past the reported page count, the
// pager is clamped and the request re-issued once, so browsing a shrunken
// listing lands on the last page instead of an empty one.
func (c *Client) ListPage(ctx context.Context, path string, pager *query.Pager, out interface{}) (*models.Pagination, error) {
	pagination, err := c.GetList(ctx, path+"?"+pagerQuery(pager), out)
	if err != nil {
		return nil, err
	}
	if pagination != nil && pager.Page() > pagination.Pages {
		pager.Clamp(pagination.Pages)
		return c.GetList(ctx, path+"?"+pagerQuery(pager), out)
	}
	return pagination, nil
}

// pagerQuery encodes the pager state as listing query parameters.
func pagerQuery(pager *query.Pager) string {
	filter := pager.Filter()
	values := url.Values{}
	if filter.Status != "" {
		values.Set("status", filter.Status)
	}
	if filter.Search != "" {
		values.Set("search", filter.Search)
	}
	if filter.CourseID != "" {
		values.Set("courseId", filter.CourseID)
	}
	if filter.Sort != "" {
		values.Set("sort", filter.Sort)
	}
	values.Set("page", strconv.Itoa(pager.Page()))
	values.Set("limit", strconv.Itoa(pager.Limit()))
	return values.Encode()
}

// Post issues a POST request.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}
