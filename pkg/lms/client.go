package lms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"gitlab.com/tinyland/lab/campus-pulse/pkg/session"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "campus-pulse"

	// Error bodies larger than this are cut off rather than buffered.
	maxErrorBody = 64 << 10
)

// ErrUnauthorized is returned when the backend rejects the token even after
// a forced refresh. It usually means the credentials themselves are bad.
var ErrUnauthorized = errors.New("lms: unauthorized")

// APIError is a non-2xx response from the backend, carrying the message the
// backend put in its error body when there was one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// Fetcher is the read-and-write surface the dashboard polls. Client and
// Offline both satisfy it.
type Fetcher interface {
	Courses(ctx context.Context) ([]Course, error)
	Assignments(ctx context.Context, courseID string) ([]Assignment, error)
	Roster(ctx context.Context, courseID string) ([]RosterEntry, error)
	CourseGrade(ctx context.Context, courseID, userID string) (GradeSummary, error)
	Dashboard(ctx context.Context, courseID, userID string) (Dashboard, error)
	SubmitAssignment(ctx context.Context, sub Submission) error
	MarkComplete(ctx context.Context, mark CompletionMark) error
	Ping(ctx context.Context) error
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout bounds each request. Zero disables the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// Client calls the hosted backend over HTTP with bearer tokens from a
// session manager.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    *session.Manager
	timeout   time.Duration
	userAgent string
}

// NewClient returns a client for the backend at baseURL. A URL without a
// scheme gets https. tokens must not be nil; every request carries one of
// its tokens.
func NewClient(baseURL string, tokens *session.Manager, opts ...Option) (*Client, error) {
	u, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if tokens == nil {
		return nil, errors.New("lms: nil session manager")
	}
	c := &Client{
		baseURL:   u,
		http:      &http.Client{},
		tokens:    tokens,
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// parseBaseURL normalizes the configured backend address down to scheme and
// host. Path, query, and fragment are discarded.
func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("lms: empty base url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// Ping checks that the backend answers at all.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/api/health", nil)
}

// Courses returns the account's course catalog.
func (c *Client) Courses(ctx context.Context) ([]Course, error) {
	var out []Course
	if err := c.get(ctx, "/api/courses", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Assignments returns the gradable items of one course.
func (c *Client) Assignments(ctx context.Context, courseID string) ([]Assignment, error) {
	var out []Assignment
	path := fmt.Sprintf("/api/courses/%s/assignments", url.PathEscape(courseID))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Roster returns the enrollments of one course.
func (c *Client) Roster(ctx context.Context, courseID string) ([]RosterEntry, error) {
	var out []RosterEntry
	path := fmt.Sprintf("/api/courses/%s/roster", url.PathEscape(courseID))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CourseGrade asks the backend to compute the user's standing in a course.
// The computation lives server-side behind an RPC endpoint.
func (c *Client) CourseGrade(ctx context.Context, courseID, userID string) (GradeSummary, error) {
	payload := struct {
		CourseID string `json:"course_id"`
		UserID   string `json:"user_id"`
	}{courseID, userID}

	var out GradeSummary
	if err := c.post(ctx, "/api/rpc/course_grade", payload, &out); err != nil {
		return GradeSummary{}, err
	}
	return out, nil
}

// Dashboard fetches assignments, roster, and grade for one course
// concurrently. The first failure cancels the others.
func (c *Client) Dashboard(ctx context.Context, courseID, userID string) (Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := c.Assignments(ctx, courseID)
		if err != nil {
			return fmt.Errorf("assignments: %w", err)
		}
		d.Assignments = a
		return nil
	})
	g.Go(func() error {
		r, err := c.Roster(ctx, courseID)
		if err != nil {
			return fmt.Errorf("roster: %w", err)
		}
		d.Roster = r
		return nil
	})
	g.Go(func() error {
		gr, err := c.CourseGrade(ctx, courseID, userID)
		if err != nil {
			return fmt.Errorf("grade: %w", err)
		}
		d.Grade = gr
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

// SubmitAssignment turns in an assignment. The payload is validated before
// anything goes on the wire.
func (c *Client) SubmitAssignment(ctx context.Context, sub Submission) error {
	if err := sub.Validate(); err != nil {
		return fmt.Errorf("validate submission: %w", err)
	}
	return c.post(ctx, "/api/submissions", sub, nil)
}

// MarkComplete flags an item as done for the user.
func (c *Client) MarkComplete(ctx context.Context, mark CompletionMark) error {
	if err := mark.Validate(); err != nil {
		return fmt.Errorf("validate completion: %w", err)
	}
	return c.post(ctx, "/api/completions", mark, nil)
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	return c.do(ctx, http.MethodGet, path, nil, dest)
}

func (c *Client) post(ctx context.Context, path string, payload, dest any) error {
	return c.do(ctx, http.MethodPost, path, payload, dest)
}

// do sends one request and decodes the JSON response into dest when dest is
// non-nil. A 401 invalidates the cached token and retries once with a fresh
// one; a second 401 surfaces as ErrUnauthorized.
func (c *Client) do(ctx context.Context, method, path string, payload, dest any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("parse request path: %w", err)
	}
	u := c.baseURL.ResolveReference(ref)

	var body []byte
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.send(ctx, method, u, body)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		c.tokens.Invalidate()
		resp, err = c.send(ctx, method, u, body)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			drain(resp)
			return ErrUnauthorized
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if dest == nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// send builds and executes one attempt, acquiring a token per attempt so a
// retry after Invalidate picks up the renewed one.
func (c *Client) send(ctx context.Context, method string, u *url.URL, body []byte) (*http.Response, error) {
	tok, err := c.tokens.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, u.Path, err)
	}
	return resp, nil
}

// decodeError turns a non-2xx response into an APIError, picking up the
// backend's {"message": ...} body when present.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&payload); err == nil {
		apiErr.Message = payload.Message
	}
	return apiErr
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
}
