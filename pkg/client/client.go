// Package client is the HTTP client for a Form.io-compatible form service. It
// translates typed calls into REST requests against a configured base URL,
// attaches the session's bearer token when present, and normalises every
// failure into the AuthError / RequestError / NetworkError taxonomy so callers
// never inspect transport details.
//
// Each call is a single best-effort round trip: no retries, no backoff, no
// caching. The only mutable state is the in-memory session token, set on login
// and cleared on the first 401.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-formhost/pkg/formio"
)

// TokenHeader carries the JWT in both directions; the service also accepts and
// refreshes it on ordinary responses.
const TokenHeader = "x-jwt-token"

const defaultTimeout = 10 * time.Second

// Option customises the client before construction.
type Option func(*Client)

// WithHTTPClient swaps the underlying http.Client. The caller owns timeout
// configuration in that case.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithTimeout overrides the fixed per-request timeout (default 10s).
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithLogger injects a structured logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.log = logger
		}
	}
}

// WithToken seeds the session with an externally obtained token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.session.Set(token)
	}
}

// Client talks to one form service. Construct with New and share the instance;
// it is stateless apart from the session token.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
	session Session
}

// New constructs a Client for the given base URL.
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Token returns the current session token, empty when logged out.
func (c *Client) Token() string {
	return c.session.Token()
}

// SetToken installs a token obtained outside the login flow.
func (c *Client) SetToken(token string) {
	c.session.Set(token)
}

// IsAuthenticated reports whether a session token is held.
func (c *Client) IsAuthenticated() bool {
	return c.session.Token() != ""
}

// FormURL returns the canonical URL of a form resource.
func (c *Client) FormURL(formID string) string {
	return c.baseURL + "/form/" + formID
}

// SubmissionURL returns the canonical URL of a submission resource.
func (c *Client) SubmissionURL(formID, submissionID string) string {
	return c.baseURL + "/form/" + formID + "/submission/" + submissionID
}

// do performs one round trip. A nil out skips response decoding. Transport
// failures become NetworkError; 401 clears the token and becomes AuthError;
// any other non-2xx becomes RequestError with the parsed service error body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set(TokenHeader, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		netErr := networkError(err)
		c.log.Debug("request failed before a response",
			"method", method, "path", path, "timeout", netErr.Timeout)
		return netErr
	}
	defer resp.Body.Close()

	// The service rotates tokens by echoing a fresh one on any response.
	if refreshed := resp.Header.Get(TokenHeader); refreshed != "" {
		c.session.Set(refreshed)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("client: decode response: %w", err)
		}
		return nil
	}

	return c.statusError(resp, method, path)
}

func (c *Client) statusError(resp *http.Response, method, path string) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var serviceErr struct {
		Name    string               `json:"name"`
		Message string               `json:"message"`
		Details []formio.ErrorDetail `json:"details"`
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &serviceErr); err != nil {
			// Some deployments answer plain text for auth failures.
			serviceErr.Message = strings.TrimSpace(string(payload))
		}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.session.Clear()
		c.log.Debug("session token cleared after 401", "method", method, "path", path)
		return &AuthError{Message: serviceErr.Message}
	}

	message := serviceErr.Message
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return &RequestError{
		Status:  resp.StatusCode,
		Name:    serviceErr.Name,
		Message: message,
		Details: serviceErr.Details,
	}
}
