package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/lucasvrm/ecodoacao/internal/token"
)

const (
	defaultTimeout   = 10 * time.Second
	refreshThreshold = 60 * time.Second
)

// Client wraps the backend's REST API: bearer injection, proactive
// single-flight token refresh, timeouts and failure classification.
type Client struct {
	apiRoot    string
	httpClient *http.Client
	tokens     *token.Store
	log        *slog.Logger
	timeout    time.Duration
	refresh    singleflight.Group
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a client rooted at baseURL's /api prefix.
func NewClient(baseURL string, tokens *token.Store, opts ...Option) *Client {
	c := &Client{
		apiRoot:    joinURL(baseURL, "api"),
		httpClient: http.DefaultClient,
		tokens:     tokens,
		log:        slog.Default(),
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestOptions controls a single API call. Method defaults to GET.
// JSON and Body are mutually exclusive; Body carries a prebuilt payload
// (multipart) whose Content-Type the caller supplies.
type RequestOptions struct {
	Method      string
	JSON        any
	Body        io.Reader
	ContentType string
	Headers     map[string]string
	Timeout     time.Duration
	Absolute    bool
}

// Do performs an API request and decodes a 2xx JSON response into out
// (out may be nil). Non-2xx responses return *Error; transport failures
// return the fixed timeout/connection messages.
func (c *Client) Do(ctx context.Context, path string, opts RequestOptions, out any) error {
	c.ensureFreshToken(ctx)

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	contentType := opts.ContentType
	if opts.JSON != nil {
		encoded, err := json.Marshal(opts.JSON)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(encoded)
		if contentType == "" {
			contentType = "application/json"
		}
	} else if opts.Body != nil {
		body = opts.Body
	}

	url := path
	if !opts.Absolute {
		url = joinURL(c.apiRoot, path)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if access := c.tokens.Access(); access != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.log.Warn("api request timed out", "method", method, "path", path, "request_id", requestID)
			return errors.New(msgTimeout)
		}
		c.log.Warn("api request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return errors.New(msgConnection)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.New(msgConnection)
	}

	var payload any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			payload = string(raw)
		}
	}

	c.log.Debug("api request",
		"method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized {
			// Session is dead; force the next auth check back to login.
			if err := c.tokens.Clear(); err != nil {
				c.log.Warn("clear tokens after 401", "error", err)
			}
		}
		return &Error{
			Status:  resp.StatusCode,
			Payload: payload,
			Message: errorMessage(resp.StatusCode, payload),
		}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// ensureFreshToken refreshes the access token when it is about to expire.
// Concurrent callers share one in-flight refresh; a failed refresh leaves
// the stored tokens untouched so the main request surfaces the 401.
func (c *Client) ensureFreshToken(ctx context.Context) {
	remaining, ok := c.tokens.ExpiresIn()
	if !ok || remaining >= refreshThreshold {
		return
	}

	_, err, _ := c.refresh.Do("refresh", func() (any, error) {
		return nil, c.refreshAccessToken(ctx)
	})
	if err != nil {
		c.log.Debug("token refresh failed", "error", err)
	}
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

func (c *Client) refreshAccessToken(ctx context.Context) error {
	refresh := c.tokens.Refresh()
	if refresh == "" {
		return nil
	}

	encoded, err := json.Marshal(refreshRequest{Refresh: refresh})
	if err != nil {
		return fmt.Errorf("marshal refresh request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joinURL(c.apiRoot, PathRefresh), bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("create refresh request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("refresh request: %w", err)
	}
	defer resp.Body.Close()

	var rr refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil && err != io.EOF {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refresh: status %d", resp.StatusCode)
	}
	if rr.Access != "" {
		if err := c.tokens.SetTokens(rr.Access, ""); err != nil {
			return fmt.Errorf("store refreshed token: %w", err)
		}
	}
	return nil
}
