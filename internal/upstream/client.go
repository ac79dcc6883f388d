package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	model "github.com/dentacare-id/backend/internal/model/upstream"
)

// StatusError reports a non-success HTTP status from the analysis backend so
// callers can surface the upstream code instead of a generic failure.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the external AI analysis backend. Every call is bounded by
// its own timeout; the backend is treated as possibly unavailable at any time.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	chatTimeout     time.Duration
	healthTimeout   time.Duration
	resourceTimeout time.Duration
}

// Option tweaks client construction.
type Option func(*Client)

// WithTimeouts overrides the per-call deadlines.
func WithTimeouts(chat, health, resource time.Duration) Option {
	return func(c *Client) {
		c.chatTimeout = chat
		c.healthTimeout = health
		c.resourceTimeout = resource
	}
}

// WithHTTPClient substitutes the transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient builds a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		httpClient:      &http.Client{},
		chatTimeout:     30 * time.Second,
		healthTimeout:   8 * time.Second,
		resourceTimeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chat sends one conversational turn to the backend and decodes the reply
// envelope. A non-2xx status or success=false is an error.
func (c *Client) Chat(ctx context.Context, req model.ChatRequest) (model.ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.chatTimeout)
	defer cancel()

	payload, err := json.Marshal(req)
	if err != nil {
		return model.ChatResponse{}, fmt.Errorf("encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return model.ChatResponse{}, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return model.ChatResponse{}, fmt.Errorf("call analysis backend: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.ChatResponse{}, fmt.Errorf("read chat response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.ChatResponse{}, &StatusError{StatusCode: resp.StatusCode, Body: truncate(body)}
	}

	var decoded model.ChatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return model.ChatResponse{}, fmt.Errorf("decode chat response: %w", err)
	}
	if !decoded.Success {
		return model.ChatResponse{}, fmt.Errorf("analysis backend rejected request: %s", decoded.Error)
	}

	return decoded, nil
}

// Health performs one liveness round trip. Any transport error, non-2xx
// status, or success=false is returned as an error; the caller owns the
// availability verdict.
func (c *Client) Health(ctx context.Context) (model.HealthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return model.HealthResponse{}, fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return model.HealthResponse{}, fmt.Errorf("probe analysis backend: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.HealthResponse{}, fmt.Errorf("read health response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.HealthResponse{}, &StatusError{StatusCode: resp.StatusCode, Body: truncate(body)}
	}

	var decoded model.HealthResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return model.HealthResponse{}, fmt.Errorf("decode health response: %w", err)
	}
	if !decoded.Success {
		return model.HealthResponse{}, fmt.Errorf("analysis backend reported unhealthy: %s", decoded.Status)
	}

	return decoded, nil
}

// Resource fetches a generated artifact in the requested upstream format and
// returns the raw response body.
func (c *Client) Resource(ctx context.Context, id, format string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.resourceTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/resources/%s?format=%s", c.baseURL, url.PathEscape(id), url.QueryEscape(format))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build resource request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch resource %s: %w", id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read resource %s: %w", id, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(body)}
	}

	return body, nil
}

// ResourceURL returns the direct retrieval URL for an artifact.
func (c *Client) ResourceURL(id string) string {
	return fmt.Sprintf("%s/resources/%s", c.baseURL, url.PathEscape(id))
}

func truncate(body []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(body))
	if len(s) <= limit {
		return s
	}
	// Back off to a rune boundary so the cut never mangles multi-byte text.
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
