// Package client provides the Go HTTP client for the vacuum world API.
// Decision policies and tooling talk to the server exclusively through it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vacuumworld/internal/domain"
)

// Client is an HTTP client for one vacuum world server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given server base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateParams are the session creation parameters. Nil fields are omitted
// so the server applies its defaults (8x8 grid, center start, dirt rate
// 0.3); explicit values, including zero, are sent and validated as given.
type CreateParams struct {
	Width    *int     `json:"width,omitempty"`
	Height   *int     `json:"height,omitempty"`
	InitX    *int     `json:"init_x,omitempty"`
	InitY    *int     `json:"init_y,omitempty"`
	DirtRate *float64 `json:"dirt_rate,omitempty"`
	Seed     *int64   `json:"seed,omitempty"`
}

// SessionInfo echoes the effective parameters of a created session.
type SessionInfo struct {
	SessionID       string          `json:"session_id"`
	Width           int             `json:"width"`
	Height          int             `json:"height"`
	InitialPosition domain.Position `json:"initial_position"`
	DirtRate        float64         `json:"dirt_rate"`
	Seed            int64           `json:"seed"`
}

// Health is the server health response.
type Health struct {
	Status         string `json:"status"`
	ActiveSessions int    `json:"active_sessions"`
}

// CreateSession creates a new simulation session.
func (c *Client) CreateSession(ctx context.Context, p CreateParams) (*SessionInfo, error) {
	var info SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", p, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// DeleteSession removes a session.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/api/sessions/"+sessionID, nil, nil)
}

// State fetches a session's full snapshot.
func (c *Client) State(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := c.do(ctx, http.MethodGet, "/api/sessions/"+sessionID+"/state", nil, &snap)
	return snap, err
}

// Act submits one action and returns the transition result.
func (c *Client) Act(ctx context.Context, sessionID string, action domain.Action) (*domain.ActResult, error) {
	body := map[string]string{"action": string(action)}
	var result domain.ActResult
	if err := c.do(ctx, http.MethodPost, "/api/sessions/"+sessionID+"/action", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Sense fetches the agent perception for a session.
func (c *Client) Sense(ctx context.Context, sessionID string) (domain.Perception, error) {
	var p domain.Perception
	err := c.do(ctx, http.MethodGet, "/api/sessions/"+sessionID+"/sense", nil, &p)
	return p, err
}

// ListSessions fetches summaries of every live session.
func (c *Client) ListSessions(ctx context.Context) ([]domain.SessionSummary, error) {
	var resp struct {
		Sessions []domain.SessionSummary `json:"sessions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// Results fetches archived run summaries.
func (c *Client) Results(ctx context.Context, limit int) ([]domain.RunResult, error) {
	path := "/api/results"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var resp struct {
		Results []domain.RunResult `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// HealthCheck fetches the server health.
func (c *Client) HealthCheck(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// WaitForServer polls health once a second until the server answers or the
// timeout expires. Transport-level retry lives here, on the client side;
// the server never retries anything.
func (c *Client) WaitForServer(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if _, err := c.HealthCheck(ctx); err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("server at %s not reachable within %s", c.baseURL, timeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	msg := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		msg = body.Error
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)
}
