package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"atelier/internal/server"
	"atelier/internal/services"
	"atelier/internal/store"
)

// Client provides typed access to the daemon API.
type Client struct {
	baseURL string
	http    *http.Client

	mu              sync.Mutex
	recordingsCache map[int64][]store.Recording
}

// APIError carries the HTTP status and the Dutch message from an error
// response body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}

// Is lets callers classify API errors with the services sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case services.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case services.ErrValidation:
		return e.StatusCode == http.StatusBadRequest
	}
	return false
}

// New constructs a client for the daemon at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		http:            &http.Client{Timeout: 30 * time.Second},
		recordingsCache: make(map[int64][]store.Recording),
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		apiErr.Message = payload.Message
	}
	return apiErr
}

// Status fetches the daemon status.
func (c *Client) Status(ctx context.Context) (*server.Status, error) {
	var status server.Status
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// SessionRecordings returns the recordings of a session, serving repeat calls
// from the cache until an upload or InvalidateRecordings clears it.
func (c *Client) SessionRecordings(ctx context.Context, sessionID int64) ([]store.Recording, error) {
	c.mu.Lock()
	if cached, ok := c.recordingsCache[sessionID]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	var recordings []store.Recording
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/sessions/%d/recordings", sessionID), nil, &recordings); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.recordingsCache[sessionID] = recordings
	c.mu.Unlock()
	return recordings, nil
}

// InvalidateRecordings drops the cached recording list for a session.
func (c *Client) InvalidateRecordings(sessionID int64) {
	c.mu.Lock()
	delete(c.recordingsCache, sessionID)
	c.mu.Unlock()
}
