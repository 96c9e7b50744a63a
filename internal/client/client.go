// Package client talks to a remote leaderboard API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vovakirdan/snakeboard/internal/api"
	"github.com/vovakirdan/snakeboard/internal/leaderboard"
)

// APIError is a non-200 response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("client: server returned %d: %s", e.Status, e.Message)
}

// Unwrap maps the server's messages back to the leaderboard sentinels.
func (e *APIError) Unwrap() error {
	switch e.Message {
	case "Invalid payload":
		return leaderboard.ErrInvalidPayload
	case "Name required":
		return leaderboard.ErrNameRequired
	case "Database not configured":
		return leaderboard.ErrNotConfigured
	case "Storage unavailable":
		return leaderboard.ErrStorageUnavailable
	}
	return nil
}

// Client calls one server.
type Client struct {
	base string
	http *http.Client
}

// New returns a client for baseURL (e.g. "http://localhost:8080").
// A zero timeout means 5s.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// Leaderboard fetches the ranked view.
func (c *Client) Leaderboard(ctx context.Context) ([]leaderboard.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+api.PathScores, nil)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	return c.do(req)
}

// Submit posts a score. Values are sent as given, so the server applies
// the same validation as for any other caller.
func (c *Client) Submit(ctx context.Context, rawName, rawScore any) ([]leaderboard.Entry, error) {
	body, err := json.Marshal(map[string]any{"name": rawName, "score": rawScore})
	if err != nil {
		return nil, fmt.Errorf("client: %w: %w", leaderboard.ErrInvalidPayload, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+api.PathScores, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]leaderboard.Entry, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("client: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr api.ErrorResponse
		if err := json.Unmarshal(data, &apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	var out api.ScoresResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("client: decode response: %w", err)
	}
	if out.Scores == nil {
		out.Scores = []leaderboard.Entry{}
	}
	return out.Scores, nil
}

// IsUnavailable reports whether err means the leaderboard could not be
// reached or stored, as opposed to a rejected submission.
func IsUnavailable(err error) bool {
	return err != nil &&
		!errors.Is(err, leaderboard.ErrInvalidPayload) &&
		!errors.Is(err, leaderboard.ErrNameRequired)
}
