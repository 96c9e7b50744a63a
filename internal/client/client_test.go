package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/snakeboard/internal/api"
	"github.com/vovakirdan/snakeboard/internal/leaderboard"
	"github.com/vovakirdan/snakeboard/internal/storage"
)

func newServer(t *testing.T, store leaderboard.Store) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(api.NewHandler(leaderboard.NewService(store)))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientRoundTrip(t *testing.T) {
	srv := newServer(t, storage.NewFileStore(filepath.Join(t.TempDir(), "scores.json")))
	c := New(srv.URL+"/", time.Second)
	ctx := context.Background()

	entries, err := c.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("Leaderboard() failed: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("Expected empty non-nil list, got %#v", entries)
	}

	if _, err := c.Submit(ctx, "Bo", 10); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	entries, err = c.Submit(ctx, "Al", 20)
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "Al" || entries[1].Name != "Bo" {
		t.Errorf("Submit view = %+v", entries)
	}
	if entries[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be decoded")
	}
}

func TestClientErrors(t *testing.T) {
	srv := newServer(t, storage.NewFileStore(filepath.Join(t.TempDir(), "scores.json")))
	c := New(srv.URL, time.Second)
	ctx := context.Background()

	tests := []struct {
		name     string
		rawName  any
		rawScore any
		err      error
	}{
		{"name not string", 7, 1, leaderboard.ErrInvalidPayload},
		{"score not number", "Ann", "1", leaderboard.ErrInvalidPayload},
		{"blank name", "  ", 1, leaderboard.ErrNameRequired},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Submit(ctx, tc.rawName, tc.rawScore)
			var apiErr *APIError
			if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
				t.Fatalf("Submit() error = %v, expected 400 APIError", err)
			}
			if !errors.Is(err, tc.err) {
				t.Errorf("Submit() error = %v, expected %v", err, tc.err)
			}
			if IsUnavailable(err) {
				t.Error("Validation errors are not unavailability")
			}
		})
	}
}

func TestClientNotConfigured(t *testing.T) {
	srv := newServer(t, nil)
	c := New(srv.URL, time.Second)

	_, err := c.Leaderboard(context.Background())
	if !errors.Is(err, leaderboard.ErrNotConfigured) {
		t.Errorf("Leaderboard() error = %v, expected not configured", err)
	}
	if !IsUnavailable(err) {
		t.Error("Not configured should count as unavailable")
	}
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, 200*time.Millisecond).Leaderboard(context.Background())
	if err == nil {
		t.Fatal("Expected error from closed server")
	}
	if !IsUnavailable(err) {
		t.Errorf("IsUnavailable(%v) = false", err)
	}
}

func TestClientNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Leaderboard(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadGateway || apiErr.Message != "Bad Gateway" {
		t.Errorf("error = %#v", err)
	}
}
