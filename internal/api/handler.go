// Package api serves the leaderboard over HTTP: JSON endpoints for listing
// and submitting scores, a websocket feed of ranking changes and a health
// check.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snakeboard/internal/leaderboard"
)

// DefaultMaxBodyBytes caps submission bodies.
const DefaultMaxBodyBytes = 64 << 10

// Route paths.
const (
	PathScores = "/api/scores"
	PathLive   = "/api/scores/live"
	PathHealth = "/healthz"
)

// Error bodies, as clients see them.
const (
	msgInvalidPayload   = "Invalid payload"
	msgNameRequired     = "Name required"
	msgMethodNotAllowed = "Method not allowed"
	msgNotConfigured    = "Database not configured"
	msgUnavailable      = "Storage unavailable"
	msgTooLarge         = "Payload too large"
)

// ScoresResponse is the body of a successful list or submit.
type ScoresResponse struct {
	OK     bool                `json:"ok,omitempty"`
	Scores []leaderboard.Entry `json:"scores"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// submitRequest keeps both fields untyped so the service can tell a
// wrong type from a missing value.
type submitRequest struct {
	Name  any `json:"name"`
	Score any `json:"score"`
}

// Handler routes leaderboard requests.
type Handler struct {
	svc     *leaderboard.Service
	hub     *Hub
	logger  *log.Logger
	maxBody int64
	mux     *http.ServeMux
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// WithHub attaches a live feed. Without one, PathLive is not routed.
func WithHub(hub *Hub) Option {
	return func(h *Handler) { h.hub = hub }
}

// NewHandler builds the router over svc.
func NewHandler(svc *leaderboard.Service, opts ...Option) *Handler {
	h := &Handler{
		svc:     svc,
		logger:  log.New(io.Discard),
		maxBody: DefaultMaxBodyBytes,
		mux:     http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.mux.HandleFunc(PathScores, h.handleScores)
	h.mux.HandleFunc(PathHealth, h.handleHealth)
	if h.hub != nil {
		h.mux.HandleFunc(PathLive, h.handleLive)
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleScores(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listScores(w, r)
	case http.MethodPost:
		h.submitScore(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}
}

func (h *Handler) listScores(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Leaderboard(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ScoresResponse{Scores: entries})
}

func (h *Handler) submitScore(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.maxBody)
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var req submitRequest
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	entries, err := h.svc.Submit(r.Context(), req.Name, req.Score)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(entries)
	}
	writeJSON(w, http.StatusOK, ScoresResponse{OK: true, Scores: entries})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"configured": h.svc.Configured(),
	})
}

func (h *Handler) handleLive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	// A failed read only costs the new client its first frame.
	initial, err := h.svc.Leaderboard(r.Context())
	if err != nil {
		h.logger.Warn("live feed without initial scores", "error", err)
		initial = nil
	}
	h.hub.ServeWS(w, r, initial)
}

// writeServiceError maps service errors to status codes.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, leaderboard.ErrInvalidPayload):
		writeError(w, http.StatusBadRequest, msgInvalidPayload)
	case errors.Is(err, leaderboard.ErrNameRequired):
		writeError(w, http.StatusBadRequest, msgNameRequired)
	case errors.Is(err, leaderboard.ErrNotConfigured):
		h.logger.Error("store not configured", "path", r.URL.Path, "request_id", RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, msgNotConfigured)
	default:
		h.logger.Error("storage failure", "path", r.URL.Path, "request_id", RequestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, msgUnavailable)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
