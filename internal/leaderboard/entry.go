// Package leaderboard holds the score-submission rules: name normalization,
// score clamping, ranking order and the service that applies them on top of
// a Store.
package leaderboard

import (
	"context"
	"encoding/json"
	"sort"
	"time"
)

const (
	// MaxNameLength is the longest accepted name, in characters.
	MaxNameLength = 24

	// ResultCap is the most entries any leaderboard view returns.
	ResultCap = 50

	// RetentionCap is the most entries a store keeps after a write.
	RetentionCap = 200
)

// timeLayout is RFC 3339 in UTC with millisecond precision.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Entry is a single ranked submission.
type Entry struct {
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// MarshalJSON encodes CreatedAt as UTC with milliseconds.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name      string `json:"name"`
		Score     int    `json:"score"`
		CreatedAt string `json:"createdAt"`
	}{
		Name:      e.Name,
		Score:     e.Score,
		CreatedAt: e.CreatedAt.UTC().Format(timeLayout),
	})
}

// Less reports whether a ranks ahead of b: higher score first, then earlier
// submission.
func Less(a, b Entry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

// Sort orders entries in place by rank. Exact ties keep their input order.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return Less(entries[i], entries[j])
	})
}

// Top returns at most n leading entries. n <= 0 or above ResultCap means
// ResultCap. The result is never nil.
func Top(entries []Entry, n int) []Entry {
	if n <= 0 || n > ResultCap {
		n = ResultCap
	}
	if len(entries) < n {
		n = len(entries)
	}
	out := make([]Entry, n)
	copy(out, entries[:n])
	return out
}

// Store persists entries. Implementations live in package storage.
type Store interface {
	// List returns up to limit entries in rank order.
	List(ctx context.Context, limit int) ([]Entry, error)

	// Append inserts e, trims the store to RetentionCap entries and returns
	// the top ResultCap entries of what was kept.
	Append(ctx context.Context, e Entry) ([]Entry, error)
}
