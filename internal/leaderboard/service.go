package leaderboard

import (
	"context"
	"fmt"
	"time"
)

// Service validates submissions and serves ranked views from a Store.
type Service struct {
	store Store
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the submission timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a service over store. A nil store is allowed: every
// call then fails with ErrStorageUnavailable wrapping ErrNotConfigured.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configured reports whether the service has a backing store.
func (s *Service) Configured() bool {
	return s.store != nil
}

// Submit validates and records a score, returning the resulting top view.
//
// rawName must be a string and rawScore a finite number, as decoded from a
// request body; anything else is ErrInvalidPayload.
func (s *Service) Submit(ctx context.Context, rawName, rawScore any) ([]Entry, error) {
	name, ok := rawName.(string)
	if !ok {
		return nil, ErrInvalidPayload
	}
	score, ok := numeric(rawScore)
	if !ok {
		return nil, ErrInvalidPayload
	}

	name = NormalizeName(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	if s.store == nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, ErrNotConfigured)
	}

	entries, err := s.store.Append(ctx, Entry{
		Name:      name,
		Score:     ClampScore(score),
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return Top(entries, ResultCap), nil
}

// Leaderboard returns the top ResultCap entries.
func (s *Service) Leaderboard(ctx context.Context) ([]Entry, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, ErrNotConfigured)
	}
	entries, err := s.store.List(ctx, ResultCap)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return Top(entries, ResultCap), nil
}
