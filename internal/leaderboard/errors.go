package leaderboard

import "errors"

var (
	// ErrInvalidPayload is returned when the name is not text or the score not a number.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrNameRequired is returned when the name is empty after normalization.
	ErrNameRequired = errors.New("name required")

	// ErrStorageUnavailable wraps every failure of the backing store.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNotConfigured is returned when the backing store has no usable
	// configuration, such as a postgres backend without a connection string.
	ErrNotConfigured = errors.New("database not configured")
)
