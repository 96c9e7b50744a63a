// Package storage provides leaderboard persistence. Three backends share one
// interface: a JSON file, SQLite (pure-Go modernc.org/sqlite driver, no CGO)
// and PostgreSQL (lib/pq).
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vovakirdan/snakeboard/internal/leaderboard"
)

// Backend names a storage implementation.
type Backend string

const (
	BackendFile     Backend = "file"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// ErrNotConfigured is returned by Open when the selected backend is missing
// its path or connection string.
var ErrNotConfigured = leaderboard.ErrNotConfigured

// Store is a leaderboard store that holds resources until closed.
type Store interface {
	leaderboard.Store

	// Count returns the number of retained entries.
	Count(ctx context.Context) (int, error)

	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend Backend
	// Path is the JSON file (file) or database file (sqlite).
	Path string
	// DSN is the postgres connection string.
	DSN string
}

// ParseBackend validates a backend name. The empty string selects file.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BackendFile, nil
	case BackendFile, BackendSQLite, BackendPostgres:
		return b, nil
	default:
		return "", fmt.Errorf("storage: unknown backend %q", s)
	}
}

// Open creates the store described by opts.
func Open(opts Options) (Store, error) {
	backend, err := ParseBackend(string(opts.Backend))
	if err != nil {
		return nil, err
	}

	switch backend {
	case BackendPostgres:
		if strings.TrimSpace(opts.DSN) == "" {
			return nil, fmt.Errorf("storage: postgres: %w", ErrNotConfigured)
		}
		return openSQL(postgresDialect, withSSLMode(opts.DSN))
	case BackendSQLite:
		path, err := preparePath(opts.Path)
		if err != nil {
			return nil, err
		}
		return openSQL(sqliteDialect, path)
	default:
		if strings.TrimSpace(opts.Path) == "" {
			return nil, fmt.Errorf("storage: file: %w", ErrNotConfigured)
		}
		path, err := expandHome(opts.Path)
		if err != nil {
			return nil, err
		}
		return NewFileStore(path), nil
	}
}

// preparePath expands ~ and creates the parent directory of a database file.
func preparePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("storage: sqlite: %w", ErrNotConfigured)
	}
	path, err := expandHome(path)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}
	return path, nil
}

func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
