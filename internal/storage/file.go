package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vovakirdan/snakeboard/internal/leaderboard"
)

// FileStore keeps the leaderboard as a JSON array in a single file.
// Writes from one process are serialized; separate processes race.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on the
// first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// List returns up to limit entries in rank order.
func (s *FileStore) List(_ context.Context, limit int) ([]leaderboard.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	leaderboard.Sort(entries)
	return leaderboard.Top(entries, limit), nil
}

// Append adds e, keeps the top RetentionCap entries and rewrites the file.
func (s *FileStore) Append(_ context.Context, e leaderboard.Entry) ([]leaderboard.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	entries = append(entries, e)
	leaderboard.Sort(entries)
	if len(entries) > leaderboard.RetentionCap {
		entries = entries[:leaderboard.RetentionCap]
	}

	if err := s.write(entries); err != nil {
		return nil, err
	}
	return leaderboard.Top(entries, leaderboard.ResultCap), nil
}

// Count returns the number of retained entries.
func (s *FileStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}

// read loads the file. A missing or malformed file reads as empty.
func (s *FileStore) read() ([]leaderboard.Entry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []leaderboard.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read %s: %w", s.path, err)
	}

	var entries []leaderboard.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return []leaderboard.Entry{}, nil
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	return entries, nil
}

// write replaces the file atomically via a temp file in the same directory.
func (s *FileStore) write(entries []leaderboard.Entry) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: cannot encode scores: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".scores-*.json")
	if err != nil {
		return fmt.Errorf("storage: cannot create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: cannot write scores: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: cannot write scores: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: cannot write scores: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("storage: cannot replace %s: %w", s.path, err)
	}
	return nil
}
