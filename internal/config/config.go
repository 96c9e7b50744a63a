// Package config provides YAML-based configuration loading for the snake
// binary: server addresses, storage backend, game timing and logging.
package config

import (
	"time"

	"github.com/vovakirdan/snakeboard/internal/storage"
)

// Config is the full configuration tree.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	SSH     SSHConfig     `yaml:"ssh"`
	Client  ClientConfig  `yaml:"client"`
	Storage StorageConfig `yaml:"storage"`
	Game    GameConfig    `yaml:"game"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig configures the HTTP leaderboard API.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// SSHConfig configures the SSH game server.
type SSHConfig struct {
	Addr        string        `yaml:"addr"`
	HostKeyPath string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	MaxTimeout  time.Duration `yaml:"max_timeout"`
}

// ClientConfig points play and scores at a remote API. Empty means the
// local store is used directly.
type ClientConfig struct {
	Server  string        `yaml:"server"`
	Timeout time.Duration `yaml:"timeout"`
}

// StorageConfig selects the leaderboard backend.
type StorageConfig struct {
	Backend string `yaml:"backend"` // file, sqlite, postgres; empty picks from DSN
	File    string `yaml:"file"`
	SQLite  string `yaml:"sqlite"`
	DSN     string `yaml:"dsn"`
}

// GameConfig holds simulation timing.
type GameConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	Seed         int64         `yaml:"seed"` // 0 seeds from the clock
}

// LogConfig configures the logger and its optional rotating file.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Options converts the storage section for storage.Open.
func (s StorageConfig) Options() storage.Options {
	backend, err := storage.ParseBackend(s.Backend)
	if err != nil {
		backend = storage.Backend(s.Backend)
	}
	opts := storage.Options{Backend: backend, DSN: s.DSN}
	switch backend {
	case storage.BackendSQLite:
		opts.Path = s.SQLite
	case storage.BackendFile:
		opts.Path = s.File
	}
	return opts
}
