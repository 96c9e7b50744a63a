package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/snakeboard/internal/core"
)

//go:embed defaults/snake.yaml
var defaultYAML []byte

// VercelScoresFile is the writable location used when VERCEL is set.
const VercelScoresFile = "/tmp/scores.json"

// Default returns the hardcoded configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    64 << 10,
		},
		SSH: SSHConfig{
			Addr:        ":23234",
			HostKeyPath: ".ssh/snake_ed25519",
			IdleTimeout: 10 * time.Minute,
			MaxTimeout:  time.Hour,
		},
		Client: ClientConfig{
			Timeout: 5 * time.Second,
		},
		Storage: StorageConfig{
			File:   "data/scores.json",
			SQLite: "~/.snake/scores.db",
		},
		Game: GameConfig{
			TickInterval: core.DefaultTickInterval,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}
