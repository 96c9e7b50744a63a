package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/snakeboard/internal/storage"
)

// LocalConfigPath is the project-relative config file.
const LocalConfigPath = "configs/snake.yaml"

// Load reads configuration.
// Search order: customPath -> ~/.snake/config.yaml -> ./configs/snake.yaml -> embedded default
// Files are merged over the hardcoded defaults, so partial files are fine.
func Load(customPath string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if path := userConfigPath(); path != "" {
		if loaded, ok := tryFile(path); ok {
			return loaded, nil
		}
	}

	// Try local configs directory
	if loaded, ok := tryFile(LocalConfigPath); ok {
		return loaded, nil
	}

	// Use embedded default YAML
	embedded := Default()
	if err := yaml.Unmarshal(defaultYAML, &embedded); err != nil {
		return cfg, nil // Fallback to hardcoded if embed fails
	}
	return embedded, nil
}

func tryFile(path string) (Config, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, false
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, false
	}
	return cfg, true
}

// userConfigPath returns ~/.snake/config.yaml, or empty if home is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".snake", "config.yaml")
}

// ApplyEnv overlays environment variables read through getenv.
//
//	DATABASE_URL  storage.dsn; selects postgres when no backend is set
//	SNAKE_STORE   storage.backend
//	SNAKE_ADDR    server.addr
//	SNAKE_SERVER  client.server
//	VERCEL        storage.file = /tmp/scores.json
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("DATABASE_URL"); v != "" {
		c.Storage.DSN = v
	}
	if v := getenv("SNAKE_STORE"); v != "" {
		c.Storage.Backend = v
	}
	if v := getenv("SNAKE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("SNAKE_SERVER"); v != "" {
		c.Client.Server = v
	}
	if getenv("VERCEL") != "" {
		c.Storage.File = VercelScoresFile
	}
	c.ResolveBackend()
}

// ResolveBackend selects postgres when no backend is set but a DSN is.
// Call it again after any later layer touches the storage section.
func (c *Config) ResolveBackend() {
	if strings.TrimSpace(c.Storage.Backend) == "" && c.Storage.DSN != "" {
		c.Storage.Backend = string(storage.BackendPostgres)
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := storage.ParseBackend(c.Storage.Backend); err != nil {
		errs = append(errs, err)
	}
	if c.Game.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("config: game.tick_interval must be positive, got %s", c.Game.TickInterval))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("config: server.shutdown_timeout must not be negative"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("config: server.max_body_bytes must be positive"))
	}
	return errors.Join(errs...)
}
