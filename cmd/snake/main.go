// snake is a terminal Snake game with a shared leaderboard.
//
// Usage:
//
//	snake play      - Play in the terminal
//	snake serve     - Serve the leaderboard HTTP API
//	snake ssh       - Serve the game over SSH
//	snake scores    - Print the leaderboard
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.snake/config.yaml, ./configs/snake.yaml)
//	--store <backend>   - file, sqlite or postgres
//	--db <path>         - Scores file (file) or database file (sqlite)
//	--dsn <dsn>         - Postgres connection string (default: $DATABASE_URL)
//	--log-level <level> - debug, info, warn, error
//	--log-file <path>   - Also log to a rotating file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakeboard/internal/config"
	"github.com/vovakirdan/snakeboard/internal/leaderboard"
	"github.com/vovakirdan/snakeboard/internal/logging"
	"github.com/vovakirdan/snakeboard/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagStore    string
	flagDBPath   string
	flagDSN      string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - a terminal snake game with a shared leaderboard",
	Long: `Snake is a classic snake game for the terminal with a leaderboard
that can live in a JSON file, SQLite or PostgreSQL.

Available commands:
  play     - Play in your terminal
  serve    - Serve the leaderboard HTTP API
  ssh      - Let others play over SSH
  scores   - Print the leaderboard

Examples:
  snake play
  snake play --server http://localhost:8080
  snake serve --addr :8080 --store sqlite
  snake ssh --ssh :2222
  snake scores --limit 10`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "Storage backend: file, sqlite, postgres")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Scores file or SQLite database path")
	rootCmd.PersistentFlags().StringVar(&flagDSN, "dsn", "", "PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Rotating log file path")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sshCmd)
	rootCmd.AddCommand(scoresCmd)
}

// loadConfig resolves configuration: file, then environment, then flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(os.Getenv)

	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Storage.Backend = flagStore
	}
	if flags.Changed("dsn") {
		cfg.Storage.DSN = flagDSN
	}
	cfg.ResolveBackend()
	if flags.Changed("db") {
		if backend, _ := storage.ParseBackend(cfg.Storage.Backend); backend == storage.BackendSQLite {
			cfg.Storage.SQLite = flagDBPath
		} else {
			cfg.Storage.File = flagDBPath
		}
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = flagLogFile
	}

	return cfg, cfg.Validate()
}

// newLogger builds the command logger. console may be nil for file-only
// logging.
func newLogger(cfg config.Config, console io.Writer, prefix string) (*log.Logger, io.Closer, error) {
	return logging.New(console, logging.Options{
		Level:      cfg.Log.Level,
		Prefix:     prefix,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
}

// openService opens the configured store. A store that fails to open is
// logged and the service runs without one, reporting every call as
// unavailable.
func openService(cfg config.Config, logger *log.Logger) (*leaderboard.Service, func()) {
	opts := cfg.Storage.Options()
	store, err := storage.Open(opts)
	if err != nil {
		logger.Warn("could not open scores store", "backend", opts.Backend, "error", err)
		// Continue without storage
		return leaderboard.NewService(nil), func() {}
	}

	logger.Debug("scores store ready", "backend", opts.Backend, "path", opts.Path)
	return leaderboard.NewService(store), func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing scores store", "error", err)
		}
	}
}
