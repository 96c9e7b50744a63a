package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakeboard/internal/api"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the leaderboard HTTP API",
	Long: `Start the leaderboard HTTP API.

Endpoints:
  GET  /api/scores       - Top 50 scores
  POST /api/scores       - Submit {"name": string, "score": number}
  GET  /api/scores/live  - Websocket feed of the top 50 after each submission
  GET  /healthz          - Liveness and store status

The store is chosen by --store (or SNAKE_STORE); DATABASE_URL selects
PostgreSQL when no backend is given.

Examples:
  snake serve
  snake serve --addr :9000 --store sqlite --db ./scores.db
  DATABASE_URL=postgres://localhost/snake snake serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "HTTP listen address (default :8080)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = flagAddr
	}

	logger, closer, err := newLogger(cfg, os.Stderr, "snake-api")
	if err != nil {
		return err
	}
	defer closer.Close()

	svc, closeStore := openService(cfg, logger)
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(api.ServerConfig{
		Address:         cfg.Server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
	}, svc, logger)

	return server.Run(ctx)
}
