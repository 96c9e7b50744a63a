package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/snakeboard/internal/client"
	"github.com/vovakirdan/snakeboard/internal/core"
	"github.com/vovakirdan/snakeboard/internal/platform/tui"
)

var (
	flagServer   string
	flagSeed     int64
	flagPlayName string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play snake in the terminal",
	Long: `Start a game in the terminal.

Controls:
  Arrows/WASD/HJKL - Steer
  Space            - Pause
  Enter/R          - New game
  N                - Submit score
  F                - Refresh leaderboard
  Q/Ctrl+C         - Quit

Scores go to the local store unless --server points at a running
'snake serve'.

Examples:
  snake play
  snake play --seed 42
  snake play --server http://localhost:8080 --name Ann`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagServer, "server", "", "Leaderboard API base URL (default: local store)")
	playCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	playCmd.Flags().StringVar(&flagPlayName, "name", "", "Name to pre-fill when submitting")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("server") {
		cfg.Client.Server = flagServer
	}
	if cmd.Flags().Changed("seed") {
		cfg.Game.Seed = flagSeed
	}

	// The TUI owns the terminal; log to the file only.
	logger, closer, err := newLogger(cfg, nil, "snake")
	if err != nil {
		return err
	}
	defer closer.Close()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	var board tui.Leaderboard
	if cfg.Client.Server != "" {
		logger.Info("using remote leaderboard", "server", cfg.Client.Server)
		board = client.New(cfg.Client.Server, cfg.Client.Timeout)
	} else {
		svc, closeStore := openService(cfg, logger)
		defer closeStore()
		board = svc
	}

	name := flagPlayName
	if name == "" {
		name = os.Getenv("USER")
	}

	return tui.Run(board, core.RuntimeConfig{
		ScreenW:      width,
		ScreenH:      height,
		TickInterval: cfg.Game.TickInterval,
		Seed:         cfg.Game.Seed,
	}, tui.Options{
		Name:    name,
		Timeout: cfg.Client.Timeout,
	})
}
