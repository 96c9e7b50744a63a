package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakeboard/internal/client"
	"github.com/vovakirdan/snakeboard/internal/leaderboard"
	"github.com/vovakirdan/snakeboard/internal/platform/tui"
)

var (
	flagScoresServer string
	flagLimit        int
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Print the leaderboard",
	Long: `Print the ranked leaderboard, highest score first.

Examples:
  snake scores
  snake scores --limit 10
  snake scores --server http://localhost:8080`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresServer, "server", "", "Leaderboard API base URL (default: local store)")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", leaderboard.ResultCap, "Number of entries to show")
}

func runScores(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("server") {
		cfg.Client.Server = flagScoresServer
	}

	logger, closer, err := newLogger(cfg, os.Stderr, "snake")
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Client.Timeout)
	defer cancel()

	var entries []leaderboard.Entry
	if cfg.Client.Server != "" {
		entries, err = client.New(cfg.Client.Server, cfg.Client.Timeout).Leaderboard(ctx)
	} else {
		svc, closeStore := openService(cfg, logger)
		defer closeStore()
		entries, err = svc.Leaderboard(ctx)
	}
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	if flagLimit > 0 && flagLimit < len(entries) {
		entries = entries[:flagLimit]
	}
	fmt.Print(tui.FormatScores(entries))
	return nil
}
