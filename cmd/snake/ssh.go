package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakeboard/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagSSHSeed     int64
)

var sshCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Serve the game over SSH",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own game. Scores go to this server's store,
so all users share the same leaderboard.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise uses ssh.host_key from config, generated on first start

Examples:
  snake ssh                           # Listen on :23234
  snake ssh --ssh :2222               # Listen on port 2222
  snake ssh --host-key ./my_host_key  # Use specific host key
  snake ssh --store sqlite            # Keep scores in SQLite

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runSSH,
}

func init() {
	sshCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default :23234)")
	sshCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (generated if missing)")
	sshCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting")
	sshCmd.Flags().Int64Var(&flagSSHSeed, "seed", 0, "RNG seed for every session (0 = random)")
}

func runSSH(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("ssh") {
		cfg.SSH.Addr = flagSSHAddr
	}
	if flags.Changed("host-key") {
		cfg.SSH.HostKeyPath = flagHostKey
	}
	if flags.Changed("idle-timeout") {
		cfg.SSH.IdleTimeout = minutes(flagIdleTimeout)
	}
	if flags.Changed("seed") {
		cfg.Game.Seed = flagSSHSeed
	}

	logger, closer, err := newLogger(cfg, os.Stderr, "snake-ssh")
	if err != nil {
		return err
	}
	defer closer.Close()

	svc, closeStore := openService(cfg, logger)
	defer closeStore()

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:      cfg.SSH.Addr,
		HostKeyPath:  cfg.SSH.HostKeyPath,
		IdleTimeout:  cfg.SSH.IdleTimeout,
		MaxTimeout:   cfg.SSH.MaxTimeout,
		TickInterval: cfg.Game.TickInterval,
		Seed:         cfg.Game.Seed,
		Timeout:      cfg.Client.Timeout,
	}, svc, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Connect with: ssh localhost -p %s\n", port(server.Addr()))
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe(ctx)
}
