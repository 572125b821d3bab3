package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the 2048 SSH server",
	Long: `Start an SSH server that allows users to connect and play 2048.

Each SSH connection gets its own game. Scores are stored per-server (all
users share the same leaderboard) and each user has a private save slot.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, uses ssh.host_key from the config (~/.t2048/host_key)

Examples:
  t2048 serve                           # Listen on :23234
  t2048 serve --ssh :2222               # Listen on port 2222
  t2048 serve --host-key ./my_host_key  # Use specific host key
  t2048 serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting")
}

// sshConfig merges the serve flags over the config file.
func sshConfig(c config.Config) tui.SSHServerConfig {
	sc := tui.DefaultSSHServerConfig()
	if c.SSH.Address != "" {
		sc.Address = c.SSH.Address
	}
	sc.HostKeyPath = c.SSH.HostKey
	if c.SSH.IdleTimeout > 0 {
		sc.IdleTimeout = c.SSH.IdleTimeout
	}
	if flagSSHAddr != "" {
		sc.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		sc.HostKeyPath = config.ExpandHome(flagHostKey)
	}
	if flagIdleTimeout > 0 {
		sc.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}
	sc.TickRate = c.TickRate
	sc.SwipeThreshold = c.SwipeThreshold
	sc.Spawn4Prob = c.SpawnFourProbability
	theme := c.Theme.TileTheme()
	sc.Theme = &theme
	return sc
}

func runServe(_ *cobra.Command, _ []string) {
	logger, logCloser, err := newLogger(cfg, "t2048-ssh", false)
	exitOnErr("setting up logging", err)
	defer logCloser.Close()

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("scores and saving disabled", "err", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	sc := sshConfig(cfg)
	server, err := tui.NewSSHServer(sc, store, logger)
	exitOnErr("creating server", err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting t2048 SSH server on %s\n", sc.Address)
	fmt.Println("Press Ctrl+C to stop")

	exitOnErr("serving", server.ListenAndServe(ctx))
}
