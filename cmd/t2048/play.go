package main

import (
	"context"
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play 2048 in the terminal",
	Long: `Start a game of 2048 in this terminal.

Controls:
  Arrows/WASD/hjkl - Slide tiles
  Mouse drag       - Slide tiles
  Ctrl+S           - Save game
  Ctrl+L           - Load saved game
  R                - Restart
  Esc/B            - Back to menu
  Q/Ctrl+C         - Quit

Examples:
  t2048 play
  t2048 play --seed 42
  t2048 play --config ./my-t2048.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	logger, logCloser, err := newLogger(cfg, "t2048", true)
	exitOnErr("setting up logging", err)
	defer logCloser.Close()

	// Get terminal size early for the first layout
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rc := cfg.Runtime()
	rc.ScreenW = width
	rc.ScreenH = height
	rc.Seed = seed()

	// Open score storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("scores disabled", "err", err)
		// Continue without storage - game still works
		store = nil
	}

	slots, err := openSlots(context.Background(), cfg, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: saving disabled: %v\n", err)
		logger.Warn("saving disabled", "backend", cfg.Storage.Backend, "err", err)
	}

	opts := tui.AppOptions{
		Scores:         store,
		Player:         playerName(),
		Config:         rc,
		SwipeThreshold: cfg.SwipeThreshold,
		Spawn4Prob:     cfg.SpawnFourProbability,
		Logger:         logger,
	}
	theme := cfg.Theme.TileTheme()
	opts.Theme = &theme
	if slots != nil {
		opts.Slot = slots.Local()
	}

	logger.Info("starting", "backend", cfg.Storage.Backend, "seed", rc.Seed)
	runErr := tui.Run(opts)

	// Close stores before potential exit
	if slots != nil {
		slots.Close()
	}
	if store != nil {
		store.Close()
	}

	exitOnErr("running game", runErr)
}

// playerName is the name recorded with local high scores.
func playerName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "player"
}
