// t2048 plays 2048 in the terminal and serves it over SSH, WebSocket and MCP.
//
// Usage:
//
//	t2048                 - Play in the terminal (same as "t2048 play")
//	t2048 play            - Play in the terminal
//	t2048 serve           - Start SSH server for remote play
//	t2048 web             - Start REST + WebSocket server
//	t2048 mcp             - Serve MCP tools over stdio
//	t2048 scores          - Show high scores
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.t2048/config.yaml)
//	--seed <value>      - RNG seed for reproducible gameplay
//	--fps <value>       - Ticks per second (overrides tick_rate)
//	--db <path>         - Database path (overrides db_path)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
)

var version = "dev"

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagFPS      int
	flagDBPath   string
	flagLogLevel string

	// cfg is loaded before every command runs.
	cfg config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 in your terminal",
	Long: `t2048 is the 2048 sliding-tile game for the terminal.

Slide the tiles with the arrow keys, WASD, hjkl or a mouse drag. Equal tiles
merge into their sum. The game ends when no move can change the board.

Available commands:
  play     - Play in the terminal (default)
  serve    - Start SSH server for remote play
  web      - Start REST + WebSocket server
  mcp      - Serve MCP tools over stdio
  scores   - View high scores

Examples:
  t2048
  t2048 play --seed 42
  t2048 serve --ssh :2222
  t2048 web --addr :8080
  t2048 scores`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	Run:               runPlay,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Ticks per second (0 = use config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (overrides config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(scoresCmd)
}

func loadConfig(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDBPath != "" {
		loaded.DBPath = config.ExpandHome(flagDBPath)
	}
	if flagFPS > 0 {
		loaded.TickRate = flagFPS
	}
	if flagLogLevel != "" {
		loaded.LogLevel = flagLogLevel
	}
	cfg = loaded
	return nil
}

// seed returns the --seed value, or the clock when it is unset.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// seedFunc returns the spawner seed source for server sessions. A fixed
// --seed gives every session the same sequence.
func seedFunc() func() int64 {
	if flagSeed == 0 {
		return nil
	}
	return func() int64 { return flagSeed }
}

// exitOnErr prints err and exits.
func exitOnErr(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error %s: %v\n", msg, err)
		os.Exit(1)
	}
}
