package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagLimit int
	flagClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top high scores and overall statistics.

Examples:
  t2048 scores
  t2048 scores --limit 20
  t2048 scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded scores")
}

func runScores(_ *cobra.Command, _ []string) {
	// Open score storage
	store, err := storage.Open(cfg.DBPath)
	exitOnErr("opening scores database", err)
	defer store.Close()

	if flagClear {
		exitOnErr("clearing scores", store.ClearScores())
		fmt.Println("All scores cleared.")
		return
	}

	// Get top scores
	scores, err := store.TopScores(flagLimit)
	exitOnErr("retrieving scores", err)

	// Display scores
	fmt.Println("High Scores - 2048")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 't2048 play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-12s  %-8s  %-6s  %s\n", "Rank", "Player", "Score", "Tile", "Date")
	fmt.Printf("  %-4s  %-12s  %-8s  %-6s  %s\n", "----", "------", "-----", "----", "----")

	// Print scores
	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-12s  %-8d  %-6d  %s\n", i+1, entry.Player, entry.Score, entry.MaxTile, dateStr)
	}

	// Show stats
	fmt.Println()
	if stats, err := store.Stats(); err == nil {
		fmt.Printf("Best: %d | Games: %d | Average: %.0f | Best tile: %d\n",
			stats.HighScore, stats.GamesCount, stats.AvgScore, stats.BestTile)
	}
}
