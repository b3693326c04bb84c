package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/speedy-highway/internal/progress"
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the high-score table",
	Long: `Display the high scores and the best score per difficulty from the
progress record.

Examples:
  highway scores
  highway scores --data ./game_data.json`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func runScores(cmd *cobra.Command, _ []string) {
	logger, closer := openLogger()
	defer closer.Close()

	cfg := loadConfig()
	rec := loadStore(cfg, logger).Record()
	printScores(cmd.OutOrStdout(), rec.HighScores, rec.BestScoresPerDifficulty, cfg.DifficultyNames())
}

func printScores(w io.Writer, scores []progress.ScoreEntry, best []int, names []string) {
	fmt.Fprintln(w, "High Scores - Speedy Highway")
	fmt.Fprintln(w)

	if len(scores) == 0 {
		fmt.Fprintln(w, "No scores recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Play 'highway play' to set the first high score!")
		return
	}

	fmt.Fprintf(w, "  %-4s  %-8s  %-10s  %-6s  %s\n", "Rank", "Score", "Difficulty", "Time", "Date")
	fmt.Fprintf(w, "  %-4s  %-8s  %-10s  %-6s  %s\n", "----", "-----", "----------", "----", "----")
	for i, e := range scores {
		fmt.Fprintf(w, "  %-4d  %-8d  %-10s  %-6s  %s\n", i+1, e.Score, e.Difficulty, fmt.Sprintf("%ds", e.SurvivalTime), e.Date)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Best per difficulty:")
	for i, name := range names {
		if i < len(best) {
			fmt.Fprintf(w, "  %-8s %d\n", name, best[i])
		}
	}
}
